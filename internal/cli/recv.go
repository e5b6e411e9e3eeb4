//go:build unix

package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentsh/udgram/pkg/udgram"
)

// pollSlice bounds each library wait so the loop notices a canceled context.
const pollSlice = 500 * time.Millisecond

func newRecvCmd(opts *rootOptions) *cobra.Command {
	var count int
	var timeout time.Duration
	var echo bool

	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Bind a socket path and print incoming datagrams",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			path, err := opts.socketPath(cfg)
			if err != nil {
				return err
			}
			wait := timeout
			if !cmd.Flags().Changed("timeout") {
				if wait, err = cfg.ReceiveTimeout(); err != nil {
					return err
				}
			}

			logger := cfg.NewLogger(os.Stderr)
			recv, err := udgram.NewReceiver(path, logger)
			if err != nil {
				return err
			}
			defer recv.Close()
			logger.Info("listening", "path", path)

			return recvLoop(cmd.Context(), cmd, recv, count, wait, echo)
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "exit after this many datagrams (0 = run until interrupted)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long without a datagram (0 = wait forever)")
	cmd.Flags().BoolVar(&echo, "echo", false, "echo each datagram back to the reply path in its first line")

	return cmd
}

func recvLoop(ctx context.Context, cmd *cobra.Command, recv *udgram.Receiver, count int, timeout time.Duration, echo bool) error {
	buf := make([]byte, udgram.MessageSize)
	received := 0
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	for ctx.Err() == nil {
		wait := pollSlice
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return fmt.Errorf("no datagram within %s", timeout)
			}
			if remaining < wait {
				wait = remaining
			}
		}

		n, err := recv.Read(buf, udgram.WaitFor(wait))
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}

		received++
		if !deadline.IsZero() {
			deadline = time.Now().Add(timeout)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d bytes: %s\n", n, preview(buf[:n]))

		if echo {
			if err := echoReply(recv, buf[:n]); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "echo: %v\n", err)
			}
		}
		if count > 0 && received >= count {
			return nil
		}
	}
	return nil
}

// echoReply sends the datagram body back to the reply path carried in its
// first line.
func echoReply(recv *udgram.Receiver, datagram []byte) error {
	replyPath, body, ok := bytes.Cut(datagram, []byte{'\n'})
	if !ok || len(replyPath) == 0 {
		return fmt.Errorf("datagram has no reply path line")
	}
	_, err := recv.SendTo(body, string(replyPath))
	return err
}

// preview renders up to 64 payload bytes for the log line.
func preview(b []byte) string {
	const max = 64
	if len(b) > max {
		return fmt.Sprintf("%q...", b[:max])
	}
	return fmt.Sprintf("%q", b)
}
