//go:build unix

package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentsh/udgram/pkg/udgram"
)

func newPingCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Round-trip a datagram through a `recv --echo` endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			path, err := opts.socketPath(cfg)
			if err != nil {
				return err
			}

			token := uuid.NewString()
			replyPath := filepath.Join(os.TempDir(), "udgram-ping-"+token[:8]+".sock")

			logger := cfg.NewLogger(os.Stderr)
			recv, err := udgram.NewReceiver(replyPath, logger)
			if err != nil {
				return err
			}
			defer recv.Close()

			// The echo peer cuts the first line off as the reply address.
			payload := []byte(replyPath + "\n" + token)
			start := time.Now()
			if _, err := recv.SendTo(payload, path); err != nil {
				return err
			}

			buf := make([]byte, udgram.MessageSize)
			n, err := recv.Read(buf, udgram.WaitFor(timeout))
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("no reply from %s within %s", path, timeout)
			}
			if !bytes.Equal(buf[:n], []byte(token)) {
				return fmt.Errorf("reply does not match token: %s", preview(buf[:n]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reply from %s in %s\n", path, time.Since(start).Round(time.Microsecond))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "how long to wait for the echo reply")

	return cmd
}
