//go:build unix

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentsh/udgram/pkg/udgram"
)

func newSendCmd(opts *rootOptions) *cobra.Command {
	var data string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one datagram to a bound socket path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			path, err := opts.socketPath(cfg)
			if err != nil {
				return err
			}
			payload, err := sendPayload(data, fromStdin, cmd.InOrStdin())
			if err != nil {
				return err
			}

			sender, err := udgram.NewSender()
			if err != nil {
				return err
			}
			defer sender.Close()

			n, err := sender.SendTo(payload, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d bytes to %s\n", n, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "payload string")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read payload from stdin")
	cmd.MarkFlagsMutuallyExclusive("data", "stdin")

	return cmd
}

// sendPayload assembles the datagram body and enforces the size limit before
// it can trip the library's contract check.
func sendPayload(data string, fromStdin bool, stdin io.Reader) ([]byte, error) {
	var payload []byte
	if fromStdin {
		// Read one byte past the limit so oversize input is detected.
		buf, err := io.ReadAll(io.LimitReader(stdin, udgram.MessageSize+1))
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		payload = buf
	} else {
		payload = []byte(data)
	}
	if len(payload) > udgram.MessageSize {
		return nil, fmt.Errorf("payload exceeds %d bytes", udgram.MessageSize)
	}
	return payload, nil
}
