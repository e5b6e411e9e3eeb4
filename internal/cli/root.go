//go:build unix

package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentsh/udgram/internal/config"
)

// NewRoot builds the udgram command tree.
func NewRoot(version string) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "udgram",
		Short:         "udgram: send and receive Unix-domain datagrams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Version = version
	cmd.SetVersionTemplate("udgram {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", getenvDefault("UDGRAM_CONFIG", ""), "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.sockPath, "path", getenvDefault("UDGRAM_PATH", ""), "socket path")

	cmd.AddCommand(newSendCmd(opts))
	cmd.AddCommand(newRecvCmd(opts))
	cmd.AddCommand(newPingCmd(opts))

	return cmd
}

type rootOptions struct {
	configPath string
	sockPath   string
}

// load resolves the effective config: file if given, built-in defaults
// otherwise.
func (o *rootOptions) load() (*config.Config, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.configPath)
}

// socketPath resolves the target path, flag over config file.
func (o *rootOptions) socketPath(cfg *config.Config) (string, error) {
	if o.sockPath != "" {
		return o.sockPath, nil
	}
	if cfg.Socket.Path != "" {
		return cfg.Socket.Path, nil
	}
	return "", errors.New("no socket path: pass --path or set socket.path in the config")
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
