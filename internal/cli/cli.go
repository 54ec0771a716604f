package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/tether"
	"github.com/phanxgames/tether/persist"
)

var (
	version string
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the tether CLI. Long-running commands stop when ctx is
// cancelled.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		verbose    bool
		configPath string
		dsn        string
	)

	root := &cobra.Command{
		Use:          "tether",
		Short:        "Tooltip placement engine and pinned-tip store",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *tether.FileConfig
				err error
			)
			if configPath != "" {
				cfg, err = tether.LoadConfigFile(configPath)
			} else {
				cfg, err = tether.LoadConfig()
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if dsn != "" {
				cfg.Persist.DSN = dsn
			}

			level, err := charmlog.ParseLevel(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("log_level: %w", err)
			}
			if verbose {
				level = charmlog.DebugLevel
			}
			l := newLogger(stderr, level)
			tether.SetLogger(l)

			ctx := withConfig(withLogger(cmd.Context(), l), cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("tether %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: search $"+tether.ConfigEnv+", XDG and ./tether.toml)")
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "stored-tips backend, overrides persist.dsn")

	root.AddCommand(newPlaceCmd())
	root.AddCommand(newTipsCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newScriptCmd())
	return root
}

// newStore creates a store configured from cfg.
func newStore(cfg *tether.FileConfig, l *charmlog.Logger) *tether.Store {
	s := tether.NewStore(tether.StoreConfig{
		PreserveLocationOnReset: cfg.Store.PreserveLocationOnReset,
		Logger:                  l,
	})
	s.SetDisabled(cfg.Store.Disabled)
	return s
}

// openBackend opens the configured stored-tips backend.
func openBackend(cmd *cobra.Command) (persist.Backend, error) {
	cfg := configFromContext(cmd.Context())
	b, err := persist.Open(cmd.Context(), cfg.Persist.DSN)
	if err != nil {
		return nil, err
	}
	loggerFromContext(cmd.Context()).Debug("backend opened", "dsn", cfg.Persist.DSN)
	return b, nil
}
