package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/tether/internal/tui"
	"github.com/phanxgames/tether/persist"
)

func newDemoCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive terminal demo",
		Long: `Hover widgets with the mouse or arrow keys to show their tips. Click a
tip to pin it and drag pinned tips around. Pinned tips are kept in the
configured backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			l := loggerFromContext(ctx)

			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			store := newStore(cfg, l)
			m, err := tui.New(store, tui.DefaultWidgets(width, height), width, height)
			if err != nil {
				return err
			}
			defer m.Close()
			if err := persist.Restore(ctx, store, b); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			autosave := persist.Autosave(ctx, store, b, l)
			defer autosave.Remove()

			return tui.Run(ctx, m)
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "screen width in cells")
	cmd.Flags().IntVar(&height, "height", 24, "screen height in cells")
	return cmd
}
