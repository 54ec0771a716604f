package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/tether"
	"github.com/phanxgames/tether/persist"
)

func newTipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Manage stored pinned tips",
		Long:  `Inspect and edit the pinned-tip list held by the configured backend (--dsn or persist.dsn).`,
	}
	cmd.AddCommand(newTipsListCmd())
	cmd.AddCommand(newTipsClearCmd())
	cmd.AddCommand(newTipsExportCmd())
	cmd.AddCommand(newTipsImportCmd())
	return cmd
}

// loadTips reads the stored list, treating a backend that has never been
// saved to as empty.
func loadTips(ctx context.Context, b persist.Backend) ([]tether.StoredTip, error) {
	tips, err := b.Load(ctx)
	if errors.Is(err, persist.ErrNotFound) {
		return nil, nil
	}
	return tips, err
}

func newTipsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored tips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			tips, err := loadTips(cmd.Context(), b)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(tips) == 0 {
				fmt.Fprintln(w, styleDim.Render("No stored tips"))
				return nil
			}
			t := newTable("ID", "CORNER", "LOCATION", "AT")
			for _, tip := range tips {
				t.Row(tip.ID, tip.My.String(),
					fmt.Sprintf("%g,%g", tip.Location.X, tip.Location.Y),
					tip.Config.Position.At.String())
			}
			fmt.Fprintln(w, t.Render())
			fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("%d stored", len(tips))))
			return nil
		},
	}
}

func newTipsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored tip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Save(cmd.Context(), nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render("Stored tips cleared"))
			return nil
		},
	}
}

func newTipsExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write stored tips to a YAML or JSON document",
		Long: `Write the stored list to file, picking the encoding from its extension,
or to stdout in the --format encoding.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				f, err := persist.FormatOf(args[0])
				if err != nil {
					return err
				}
				format = f
			}
			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			tips, err := loadTips(cmd.Context(), b)
			if err != nil {
				return err
			}
			data, err := persist.Marshal(tips, format)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("exported", "tips", len(tips), "file", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "stdout encoding (yaml, json)")
	return cmd
}

func newTipsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace stored tips with a YAML or JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := persist.FormatOf(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			tips, err := persist.Unmarshal(data, format)
			if err != nil {
				return err
			}
			for _, t := range tips {
				if t.ID == "" {
					return fmt.Errorf("%s: tip without id: %w", args[0], tether.ErrInvalidArgument)
				}
				if err := t.Config.Validate(); err != nil {
					return fmt.Errorf("%s: tip %q: %w", args[0], t.ID, err)
				}
			}

			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()
			if err := b.Save(cmd.Context(), tips); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(fmt.Sprintf("Imported %d tips", len(tips))))
			return nil
		},
	}
}
