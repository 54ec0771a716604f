package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/tether"
)

func newScriptCmd() *cobra.Command {
	var elements, viewport string

	cmd := &cobra.Command{
		Use:   "script <file.json>",
		Short: "Replay an interaction script",
		Long: `Run a JSON interaction script against a fresh store and report the first
failing step. Element bounds are read as for serve.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sc, err := tether.LoadScript(data)
			if err != nil {
				return err
			}
			host, err := loadElements(elements, viewport)
			if err != nil {
				return err
			}

			store := newStore(configFromContext(cmd.Context()), loggerFromContext(cmd.Context()))
			store.SetHost(host)
			if err := sc.Run(store); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render(fmt.Sprintf("%d steps passed", sc.Len())))
			for _, t := range store.StoredTips() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %g,%g\n", styleDim.Render("pinned"), t.ID, t.My, t.Location.X, t.Location.Y)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&elements, "elements", "", "YAML file of element bounds")
	cmd.Flags().StringVar(&viewport, "viewport", "0,0,800,600", "root container rectangle x,y,w,h")
	return cmd
}
