package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/tether"
	"github.com/phanxgames/tether/internal/server"
	"github.com/phanxgames/tether/persist"
)

// frameInterval is how often serve advances the store clock.
const frameInterval = 16 * time.Millisecond

func newServeCmd() *cobra.Command {
	var (
		addr     string
		elements string
		viewport string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a tip store over HTTP",
		Long: `Serve a store over a JSON API. Pinned tips are restored from the
configured backend on start and saved back on every change.

Element bounds come from a YAML file mapping element refs to rectangles:

  btn:   {x: 100, y: 100, width: 40, height: 20}
  panel: {x: 50, y: 50, width: 400, height: 400}

The root container ("") defaults to --viewport.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			l := loggerFromContext(cmd.Context())
			if addr == "" {
				addr = cfg.Server.Addr
			}
			host, err := loadElements(elements, viewport)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			b, err := openBackend(cmd)
			if err != nil {
				return err
			}
			defer b.Close()

			store := newStore(cfg, l)
			store.SetHost(host)
			if err := persist.Restore(ctx, store, b); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			autosave := persist.Autosave(ctx, store, b, l)
			defer autosave.Remove()

			srv := server.New(store, b, l)
			go func() {
				t := time.NewTicker(frameInterval)
				defer t.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-t.C:
						srv.Locked(func(s *tether.Store) { s.Update(frameInterval.Seconds()) })
					}
				}
			}()

			l.Info("serving", "addr", addr, "tips", len(store.StoredTips()))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	f.StringVar(&elements, "elements", "", "YAML file of element bounds")
	f.StringVar(&viewport, "viewport", "0,0,1280,720", "root container rectangle x,y,w,h")
	return cmd
}

// loadElements builds the host table from path, adding the viewport as the
// root container unless the file names one.
func loadElements(path, viewport string) (tether.Elements, error) {
	root, err := parseRect(viewport)
	if err != nil {
		return nil, fmt.Errorf("--viewport: %w", err)
	}
	els := tether.Elements{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &els); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if _, ok := els[""]; !ok {
		els[""] = root
	}
	return els, nil
}
