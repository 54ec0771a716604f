// Package tether positions tooltips ("tips") and manages their lifecycle.
//
// Given a source element, a tip overlay and a declarative [Config], tether
// computes where the tip goes relative to its target, keeps that position
// correct as geometry changes, and runs the show/hide timing, pinning and
// dragging of tips. Rendering is left to the caller; the [ebitentip]
// package provides an Ebitengine adapter.
//
// # Quick start
//
// A [Store] owns every tip. Register a source, feed it pointer events and
// the measured tip geometry, and advance its clock once per frame:
//
//	store := tether.NewStore(tether.StoreConfig{Host: elements})
//	store.OnLayoutChange(func(ev tether.LayoutEvent) { ... })
//
//	h, _ := store.RegisterOrShare("save-button", tether.DefaultConfig())
//	h.MouseOver(tether.Vec2{X: 120, Y: 40})
//	h.SetGeometry(tether.BoxGeometry(tether.Size{Width: 80, Height: 24}))
//
//	func (g *Game) Update() error {
//		g.store.Update(1.0 / float64(ebiten.TPS()))
//		return nil
//	}
//
// # Placement
//
// [Place] is a pure function: the tip corner [PositionConfig.My] is
// attached to the target corner [PositionConfig.At], shifted by the adjust
// offset, and optionally flipped to another corner or shifted back inside
// the container when it would overflow.
//
// # Pinning and persistence
//
// Pinned tips stay visible and can be dragged with a [Dragger]. The pinned
// subset is published as a [StoredTip] list through [Store.OnTipChange];
// feed it back with [Store.ReconcilePersisted] on the next start. The
// persist package stores the list in a file, SQLite, Redis or MongoDB.
//
// # Configuration
//
// Configs compose with [MergeObjects] over a generic [Values] tree, and are
// read from TOML files with [LoadConfig].
//
// [ebitentip]: https://pkg.go.dev/github.com/phanxgames/tether/ebitentip
package tether
