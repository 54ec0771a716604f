package tether

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// StoredTip is the persisted snapshot of a pinned tip.
type StoredTip struct {
	ID       string `json:"id" yaml:"id" bson:"_id"`
	My       Corner `json:"my" yaml:"my" bson:"my"`
	Location Vec2   `json:"location" yaml:"location" bson:"location"`
	Config   Config `json:"config" yaml:"config" bson:"-"`
}

// Equal reports whether t and o hold the same snapshot.
func (t StoredTip) Equal(o StoredTip) bool {
	return t.ID == o.ID && t.My == o.My && t.Location == o.Location && t.Config.Equal(o.Config)
}

func equalStoredTips(a, b []StoredTip) bool {
	return slices.EqualFunc(a, b, StoredTip.Equal)
}

func cloneStoredTips(tips []StoredTip) []StoredTip {
	if tips == nil {
		return nil
	}
	return slices.Clone(tips)
}

// TipView is what a renderer needs to draw one tip.
type TipView struct {
	ID       string
	Corner   Corner
	Location Rect // container-relative
	LaidOut  bool
	Pinned   bool
	State    State
	Config   Config
}

// EntityStore is the interface for optional ECS integration. When set on a
// Store, tip events are forwarded to it.
type EntityStore interface {
	EmitEvent(event TipEvent)
}

// TipEventKind identifies a TipEvent.
type TipEventKind uint8

const (
	TipShown TipEventKind = iota
	TipHidden
	TipLayout
)

// TipEvent carries tip output to the ECS bridge.
type TipEvent struct {
	Kind     TipEventKind
	ID       string
	Corner   Corner
	Location Rect
	Pinned   bool
}

// StoreConfig configures NewStore.
type StoreConfig struct {
	// Host resolves source, target and container references.
	Host Host
	// Scheduler runs show and hide delays. Nil uses a new Clock driven by
	// Store.Update.
	Scheduler Scheduler
	// PreserveLocationOnReset keeps an unpinned tip's last corner and
	// location across a configuration reset.
	PreserveLocationOnReset bool
	// StoredTips seeds the store with persisted tips.
	StoredTips []StoredTip
	// Logger defaults to the package logger.
	Logger *log.Logger
}

type record struct {
	src       *Source
	refs      int
	persisted bool
}

// Store multiplexes many tip sources over one persisted pinned-tip list.
// Records live in an arena keyed by id and are shared by reference count
// between live sources and the persisted list. A Store is driven from a
// single goroutine and is not safe for concurrent use.
type Store struct {
	records map[string]*record
	host    Host
	sched   Scheduler
	clock   *Clock
	log     *log.Logger

	preserveLocation bool
	disabled         bool
	debug            bool

	handlers handlerRegistry
	entities EntityStore

	batchDepth int
	quiet      int         // >0 while an intermediate drag move is applied
	tips       []StoredTip // last emitted snapshot
}

// NewStore creates a store.
func NewStore(cfg StoreConfig) *Store {
	s := &Store{
		records:          make(map[string]*record),
		host:             cfg.Host,
		sched:            cfg.Scheduler,
		log:              cfg.Logger,
		preserveLocation: cfg.PreserveLocationOnReset,
	}
	if s.sched == nil {
		s.clock = NewClock()
		s.sched = s.clock
	} else if c, ok := s.sched.(*Clock); ok {
		s.clock = c
	}
	if s.log == nil {
		s.log = logger
	}
	if len(cfg.StoredTips) > 0 {
		s.ReconcilePersisted(cfg.StoredTips, nil)
	}
	return s
}

// Clock returns the store's clock, or nil when it runs on a custom
// Scheduler.
func (s *Store) Clock() *Clock { return s.clock }

// Update advances the store's clock by dt seconds, firing due show and
// hide timers. It does nothing with a custom Scheduler.
func (s *Store) Update(dt float64) {
	if s.clock != nil {
		s.clock.AdvanceSeconds(dt)
	}
}

// SetHost replaces the element resolver.
func (s *Store) SetHost(h Host) {
	s.host = h
	for _, rec := range s.records {
		rec.src.host = h
	}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Store) SetEntityStore(es EntityStore) { s.entities = es }

// SetDisabled turns hover handling off or on. Pins, moves and geometry
// updates keep working while disabled.
func (s *Store) SetDisabled(disabled bool) { s.disabled = disabled }

// Disabled reports whether hover handling is off.
func (s *Store) Disabled() bool { return s.disabled }

// Has reports whether a record exists for id.
func (s *Store) Has(id string) bool {
	_, ok := s.records[id]
	return ok
}

// Refs returns the share count of id.
func (s *Store) Refs(id string) int {
	if rec, ok := s.records[id]; ok {
		return rec.refs
	}
	return 0
}

// State returns the state of id, or StateHidden for unknown ids.
func (s *Store) State(id string) State {
	if rec, ok := s.records[id]; ok {
		return rec.src.State()
	}
	return StateHidden
}

// Source returns the state machine for id.
func (s *Store) Source(id string) (*Source, bool) {
	rec, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return rec.src, true
}

// IDs returns every record id in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Visible returns the rendered tips in id order.
func (s *Store) Visible() []TipView {
	var out []TipView
	for _, id := range s.IDs() {
		src := s.records[id].src
		if !src.visible {
			continue
		}
		out = append(out, tipView(src))
	}
	return out
}

func tipView(src *Source) TipView {
	return TipView{
		ID:       src.id,
		Corner:   src.my,
		Location: src.Location(),
		LaidOut:  src.laidOut,
		Pinned:   src.pinned,
		State:    src.State(),
		Config:   src.config,
	}
}

// StoredTips returns the pinned subset as stored-tip snapshots in id order.
func (s *Store) StoredTips() []StoredTip {
	var out []StoredTip
	for _, id := range s.IDs() {
		src := s.records[id].src
		if !src.pinned {
			continue
		}
		out = append(out, StoredTip{ID: src.id, My: src.my, Location: src.location, Config: src.config})
	}
	return out
}

// --- Handles ---

// Handle is a live source's share of a record.
type Handle struct {
	store    *Store
	id       string
	released bool
}

// ID returns the record id.
func (h *Handle) ID() string { return h.id }

// State returns the record's state.
func (h *Handle) State() State { return h.store.State(h.id) }

// SetAnchor sets the element reference used when the target is the source
// itself. It defaults to the id.
func (h *Handle) SetAnchor(ref string) {
	if rec, ok := h.store.records[h.id]; ok {
		rec.src.anchor = ref
		rec.src.hasTarget = false
	}
}

// MouseOver posts EventMouseOver.
func (h *Handle) MouseOver(p Vec2) error {
	return h.store.Dispatch(Event{Type: EventMouseOver, ID: h.id, Point: p})
}

// MouseOut posts EventMouseOut.
func (h *Handle) MouseOut() error {
	return h.store.Dispatch(Event{Type: EventMouseOut, ID: h.id})
}

// MouseMove posts EventMouseMove.
func (h *Handle) MouseMove(p Vec2) error {
	return h.store.Dispatch(Event{Type: EventMouseMove, ID: h.id, Point: p})
}

// SetGeometry posts EventGeometry.
func (h *Handle) SetGeometry(g Geometry) error {
	return h.store.Dispatch(Event{Type: EventGeometry, ID: h.id, Geometry: g})
}

// Pin posts EventPin.
func (h *Handle) Pin(pinned bool) error {
	return h.store.Dispatch(Event{Type: EventPin, ID: h.id, Pinned: pinned})
}

// Reset posts EventReset.
func (h *Handle) Reset(cfg Config) error {
	return h.store.Dispatch(Event{Type: EventReset, ID: h.id, Config: &cfg})
}

// Release gives the share back. Releasing twice fails with ErrUnknownID.
func (h *Handle) Release() error {
	if h.released {
		return fmt.Errorf("release %q: handle already released: %w", h.id, ErrUnknownID)
	}
	h.released = true
	return h.store.Release(h.id)
}

// --- Ownership ---

// RegisterOrShare returns a share of the record for id, creating it when
// absent. An empty id gets a generated one. A differing configuration is
// applied to an existing record.
func (s *Store) RegisterOrShare(id string, cfg Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("register %q: %w", id, err)
	}
	if id == "" {
		id = NewID()
	}
	s.Batch(func() {
		rec, ok := s.records[id]
		if !ok {
			rec = s.newRecord(id, cfg)
		} else if !rec.src.config.Equal(cfg) {
			rec.src.Reset(cfg)
		}
		rec.refs++
		s.debugCheckRecord(id)
	})
	return &Handle{store: s, id: id}, nil
}

func (s *Store) newRecord(id string, cfg Config) *record {
	src := newSource(id, cfg, s.host, s.sched, s)
	src.preserveLocation = s.preserveLocation
	rec := &record{src: src}
	s.records[id] = rec
	return rec
}

// Release drops one share of id. An unreferenced record is unmounted and
// removed unless it is pinned. When the removed tip was on screen, a
// VisibilityEvent with Visible false follows the unmount as the renderer's
// cleanup signal.
// Releasing an id with no outstanding share fails with ErrUnknownID.
func (s *Store) Release(id string) error {
	rec, ok := s.records[id]
	if !ok || rec.refs <= 0 {
		err := errUnknown("release", id)
		s.log.Error("share count leak", "id", id, "err", err)
		return err
	}
	s.Batch(func() {
		rec.refs--
		if rec.refs > 0 || rec.src.pinned {
			return
		}
		s.remove(id)
	})
	return nil
}

// remove unmounts id and deletes it from the arena. A tip that was on
// screen is reported hidden afterwards so renderers can drop it; the
// source itself emits nothing once unmounted.
func (s *Store) remove(id string) {
	rec, ok := s.records[id]
	if !ok {
		return
	}
	visible := rec.src.visible
	rec.src.Unmount()
	delete(s.records, id)
	if visible {
		ev := VisibilityEvent{ID: id, Visible: false, Config: rec.src.config}
		s.fireVisibility(ev)
		s.emitEntity(TipEvent{Kind: TipHidden, ID: id})
	}
	s.log.Debug("record removed", "id", id)
}

// collect removes id when nothing keeps it alive.
func (s *Store) collect(id string) {
	rec, ok := s.records[id]
	if !ok || rec.refs > 0 || !rec.src.idle() {
		return
	}
	s.remove(id)
}

// ReconcilePersisted applies a new stored-tips list against the previous
// one. Newly present tips take a share and are shown pinned; newly absent
// ones give their share back and are unpinned. No tip change is emitted for
// the reconciled list itself.
func (s *Store) ReconcilePersisted(next, prev []StoredTip) {
	before := make(map[string]bool, len(prev))
	for _, t := range prev {
		before[t.ID] = true
	}
	after := make(map[string]bool, len(next))
	s.Batch(func() {
		for _, t := range next {
			after[t.ID] = true
			rec, ok := s.records[t.ID]
			if ok && rec.persisted {
				continue
			}
			if !ok {
				rec = s.newRecord(t.ID, t.Config)
			}
			rec.persisted = true
			rec.refs++
			if !rec.src.pinned {
				rec.src.restore(t)
			}
			s.debugCheckRecord(t.ID)
		}
		for id := range before {
			if after[id] {
				continue
			}
			rec, ok := s.records[id]
			if !ok || (!rec.persisted && !rec.src.pinned) {
				continue
			}
			if rec.persisted {
				rec.persisted = false
				rec.refs--
			}
			rec.src.Pin(false)
			s.collect(id)
		}
		s.tips = s.StoredTips()
	})
}

// Move translates id's tip by delta. When notify is set, the move ends a
// drag and a pinned tip's new location is published.
func (s *Store) Move(id string, delta Vec2, notify bool) error {
	return s.Dispatch(Event{Type: EventMove, ID: id, Point: delta, Notify: notify})
}

// TogglePin flips id's pin state.
func (s *Store) TogglePin(id string) error {
	return s.Dispatch(Event{Type: EventTogglePin, ID: id})
}

// --- Reducer ---

// Dispatch applies one tagged event. It is the single entry point for
// every input adapter. Hover events are dropped while the store is
// disabled. A mouse-over carrying a Config creates a transient record for
// an unknown id; any other event for an unknown id fails with ErrUnknownID.
func (s *Store) Dispatch(ev Event) error {
	s.debugTrace(ev)
	if ev.Type == EventMove && !ev.Notify {
		s.quiet++
		defer func() { s.quiet-- }()
	}
	if s.disabled && ev.Type.hover() {
		return nil
	}
	rec, ok := s.records[ev.ID]
	if !ok {
		if ev.Type != EventMouseOver || ev.Config == nil {
			return errUnknown(ev.Type.String(), ev.ID)
		}
		if err := ev.Config.Validate(); err != nil {
			return fmt.Errorf("%s %q: %w", ev.Type, ev.ID, err)
		}
		rec = s.newRecord(ev.ID, *ev.Config)
	}
	if ev.Type == EventUnmount {
		if rec.refs > 0 {
			return s.Release(ev.ID)
		}
		// Records created by a mouse-over hold no share.
		s.Batch(func() { s.remove(ev.ID) })
		return nil
	}
	if ev.Type == EventReset {
		if ev.Config == nil {
			return fmt.Errorf("%s %q: missing config: %w", ev.Type, ev.ID, ErrInvalidArgument)
		}
		if err := ev.Config.Validate(); err != nil {
			return fmt.Errorf("%s %q: %w", ev.Type, ev.ID, err)
		}
	}

	s.Batch(func() {
		src := rec.src
		switch ev.Type {
		case EventMouseOver:
			if ev.Anchor != "" && ev.Anchor != src.anchor {
				src.anchor = ev.Anchor
				src.hasTarget = false
			}
			src.MouseOver(ev.Point)
		case EventMouseOut:
			src.MouseOut()
		case EventMouseMove:
			src.MouseMove(ev.Point)
		case EventGeometry:
			src.SetGeometry(ev.Geometry)
		case EventPin:
			src.Pin(ev.Pinned)
		case EventTogglePin:
			src.Pin(!src.pinned)
		case EventMove:
			src.move(ev.Point)
		case EventReset:
			src.Reset(*ev.Config)
		}
		s.collect(ev.ID)
		s.debugCheckRecord(ev.ID)
	})
	return nil
}

func errUnknown(op, id string) error {
	return fmt.Errorf("%s %q: %w", op, id, ErrUnknownID)
}

// hover reports whether t is a pointer hover event.
func (t EventType) hover() bool {
	return t == EventMouseOver || t == EventMouseOut || t == EventMouseMove
}

// Batch runs fn with stored-tip publication deferred until the outermost
// batch returns, so handlers never observe a partially applied update.
func (s *Store) Batch(fn func()) {
	s.batchDepth++
	defer func() {
		s.batchDepth--
		if s.batchDepth == 0 {
			s.publish()
		}
	}()
	fn()
}

// publish emits the stored-tips snapshot when it differs from the last one.
func (s *Store) publish() {
	if s.quiet > 0 {
		return
	}
	next := s.StoredTips()
	if equalStoredTips(s.tips, next) {
		return
	}
	s.tips = next
	s.log.Debug("stored tips changed", "count", len(next), "ids", tipIDs(next))
	s.fireTipChange(next)
}

func tipIDs(tips []StoredTip) string {
	ids := make([]string, len(tips))
	for i, t := range tips {
		ids[i] = t.ID
	}
	return strings.Join(ids, ",")
}

// --- Source output ---

func (s *Store) sourceLayout(src *Source) {
	ev := LayoutEvent{ID: src.id, Corner: src.my, Location: src.Location(), Config: src.config}
	s.fireLayout(ev)
	s.emitEntity(TipEvent{Kind: TipLayout, ID: src.id, Corner: ev.Corner, Location: ev.Location, Pinned: src.pinned})
}

func (s *Store) sourceVisibility(src *Source, visible bool) {
	s.fireVisibility(VisibilityEvent{ID: src.id, Visible: visible, Config: src.config})
	kind := TipHidden
	if visible {
		kind = TipShown
	}
	s.emitEntity(TipEvent{Kind: kind, ID: src.id, Corner: src.my, Location: src.Location(), Pinned: src.pinned})
	if !visible && s.batchDepth == 0 {
		// A hide timer fired outside any dispatch.
		s.Batch(func() { s.collect(src.id) })
	}
}

func (s *Store) emitEntity(ev TipEvent) {
	if s.entities != nil {
		s.entities.EmitEvent(ev)
	}
}

// Pending returns the number of timers waiting on the store's clock.
func (s *Store) Pending() int {
	if s.clock == nil {
		return 0
	}
	return s.clock.Pending()
}

// Advance moves the store's clock forward by d.
func (s *Store) Advance(d time.Duration) int {
	if s.clock == nil {
		return 0
	}
	return s.clock.Advance(d)
}
