package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phanxgames/tether"
	"github.com/phanxgames/tether/persist"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		tether.Logger().Error("encode JSON response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, tether.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, tether.ErrUnknownID):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %v: %w", err, tether.ErrInvalidArgument)
	}
	return nil
}

// --- Stored tips ---

func (s *Server) listTipsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	tips := s.store.StoredTips()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, tipsDocument(tips))
}

func tipsDocument(tips []tether.StoredTip) persist.Document {
	if tips == nil {
		tips = []tether.StoredTip{}
	}
	return persist.Document{Version: persist.DocumentVersion, Tips: tips}
}

func (s *Server) replaceTipsHandler(w http.ResponseWriter, r *http.Request) {
	var doc persist.Document
	if err := decodeBody(w, r, &doc); err != nil {
		writeError(w, err)
		return
	}
	for _, t := range doc.Tips {
		if t.ID == "" || !t.My.Valid() {
			writeError(w, fmt.Errorf("stored tip %q: needs an id and a valid corner: %w", t.ID, tether.ErrInvalidArgument))
			return
		}
		if err := t.Config.Validate(); err != nil {
			writeError(w, err)
			return
		}
	}
	tips, err := s.applyTips(r, doc.Tips)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tipsDocument(tips))
}

func (s *Server) clearTipsHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := s.applyTips(r, nil); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyTips reconciles next against the current stored tips and saves the
// result.
func (s *Server) applyTips(r *http.Request, next []tether.StoredTip) ([]tether.StoredTip, error) {
	s.mu.Lock()
	s.store.ReconcilePersisted(next, s.store.StoredTips())
	tips := s.store.StoredTips()
	s.mu.Unlock()

	if s.backend != nil {
		if err := s.backend.Save(r.Context(), tips); err != nil {
			return nil, err
		}
	}
	s.log.Info("stored tips replaced", "count", len(tips))
	return tips, nil
}

func (s *Server) tipHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.store.Visible() {
		if v.ID == id {
			writeJSON(w, http.StatusOK, newTipJSON(v))
			return
		}
	}
	if !s.store.Has(id) {
		writeError(w, fmt.Errorf("tip %q: %w", id, tether.ErrUnknownID))
		return
	}
	writeJSON(w, http.StatusOK, tipJSON{ID: id, State: s.store.State(id).String()})
}

// tipJSON is the wire form of a tether.TipView.
type tipJSON struct {
	ID       string         `json:"id"`
	State    string         `json:"state"`
	Corner   *tether.Corner `json:"corner,omitempty"`
	Location *tether.Rect   `json:"location,omitempty"`
	Pinned   bool           `json:"pinned"`
}

func newTipJSON(v tether.TipView) tipJSON {
	t := tipJSON{ID: v.ID, State: v.State.String(), Pinned: v.Pinned}
	if v.LaidOut {
		t.Corner, t.Location = &v.Corner, &v.Location
	}
	return t
}

func (s *Server) visibleHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	views := s.store.Visible()
	s.mu.Unlock()
	out := make([]tipJSON, 0, len(views))
	for _, v := range views {
		out = append(out, newTipJSON(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tips": out})
}

// --- Events ---

type eventRequest struct {
	Type     string        `json:"type"`
	ID       string        `json:"id"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Pinned   bool          `json:"pinned"`
	Notify   bool          `json:"notify"`
	Geometry *tether.Size  `json:"geometry,omitempty"`
	Config   tether.Values `json:"config,omitempty"`
}

func (s *Server) eventHandler(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	typ, err := tether.ParseEventType(req.Type)
	if err != nil {
		writeError(w, err)
		return
	}
	ev := tether.Event{Type: typ, ID: req.ID, Point: tether.Vec2{X: req.X, Y: req.Y}, Pinned: req.Pinned, Notify: req.Notify}
	if req.Geometry != nil {
		ev.Geometry = tether.BoxGeometry(*req.Geometry)
	}
	if req.Config != nil {
		cfg, err := tether.MergeConfig(req.Config)
		if err != nil {
			writeError(w, err)
			return
		}
		ev.Config = &cfg
	}

	s.mu.Lock()
	err = s.store.Dispatch(ev)
	state := s.store.State(req.ID)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": req.ID, "state": state.String()})
}

// --- Placement ---

type placeRequest struct {
	Target    tether.Rect   `json:"target"`
	Size      tether.Size   `json:"size"`
	Tail      *tether.Size  `json:"tail,omitempty"`
	Container tether.Rect   `json:"container"`
	Config    tether.Values `json:"config,omitempty"`
}

type placeResponse struct {
	Corner   tether.Corner `json:"corner"`
	Location tether.Rect   `json:"location"`
}

func placeHandler(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	cfg, err := tether.MergeConfig(req.Config)
	if err != nil {
		writeError(w, err)
		return
	}
	geom := tether.BoxGeometry(req.Size)
	if req.Tail != nil {
		geom = tether.BalloonGeometry(tether.Measurement{Size: req.Size}, *req.Tail)
	}
	p, err := tether.Place(req.Target, geom, req.Container, cfg.Position)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, placeResponse{Corner: p.Corner, Location: p.Location})
}
