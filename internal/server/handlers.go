package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ordrect/ordrect/pkg/cache"
	apperrors "github.com/ordrect/ordrect/pkg/errors"
	"github.com/ordrect/ordrect/pkg/observability"
	"github.com/ordrect/ordrect/pkg/order"
	"github.com/ordrect/ordrect/pkg/rect"
	"github.com/ordrect/ordrect/pkg/rectio"
	"github.com/ordrect/ordrect/pkg/render"
	"github.com/ordrect/ordrect/pkg/set"
	"github.com/ordrect/ordrect/pkg/textview"
)

const maxBodyBytes = 4 << 20

// orderResponse is the success body of POST /v1/order.
type orderResponse struct {
	Order []rect.ID `json:"order"`
}

// conflictResponse is the 409 body returned when the document cannot be
// linearized.
type conflictResponse struct {
	Error    string                `json:"error"`
	Code     apperrors.Code        `json:"code"`
	Conflict *order.ConflictReport `json:"conflict"`
}

// errorResponse is the generic error body.
type errorResponse struct {
	Error string         `json:"error"`
	Code  apperrors.Code `json:"code"`
}

// overlapRequest is the body of POST /v1/overlap.
type overlapRequest struct {
	A rectio.Rectangle `json:"a"`
	B rectio.Rectangle `json:"b"`
}

// overlapResponse reports the spatial relation of two rectangles.
type overlapResponse struct {
	Kind string `json:"kind"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// handleOrder resolves a document into a bottom-to-top ordering.
// Unresolvable documents produce 409 with the full conflict report.
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	body, doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	setOpts, keyOpts, err := orderOptions(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, err)
		return
	}

	docHash := cache.Hash(body)
	key := s.keyer.OrderKey(docHash, keyOpts)
	if data, hit := s.cacheGet(r, key, "order"); hit {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(data)
		return
	}

	st, err := rectio.ToSet(doc, setOpts...)
	if err != nil {
		s.writeBuildError(w, err)
		return
	}

	ids, rep := st.Order()
	if rep != nil {
		s.writeJSON(w, http.StatusConflict, conflictResponse{
			Error:    rep.String(),
			Code:     apperrors.ErrCodeCycleDetected,
			Conflict: rep,
		})
		return
	}

	data, err := json.Marshal(orderResponse{Order: ids})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, err)
		return
	}
	s.cacheSet(r, key, "order", data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}

// handleView renders the document as an ASCII grid.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	body, doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	units := 40
	if v := r.URL.Query().Get("units"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2 {
			s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput,
				fmt.Errorf("units must be an integer >= 2"))
			return
		}
		units = n
	}

	showOrder := true
	if v := r.URL.Query().Get("labels"); v != "" {
		showOrder = parseBool(v)
	}

	setOpts, keyOpts, err := orderOptions(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, err)
		return
	}

	docHash := cache.Hash(body)
	key := s.keyer.ViewKey(docHash, cache.ViewKeyOpts{Order: keyOpts, Units: units, ShowOrder: showOrder})
	if data, hit := s.cacheGet(r, key, "view"); hit {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(data)
		return
	}

	st, err := rectio.ToSet(doc, setOpts...)
	if err != nil {
		s.writeBuildError(w, err)
		return
	}

	var view string
	if showOrder {
		view, err = st.View(units)
	} else {
		view, err = st.ViewPlain(units)
	}
	if err != nil {
		if errors.Is(err, set.ErrUnresolved) {
			_, rep := st.Order()
			s.writeJSON(w, http.StatusConflict, conflictResponse{
				Error:    rep.String(),
				Code:     apperrors.ErrCodeCycleDetected,
				Conflict: rep,
			})
			return
		}
		if errors.Is(err, textview.ErrCannotDiscretize) {
			s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidGrid, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, err)
		return
	}

	data := []byte(view)
	s.cacheSet(r, key, "view", data)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}

// handleOverlap classifies the spatial relation of two rectangles.
func (s *Server) handleOverlap(w http.ResponseWriter, r *http.Request) {
	var req overlapRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidFormat, err)
		return
	}

	a, err := rect.New(req.A.Left, req.A.Top, req.A.Right, req.A.Bottom)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidGeometry, err)
		return
	}
	b, err := rect.New(req.B.Left, req.B.Top, req.B.Right, req.B.Bottom)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidGeometry, err)
		return
	}

	s.writeJSON(w, http.StatusOK, overlapResponse{Kind: rect.Overlap(a, b).String()})
}

// handleRender renders the constraint graph as DOT, SVG or PNG. When the
// document contains a cycle the members are highlighted instead of failing.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, doc, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if err := apperrors.ValidateOutputFormat(format, []string{"dot", "svg", "png"}); err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidFormat, err)
		return
	}

	setOpts, keyOpts, err := orderOptions(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, err)
		return
	}

	docHash := cache.Hash(body)
	key := s.keyer.RenderKey(docHash, cache.RenderKeyOpts{Order: keyOpts, Format: format})
	if data, hit := s.cacheGet(r, key, "render"); hit {
		w.Header().Set("Content-Type", renderContentType(format))
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write(data)
		return
	}

	st, err := rectio.ToSet(doc, setOpts...)
	if err != nil {
		s.writeBuildError(w, err)
		return
	}

	items := make([]order.Item, 0, st.Len())
	for _, id := range st.IDs() {
		rc, _ := st.Rect(id)
		items = append(items, order.Item{ID: id, Rect: rc})
	}
	g, err := order.Build(items, st.Constraints())
	if err != nil {
		s.writeBuildError(w, err)
		return
	}

	var highlight []rect.ID
	if _, rep := st.Order(); rep != nil {
		highlight = rep.Nodes
	}

	start := time.Now()
	observability.Render().OnRenderStart(r.Context(), format, st.Len())

	dot := render.ToDOT(g, render.Options{Highlight: highlight})
	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = render.SVG(dot)
	case "png":
		data, err = render.PNG(dot)
	}
	observability.Render().OnRenderComplete(r.Context(), format, len(data), time.Since(start), err)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, err)
		return
	}

	s.cacheSet(r, key, "render", data)

	w.Header().Set("Content-Type", renderContentType(format))
	w.Header().Set("X-Cache", "miss")
	_, _ = w.Write(data)
}

// readDocument reads and decodes the request body as a rectangle document.
// On failure it writes the error response and returns ok=false.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, rectio.Document, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, err)
		return nil, rectio.Document{}, false
	}
	doc, err := rectio.Unmarshal(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidFormat, err)
		return nil, rectio.Document{}, false
	}
	return body, doc, true
}

// orderOptions maps query parameters to set options and the cache key
// fragment they correspond to.
func orderOptions(r *http.Request) ([]set.Option, cache.OrderKeyOpts, error) {
	q := r.URL.Query()
	var opts []set.Option
	var keyOpts cache.OrderKeyOpts

	if parseBool(q.Get("infer")) {
		opts = append(opts, set.WithContainmentInference())
		keyOpts.Inference = true
	}
	if parseBool(q.Get("disjoint_edges")) {
		opts = append(opts, set.WithDisjointEdges())
		keyOpts.DisjointEdges = true
	}
	switch tb := q.Get("tie_break"); tb {
	case "", "id":
	case "area":
		opts = append(opts, set.WithAreaTieBreak())
		keyOpts.TieBreak = "area"
	default:
		return nil, keyOpts, fmt.Errorf("unknown tie_break %q (valid: id, area)", tb)
	}

	return opts, keyOpts, nil
}

func parseBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeBuildError maps document construction errors to HTTP responses.
func (s *Server) writeBuildError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrCodeInvalidID):
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidID, err)
	case errors.Is(err, rect.ErrInvalidGeometry):
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidGeometry, err)
	case errors.Is(err, order.ErrDuplicateRectangle):
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeDuplicateRectangle, err)
	case errors.Is(err, order.ErrConflictingConstraint):
		s.writeError(w, http.StatusConflict, apperrors.ErrCodeConflictingConstraint, err)
	case errors.Is(err, order.ErrUnknownRectangle),
		errors.Is(err, order.ErrSelfConstraint),
		errors.Is(err, order.ErrInvalidRectangleID):
		s.writeError(w, http.StatusBadRequest, apperrors.ErrCodeInvalidInput, err)
	default:
		s.writeError(w, http.StatusInternalServerError, apperrors.ErrCodeInternal, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code apperrors.Code, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// cacheGet reads an artifact from the cache, recording hit/miss hooks.
// Cache failures degrade to a miss.
func (s *Server) cacheGet(r *http.Request, key, keyType string) ([]byte, bool) {
	data, hit, err := s.cache.Get(r.Context(), key)
	if err != nil {
		s.logger.Warn("cache get failed", "key_type", keyType, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(r.Context(), keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(r.Context(), keyType)
	return nil, false
}

// cacheSet stores an artifact, logging rather than failing on errors.
func (s *Server) cacheSet(r *http.Request, key, keyType string, data []byte) {
	if err := s.cache.Set(r.Context(), key, data, s.ttl); err != nil {
		s.logger.Warn("cache set failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(r.Context(), keyType, len(data))
}

func renderContentType(format string) string {
	switch format {
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	default:
		return "text/vnd.graphviz"
	}
}
