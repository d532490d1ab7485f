package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/assemblage/pkg/buildinfo"
	"github.com/matzehuels/assemblage/pkg/collage"
	"github.com/matzehuels/assemblage/pkg/collage/scale"
	"github.com/matzehuels/assemblage/pkg/errors"
	"github.com/matzehuels/assemblage/pkg/pipeline"
	"github.com/matzehuels/assemblage/pkg/session"
)

// contentTypes maps render formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// =============================================================================
// Compositions
// =============================================================================

type composeRequest struct {
	pipeline.Options
	SessionID string `json:"session_id,omitempty"`
}

type composeResponse struct {
	Composition collage.Composition `json:"composition"`
	Cache       cacheInfo           `json:"cache"`
	SessionID   string              `json:"session_id,omitempty"`
}

type cacheInfo struct {
	Compose bool `json:"compose"`
	Fill    bool `json:"fill"`
}

func (s *Server) handleCreateComposition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := composeRequest{Options: s.Defaults}
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	opts := req.Options
	opts.Logger = s.Logger

	var sess *session.Session
	if req.SessionID != "" {
		var err error
		if sess, err = s.loadSession(ctx, req.SessionID); err != nil {
			writeError(w, err)
			return
		}
		opts.Usage = sess.Usage
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	comp, composeHit, err := s.Runner.ComposeWithCacheInfo(ctx, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	var fillHit bool
	if !opts.NoFill {
		if comp, fillHit, err = s.Runner.FillWithCacheInfo(ctx, comp, opts); err != nil {
			writeError(w, err)
			return
		}
	}

	if sess != nil {
		sess.Touch(s.SessionTTL)
		if err := s.Sessions.Set(ctx, sess); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "save session"))
			return
		}
	}

	comp.ID = ""
	comp.CreatedAt = time.Time{}
	if err := s.Store.Save(ctx, &comp); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/compositions/"+comp.ID)
	writeJSON(w, http.StatusCreated, composeResponse{
		Composition: comp,
		Cache:       cacheInfo{Compose: composeHit, Fill: fillHit},
		SessionID:   req.SessionID,
	})
}

func (s *Server) handleListCompositions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	list, err := s.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"compositions": list})
}

func (s *Server) handleGetComposition(w http.ResponseWriter, r *http.Request) {
	comp, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comp)
}

func (s *Server) handleDeleteComposition(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderComposition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	comp, err := s.Store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		Formats:    []string{format},
		Background: q.Get("background"),
		ImageURLs:  q["image"],
		Logger:     s.Logger,
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "scale must be a number"))
			return
		}
	}
	if v := q.Get("outline"); v != "" {
		if opts.Outline, err = strconv.ParseBool(v); err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "outline must be a boolean"))
			return
		}
	}

	artifacts, err := s.Runner.Render(ctx, comp, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// =============================================================================
// Fill and scale
// =============================================================================

type fillRequest struct {
	Canvas           collage.Canvas     `json:"canvas"`
	Elements         []collage.Fragment `json:"elements"`
	TargetBlankRatio float64            `json:"target_blank_ratio,omitempty"`
	MaxIterations    int                `json:"max_iterations,omitempty"`
	MinBlankAreaSize float64            `json:"min_blank_area_size,omitempty"`
	Seed             uint64             `json:"seed,omitempty"`
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req fillRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.Canvas.Validate(); err != nil {
		writeError(w, err)
		return
	}
	opts := pipeline.Options{
		TargetBlankRatio: req.TargetBlankRatio,
		MaxIterations:    req.MaxIterations,
		MinBlankAreaSize: req.MinBlankAreaSize,
		Seed:             req.Seed,
		Logger:           s.Logger,
	}
	if err := opts.ValidateForFill(); err != nil {
		writeError(w, err)
		return
	}

	_, res := pipeline.FillComposition(collage.Composition{Canvas: req.Canvas, Fragments: req.Elements}, opts)
	writeJSON(w, http.StatusOK, res)
}

type scaleRequest struct {
	MaskWidth    float64 `json:"mask_width"`
	MaskHeight   float64 `json:"mask_height"`
	TargetWidth  float64 `json:"target_width"`
	TargetHeight float64 `json:"target_height"`
	MaxZoom      float64 `json:"max_zoom,omitempty"`
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	var req scaleRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	size, err := scale.ToCover(req.MaskWidth, req.MaskHeight, req.TargetWidth, req.TargetHeight, scale.WithMaxZoom(req.MaxZoom))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, size)
}

// =============================================================================
// Sessions
// =============================================================================

type sessionRequest struct {
	MaxRepeats int `json:"max_repeats,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.MaxRepeats < 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "max_repeats must not be negative"))
		return
	}
	sess := session.New(req.MaxRepeats, s.SessionTTL)
	if err := s.Sessions.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "save session"))
		return
	}
	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.loadSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadSession(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	if sess.Usage == nil {
		sess.Usage = collage.NewUsage(0)
	}
	return sess, nil
}
