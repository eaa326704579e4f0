// Package server exposes an Assembler over HTTP. All requests are serialised
// onto the one Assembler.
package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/jsphweid/barspan/logging"
	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/span"
	"github.com/rs/cors"
)

const maxBodyBytes = 1 << 20

type Server struct {
	mu        sync.Mutex
	assembler *span.Assembler
	recorder  *span.Recorder
	logger    *slog.Logger
}

func New(a *span.Assembler, rec *span.Recorder, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{assembler: a, recorder: rec, logger: logger}
}

// Do runs fn with exclusive access to the Assembler.
func (s *Server) Do(fn func(a *span.Assembler)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.assembler)
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/notes", s.handleNote).Methods(http.MethodPost)
	router.HandleFunc("/flush", s.handleFlush).Methods(http.MethodPost)
	router.HandleFunc("/clear", s.handleClear).Methods(http.MethodPost)
	router.HandleFunc("/track", s.handleTrack).Methods(http.MethodPut)
	router.HandleFunc("/offset", s.handleOffset).Methods(http.MethodPut)
	router.HandleFunc("/palette", s.handlePalette).Methods(http.MethodPut)
	router.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	router.HandleFunc("/spans", s.handleSpans).Methods(http.MethodGet)
	return router
}

// Handler wraps the router with CORS so a browser visualizer can poll it.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
	})
	return c.Handler(s.Router())
}

func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	var body model.NoteRequestBody
	if !s.decode(w, r, &body) {
		return
	}
	if body.Timestamp == nil || body.Score == nil {
		s.writeError(w, span.ErrMalformedInput.New("note needs timestamp and score"))
		return
	}

	var err error
	s.Do(func(a *span.Assembler) {
		err = a.Ingest(*body.Timestamp, *body.Score)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	var res model.SpansResponse
	s.Do(func(a *span.Assembler) {
		before := len(s.recorder.Summaries)
		a.Flush()
		res = s.spans(before)
	})
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.Do(func(a *span.Assembler) {
		a.Clear()
		s.recorder.Reset()
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var body model.TrackRequestBody
	if !s.decode(w, r, &body) {
		return
	}
	if body.Track == nil {
		s.writeError(w, span.ErrMalformedInput.New("missing track"))
		return
	}
	var err error
	s.Do(func(a *span.Assembler) {
		err = a.SetTrack(*body.Track)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOffset(w http.ResponseWriter, r *http.Request) {
	var body model.OffsetRequestBody
	if !s.decode(w, r, &body) {
		return
	}
	if body.Offset == nil {
		s.writeError(w, span.ErrMalformedInput.New("missing offset"))
		return
	}
	var err error
	s.Do(func(a *span.Assembler) {
		err = a.SetOffset(*body.Offset)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	var body model.PaletteRequestBody
	if !s.decode(w, r, &body) {
		return
	}
	if body.Palette == nil {
		s.writeError(w, span.ErrMalformedInput.New("missing palette"))
		return
	}
	s.Do(func(a *span.Assembler) {
		a.SetPalette(*body.Palette)
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap model.Snapshot
	s.Do(func(a *span.Assembler) {
		snap = a.Snapshot()
	})
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSpans(w http.ResponseWriter, r *http.Request) {
	var res model.SpansResponse
	s.Do(func(*span.Assembler) {
		res = s.spans(0)
	})
	s.writeJSON(w, http.StatusOK, res)
}

// spans must be called with the lock held.
func (s *Server) spans(from int) model.SpansResponse {
	res := model.SpansResponse{
		Emitted:  len(s.recorder.Summaries),
		Rejected: s.recorder.Rejections,
		Spans:    make([]model.Span, 0),
	}
	res.Spans = append(res.Spans, s.recorder.Summaries[from:]...)
	return res
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, span.ErrMalformedInput.New("unreadable body"))
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.writeError(w, span.ErrMalformedInput.New("body is not valid JSON: "+err.Error()))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case span.ErrMalformedInput.Is(err):
		status = http.StatusBadRequest
	case span.ErrConfiguration.Is(err):
		status = http.StatusConflict
	}
	s.logger.Warn("request failed", "status", status, "error", err)
	s.writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("writing response failed", "error", err)
	}
}
