package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/theirongolddev/smartbudget/internal/model"
	"github.com/theirongolddev/smartbudget/internal/pipeline"
	"github.com/theirongolddev/smartbudget/internal/source"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// BatchRequest is the body of POST /v1/evaluate/batch.
type BatchRequest struct {
	Requests []json.RawMessage `json:"requests"`
}

// BatchItem holds either a result or the reason its request was rejected.
type BatchItem struct {
	Result *model.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
	Field  string        `json:"field,omitempty"`
}

// BatchResponse lists results in request order.
type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

// Handler builds the router. Exposed separately from Run for tests.
func (s *Service) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.recoverPanics, s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)
	v1.HandleFunc("/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	v1.HandleFunc("/evaluate/batch", s.handleBatch).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorBody{Error: "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorBody{Error: "method not allowed"})
	})

	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": s.ev.Categories()})
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.recentEvents())
}

func (s *Service) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	req, err := source.Decode(body, source.FormatJSON)
	if err != nil {
		status, eb := decodeError(err)
		s.record("single", model.Result{}, err)
		writeJSON(w, status, eb)
		return
	}

	res, err := s.ev.Evaluate(req.Budget, req.Expenses)
	s.record("single", res, err)
	if err != nil {
		status, eb := evaluateError(err)
		writeJSON(w, status, eb)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleBatch(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var batch BatchRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&batch); err != nil {
		status, eb := decodeError(err)
		writeJSON(w, status, eb)
		return
	}
	if len(batch.Requests) > s.cfg.MaxBatch {
		writeJSON(w, http.StatusBadRequest, ErrorBody{
			Error: fmt.Sprintf("batch holds %d requests, limit is %d", len(batch.Requests), s.cfg.MaxBatch),
			Field: "requests",
		})
		return
	}

	items := make([]BatchItem, len(batch.Requests))

	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(s.cfg.BatchWorkers)
	for i, raw := range batch.Requests {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = s.evaluateRaw(raw)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("batch aborted", zap.String("op", "server.handleBatch"), zap.Error(err))
		return
	}

	writeJSON(w, http.StatusOK, BatchResponse{Results: items})
}

func (s *Service) evaluateRaw(raw json.RawMessage) BatchItem {
	req, err := source.Decode(bytes.NewReader(raw), source.FormatJSON)
	if err != nil {
		s.record("batch", model.Result{}, err)
		_, eb := decodeError(err)
		return BatchItem{Error: eb.Error, Field: eb.Field}
	}

	res, err := s.ev.Evaluate(req.Budget, req.Expenses)
	s.record("batch", res, err)
	if err != nil {
		_, eb := evaluateError(err)
		return BatchItem{Error: eb.Error, Field: eb.Field}
	}
	return BatchItem{Result: &res}
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: "streaming unsupported"})
		return
	}

	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, "status", s.snapshotStatus())
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.shutdown:
			return
		case ev := <-ch:
			writeSSE(w, ev.Type, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeError maps a body decoding failure to a status and error body.
func decodeError(err error) (int, ErrorBody) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge, ErrorBody{Error: fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit)}
	case errors.Is(err, source.ErrMissingBudget):
		return http.StatusBadRequest, ErrorBody{Error: "missing budget", Field: "budget"}
	case errors.Is(err, source.ErrNegativeBudget):
		return http.StatusBadRequest, ErrorBody{Error: err.Error(), Field: "budget"}
	default:
		return http.StatusBadRequest, ErrorBody{Error: err.Error()}
	}
}

// evaluateError maps an evaluator failure to a status and error body.
func evaluateError(err error) (int, ErrorBody) {
	var inv *pipeline.InvalidInputError
	if errors.As(err, &inv) {
		return http.StatusBadRequest, ErrorBody{Error: inv.Error(), Field: inv.Field}
	}
	return http.StatusInternalServerError, ErrorBody{Error: err.Error()}
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the connection's deadlines.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Flush keeps the SSE stream working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("op", "server.http"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Service) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.log.Error("panic in handler",
					zap.String("op", "server.http"),
					zap.String("path", r.URL.Path),
					zap.Any("panic", v),
				)
				writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
