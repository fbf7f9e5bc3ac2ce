package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/devwithfarshi/ai-playground/internal/adapter"
	"github.com/devwithfarshi/ai-playground/internal/generation"
	"github.com/devwithfarshi/ai-playground/internal/metrics"
	"github.com/devwithfarshi/ai-playground/internal/openai"
	"github.com/devwithfarshi/ai-playground/internal/sse"
)

const upstreamFailureMessage = "Failed to generate response"

// HandleGenerate is the public entry point registered on the router.
func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	reqStart := time.Now()

	var req generation.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.debugf("generate: decode body: %v", err)
		s.rejectRequest(w, reqStart, req, generation.Invalid("invalid request body"))
		return
	}
	if err := req.Validate(s.catalog); err != nil {
		s.rejectRequest(w, reqStart, req, err)
		return
	}
	req.Model = strings.TrimSpace(req.Model)
	if entry, ok := s.catalog.Lookup(req.Model); ok {
		req.Model = entry.Model
	}

	if req.Stream {
		s.handleGenerateStream(w, r, reqStart, req)
		return
	}

	upstreamStart := time.Now()
	reply, err := s.adapter.CreateCompletion(r.Context(), req)
	if err != nil {
		err = generation.Upstream(err)
		s.logf("generate upstream error model=%s: %v", req.Model, err)
		s.metrics.ObserveRequest(metrics.ModeJSON, metrics.StatusUpstream, time.Since(reqStart))
		s.respondJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"message": upstreamFailureMessage,
			"error":   err.Error(),
		})
		return
	}
	upstreamDur := time.Since(upstreamStart)

	s.respondJSON(w, http.StatusOK, generation.NewResult(req, reply, s.now()))
	total := time.Since(reqStart)
	s.metrics.ObserveRequest(metrics.ModeJSON, metrics.StatusOK, total)
	s.logf("generate total_ms=%d upstream_ms=%d model=%s", total.Milliseconds(), upstreamDur.Milliseconds(), req.Model)
}

func (s *Server) rejectRequest(w http.ResponseWriter, reqStart time.Time, req generation.Request, err error) {
	mode := metrics.ModeJSON
	if req.Stream {
		mode = metrics.ModeStream
	}
	s.metrics.ObserveValidationFailure(err.Error())
	s.metrics.ObserveRequest(mode, metrics.StatusInvalid, time.Since(reqStart))

	var invalid *generation.InvalidRequestError
	if !errors.As(err, &invalid) {
		invalid = &generation.InvalidRequestError{Message: err.Error()}
	}
	s.respondJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"message": invalid.Message,
	})
}

// handleGenerateStream commits the event-stream response before contacting
// the provider, so every later failure is reported in-band as an error event.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request, reqStart time.Time, req generation.Request) {
	ctx := r.Context()
	sw := sse.NewWriter(w)
	sw.Begin()

	run := streamRun{server: s, writer: sw, req: req, start: reqStart}
	if !run.emit(generation.StartEvent()) {
		return
	}

	sa, ok := s.adapter.(adapter.StreamingChatAdapter)
	if !ok {
		// Adapter cannot stream: relay the complete reply as a single fragment.
		reply, err := s.adapter.CreateCompletion(ctx, req)
		if err != nil {
			run.fail(err)
			return
		}
		if reply != "" && !run.content(reply) {
			return
		}
		run.finish()
		return
	}

	ch, err := sa.CreateCompletionStream(ctx, req)
	if err != nil {
		run.fail(err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			run.abort("client disconnected: %v", ctx.Err())
			return
		case ev, open := <-ch:
			if !open {
				run.finish()
				return
			}
			if ev.IsError() {
				if ctx.Err() != nil {
					run.abort("client disconnected: %v", ctx.Err())
					return
				}
				run.fail(ev.Error)
				return
			}
			if ev.Delta == "" {
				continue
			}
			if !run.content(ev.Delta) {
				return
			}
		}
	}
}

// streamRun tracks one streaming response.
type streamRun struct {
	server    *Server
	writer    *sse.Writer
	req       generation.Request
	start     time.Time
	firstAt   time.Time
	fragments int
}

// emit writes ev and reports whether the client is still reachable.
func (run *streamRun) emit(ev generation.Event) bool {
	if err := run.writer.WriteEvent(ev); err != nil {
		run.abort("transport error: %v", err)
		return false
	}
	return true
}

func (run *streamRun) content(fragment string) bool {
	if !run.emit(generation.ContentEvent(fragment)) {
		return false
	}
	if run.firstAt.IsZero() {
		run.firstAt = time.Now()
	}
	run.fragments++
	run.server.metrics.ObserveFragment()
	return true
}

func (run *streamRun) finish() {
	done := generation.DoneEvent(run.req.Model, run.req.EffectiveTemperature(), run.server.now())
	if !run.emit(done) {
		return
	}
	total := time.Since(run.start)
	ttfb := time.Duration(0)
	if !run.firstAt.IsZero() {
		ttfb = run.firstAt.Sub(run.start)
	}
	run.server.metrics.ObserveRequest(metrics.ModeStream, metrics.StatusOK, total)
	run.server.logf("generate.stream total_ms=%d ttfb_ms=%d fragments=%d model=%s", total.Milliseconds(), ttfb.Milliseconds(), run.fragments, run.req.Model)
}

func (run *streamRun) fail(err error) {
	err = generation.Upstream(err)
	run.server.logf("generate.stream upstream error model=%s fragments=%d: %v", run.req.Model, run.fragments, err)
	run.server.metrics.ObserveRequest(metrics.ModeStream, metrics.StatusUpstream, time.Since(run.start))
	if werr := run.writer.WriteEvent(generation.ErrorEvent(err.Error())); werr != nil {
		run.server.debugf("generate.stream: error event not delivered: %v", werr)
	}
}

func (run *streamRun) abort(format string, args ...any) {
	run.server.debugf("generate.stream aborted after %d fragments: "+format, append([]any{run.fragments}, args...)...)
	run.server.metrics.ObserveRequest(metrics.ModeStream, metrics.StatusAborted, time.Since(run.start))
}

// HandleModels lists the catalog in the OpenAI models shape.
func (s *Server) HandleModels(w http.ResponseWriter, r *http.Request) {
	entries := s.catalog.Entries()
	models := make([]openai.Model, 0, len(entries))
	for _, e := range entries {
		owner := e.Provider
		if owner == "" {
			owner = adapter.ProviderName(s.adapter)
		}
		models = append(models, openai.NewModel(e.Model, owner))
	}
	s.respondJSON(w, http.StatusOK, openai.NewModelsResponse(models))
}
