package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/necropreneur/embedding-inspector/internal/app"
	"github.com/necropreneur/embedding-inspector/internal/httputil"
	"github.com/necropreneur/embedding-inspector/internal/inspector"
	"github.com/necropreneur/embedding-inspector/internal/notify"
)

type inspectRequest struct {
	Text string `json:"text" validate:"required"`
}

type mixSaveRequest struct {
	Names      []string  `json:"names" validate:"required,max=6"`
	Weights    []float32 `json:"weights" validate:"omitempty,max=6"`
	Multiplier *float32  `json:"multiplier"`
	Concat     bool      `json:"concat"`
	Filename   string    `json:"filename" validate:"required"`
	Overwrite  bool      `json:"overwrite"`
	Step       string    `json:"step"`
}

type tokenizeRequest struct {
	Text      string   `json:"text"`
	SendToMix bool     `json:"send_to_mix"`
	Names     []string `json:"names" validate:"omitempty,max=6"`
	Concat    bool     `json:"concat"`
}

func main() {
	deps, err := app.Build("inspectord")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/inspect", inspectHandler(deps))
	r.Post("/api/mix/save", saveHandler(deps))
	r.Post("/api/tokenize", tokenizeHandler(deps))
	r.Get("/api/embeddings", listHandler(deps))
	r.Get("/healthz", httputil.ServeHealth(deps.Log))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("inspector service listening", "addr", addr)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return http.ListenAndServe(addr, r)
	})
	// with a NATS notifier, refresh the loaded set when any process saves
	if nn, ok := deps.Notifier.(*notify.NATSNotifier); ok {
		g.Go(func() error {
			return nn.Listen(ctx, func(_ context.Context, event notify.Event) {
				deps.Log.Info("save event received, reloading embeddings", "path", event.Path, "event_id", event.ID)
				if err := deps.Store.Reload(); err != nil {
					deps.Log.Error("reload after save event failed", "err", err)
				}
			})
		})
	}
	if err := g.Wait(); err != nil {
		deps.Log.Error("server error", "err", err)
	}
}

// taxonomy errors render as the report body; anything else is a real 500
func isOperational(err error) bool {
	for _, sentinel := range []error{
		inspector.ErrResolution,
		inspector.ErrEmptyTokenization,
		inspector.ErrDimensionMismatch,
		inspector.ErrNothingToMix,
		inspector.ErrFileExists,
		inspector.ErrSave,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func inspectHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req inspectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		report, err := deps.Inspector.Inspect(r.Context(), req.Text)
		if err != nil {
			if isOperational(err) {
				httputil.WriteJSON(w, http.StatusOK, map[string]any{"report": err.Error()})
				return
			}
			httputil.Fail(deps.Log, w, "inspect failed", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"report": report})
	}
}

func saveHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req mixSaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		spec := buildMixSpec(req)
		report, err := deps.Inspector.Save(r.Context(), spec, req.Filename, req.Overwrite, req.Step)
		if err != nil {
			if isOperational(err) {
				if report == "" {
					report = err.Error()
				}
				httputil.WriteJSON(w, http.StatusOK, map[string]any{"log": report})
				return
			}
			httputil.Fail(deps.Log, w, "save failed", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"log": report})
	}
}

func tokenizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		res, err := deps.Inspector.MiniTokenize(req.Text, req.SendToMix, req.Names, req.Concat)
		if err != nil {
			if isOperational(err) {
				httputil.WriteJSON(w, http.StatusOK, map[string]any{"tokens": err.Error()})
				return
			}
			httputil.Fail(deps.Log, w, "tokenize failed", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"tokens": res.Tokens,
			"ids":    res.IDs,
			"names":  res.Slots,
			"concat": res.Concat,
		})
	}
}

func listHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"report": deps.Inspector.ListLoaded()})
	}
}

// buildMixSpec pairs name and weight slots; missing weights default to 1.
func buildMixSpec(req mixSaveRequest) inspector.MixSpec {
	entries := make([]inspector.MixEntry, len(req.Names))
	for i, name := range req.Names {
		weight := float32(1.0)
		if i < len(req.Weights) {
			weight = req.Weights[i]
		}
		entries[i] = inspector.MixEntry{Name: name, Weight: weight}
	}
	multiplier := float32(1.0)
	if req.Multiplier != nil {
		multiplier = *req.Multiplier
	}
	return inspector.MixSpec{
		Entries:    entries,
		Multiplier: multiplier,
		Concat:     req.Concat,
	}
}
