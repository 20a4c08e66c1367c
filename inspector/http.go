package inspector

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/csspeek/inspector/event"
	"github.com/hazyhaar/csspeek/shield"
)

// Handler returns the HTTP control API:
//
//	POST /commands/{name}  start-inspection | stop-inspection | run-color-scan | clear-storage
//	GET  /state
//
// clear-storage accepts an optional body {"targets": ["cookies", ...]}.
func (c *Controller) Handler() http.Handler {
	r := chi.NewRouter()
	for _, mw := range shield.APIStack(c.logger) {
		r.Use(mw)
	}

	commands := c.instrument("command")(c.CommandEndpoint())
	state := c.StateEndpoint()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		st, _ := state(r.Context(), nil)
		writeJSON(w, http.StatusOK, st)
	})

	r.Post("/commands/{name}", func(w http.ResponseWriter, r *http.Request) {
		cmd, err := event.ParseCommand(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if _, ok := cmd.(event.ClearStorage); ok {
			cmd, err = decodeClearStorage(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
		}

		res, err := commands(r.Context(), cmd)
		switch {
		case errors.Is(err, ErrNoPage):
			writeError(w, http.StatusConflict, err)
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
		default:
			writeJSON(w, http.StatusOK, res)
		}
	})
	return r
}

func decodeClearStorage(body io.Reader) (event.ClearStorage, error) {
	var req clearStorageReq
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return event.ClearStorage{}, err
	}
	targets, err := event.ParseStorageTargets(req.Targets)
	if err != nil {
		return event.ClearStorage{}, err
	}
	return event.ClearStorage{Targets: targets}, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
