package route

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"calgrid/src-server/model"
	"calgrid/src-server/notify"
	"calgrid/src-server/store"
	"calgrid/src-server/utils"
)

const msgEventNotFound = "Event not found"

func Events(muxer *http.ServeMux, as *utils.AppState) {
	// list events, optionally on one date
	muxer.HandleFunc("GET /events", func(w http.ResponseWriter, r *http.Request) {
		events, err := as.Store.ListEvents(r.Context(), store.DateFilter(r.URL.Query().Get("date")))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	})

	// create an event, the response is the stored event
	muxer.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		// an empty body is an event with no fields, left to validation
		var reqBody store.NewEvent
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := as.Store.CreateEvent(r.Context(), reqBody)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		Announce(as, created)
		writeJSON(w, http.StatusCreated, created)
	})

	type QuickAddReqBody struct {
		Text string `json:"text"`
	}

	// create an event from free text, e.g. "dentist tomorrow at 3pm"
	muxer.HandleFunc("POST /events/quick", func(w http.ResponseWriter, r *http.Request) {
		var reqBody QuickAddReqBody
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		newEvent, err := utils.ParseQuickAdd(as.When, reqBody.Text, time.Now().In(as.Config.GetLocation()))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		created, err := as.Store.CreateEvent(r.Context(), newEvent)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		Announce(as, created)
		writeJSON(w, http.StatusCreated, created)
	})

	// delete an event
	muxer.HandleFunc("DELETE /events/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := as.Store.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
	})
}

// Tell the notifier about a new event without holding up the caller.
// Reports whether a notification was dispatched.
func Announce(as *utils.AppState, e model.Event) bool {
	switch as.Notifier.(type) {
	case nil, notify.Nop:
		return false
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := as.Notifier.EventCreated(ctx, e); err != nil {
			slog.Warn("can't send event notification", "id", e.ID, "error", err)
		}
	}()
	return true
}

// Map the store's error types onto status codes.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *store.ValidationError
	var notFoundErr *store.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Msg)
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, msgEventNotFound)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
