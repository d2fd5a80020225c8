package route

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"calgrid/src-server/calendar"
	"calgrid/src-server/model"
	"calgrid/src-server/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.New("calendar.html").Funcs(template.FuncMap{
	"viewURL":   viewURL,
	"promptURL": promptURL,
}).ParseFS(templatesFS, "templates/calendar.html"))

type pageData struct {
	Page calendar.Page
}

func viewURL(v calendar.View) string {
	return fmt.Sprintf("/calendar?year=%d&month=%d", v.Year, v.Month)
}

func promptURL(v calendar.View, date string) string {
	return viewURL(v) + "&prompt=" + date
}

// The browser calendar. GET renders a month, the POSTs are SUBMIT and
// delete, each followed by a full rebuild.
func Calendar(muxer *http.ServeMux, renderer *calendar.Renderer) {
	show := func(w http.ResponseWriter, r *http.Request) {
		v := viewFromValues(r, renderer)
		// only days of the viewed month have an add link
		if date := r.URL.Query().Get("prompt"); model.IsValidDate(date) && v.Contains(date) {
			v = v.OpenPrompt(date, renderer.NewToken())
		}
		render(w, r, renderer, v, http.StatusOK, "")
	}
	muxer.HandleFunc("GET /{$}", show)
	muxer.HandleFunc("GET /calendar", show)

	muxer.HandleFunc("POST /calendar/events", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		v := viewFromValues(r, renderer)
		draft := store.NewEvent{
			Date:        r.PostForm.Get("date"),
			Title:       r.PostForm.Get("title"),
			Time:        r.PostForm.Get("time"),
			Duration:    r.PostForm.Get("duration"),
			Description: r.PostForm.Get("description"),
		}
		token := r.PostForm.Get("token")

		next, err := renderer.Submit(r.Context(), v, draft, token)
		var validationErr *store.ValidationError
		switch {
		case err == nil:
			http.Redirect(w, r, viewURL(next), http.StatusSeeOther)
		case errors.Is(err, calendar.ErrDuplicateSubmission):
			http.Redirect(w, r, viewURL(next), http.StatusSeeOther)
		case errors.As(err, &validationErr):
			render(w, r, renderer, next, http.StatusBadRequest, "")
		default:
			slog.Error("can't add event from calendar", "error", err)
			render(w, r, renderer, next, http.StatusInternalServerError, "")
		}
	})

	muxer.HandleFunc("POST /calendar/events/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		v := viewFromValues(r, renderer)
		next, err := renderer.Delete(r.Context(), v, r.PathValue("id"))
		var notFoundErr *store.NotFoundError
		switch {
		case err == nil:
			http.Redirect(w, r, viewURL(next), http.StatusSeeOther)
		case errors.As(err, &notFoundErr):
			render(w, r, renderer, next, http.StatusNotFound, msgEventNotFound)
		default:
			slog.Error("can't delete event from calendar", "error", err)
			render(w, r, renderer, next, http.StatusInternalServerError, "Could not delete the event, please try again.")
		}
	})
}

// year and month from the query or form; the current month when absent
func viewFromValues(r *http.Request, renderer *calendar.Renderer) calendar.View {
	v := renderer.Current()
	year, yearErr := strconv.Atoi(r.FormValue("year"))
	month, monthErr := strconv.Atoi(r.FormValue("month"))
	if yearErr != nil || monthErr != nil || year < 1 || year > 9999 {
		return v
	}
	return calendar.NewView(year, month)
}

// Rebuild the page for v and write it. A failed fetch is logged and the
// page is still drawn with a notice.
func render(w http.ResponseWriter, r *http.Request, renderer *calendar.Renderer, v calendar.View, status int, notice string) {
	page, err := renderer.Rebuild(r.Context(), v)
	if err != nil {
		slog.Error("can't load events for calendar", "error", err)
	}
	if notice != "" {
		page.Notice = notice
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Page: page}); err != nil {
		slog.Error("can't render calendar", "error", err)
		http.Error(w, "Can't render calendar", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
