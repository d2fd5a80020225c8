package route

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"calgrid/src-server/store"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenRegex = regexp.MustCompile(`name="token" value="([^"]+)"`)

func getPage(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func postForm(t *testing.T, target string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := noRedirectClient().PostForm(target, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func TestCalendar_RendersCurrentMonth(t *testing.T) {
	as := newTestAppState(t)
	_, err := as.Store.Seed(context.Background())
	require.NoError(t, err)
	server := newTestServer(t, as)

	status, body := getPage(t, server.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<h1>November 2025</h1>")
	assert.Contains(t, body, `/calendar?year=2025&amp;month=9`)
	assert.Contains(t, body, `/calendar?year=2025&amp;month=11`)
	assert.Equal(t, 42, strings.Count(body, `class="day`))
	assert.Equal(t, 30, strings.Count(body, `data-date="2025-11-`))
	assert.Contains(t, body, `class="day today conflict-3" data-date="2025-11-25"`)
	assert.Contains(t, body, `class="day conflict-2" data-date="2025-11-18"`)
	assert.Contains(t, body, `class="day" data-date="2025-11-03"`)
	assert.Contains(t, body, "Sprint Planning")
	assert.NotContains(t, body, "Holiday Party")
	assert.NotContains(t, body, `class="modal"`)
}

func TestCalendar_Navigation(t *testing.T) {
	as := newTestAppState(t)
	_, err := as.Store.Seed(context.Background())
	require.NoError(t, err)
	server := newTestServer(t, as)

	status, body := getPage(t, server.URL+"/calendar?year=2025&month=11")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<h1>December 2025</h1>")
	assert.Contains(t, body, "Holiday Party")
	assert.Contains(t, body, `/calendar?year=2026&amp;month=0`)
	assert.NotContains(t, body, "day today")

	status, body = getPage(t, server.URL+"/calendar?year=2025&month=0")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<h1>January 2025</h1>")
	assert.Contains(t, body, `/calendar?year=2024&amp;month=11`)
}

func TestCalendar_OpenPrompt(t *testing.T) {
	server := newTestServer(t, newTestAppState(t))

	status, body := getPage(t, server.URL+"/calendar?year=2025&month=10&prompt=2025-11-12")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `class="modal"`)
	assert.Contains(t, body, `name="date" value="2025-11-12"`)
	assert.Regexp(t, tokenRegex, body)

	_, body = getPage(t, server.URL+"/calendar?year=2025&month=10&prompt=not-a-date")
	assert.NotContains(t, body, `class="modal"`)

	_, body = getPage(t, server.URL+"/calendar?year=2025&month=10&prompt=2025-12-01")
	assert.NotContains(t, body, `class="modal"`)
}

func TestCalendar_SubmitAddsEvent(t *testing.T) {
	as := newTestAppState(t)
	server := newTestServer(t, as)

	_, body := getPage(t, server.URL+"/calendar?year=2025&month=10&prompt=2025-11-12")
	token := tokenRegex.FindStringSubmatch(body)[1]

	form := url.Values{
		"year":  {"2025"},
		"month": {"10"},
		"token": {token},
		"date":  {"2025-11-12"},
		"title": {"  Dentist  "},
		"time":  {"15:30"},
	}
	resp, _ := postForm(t, server.URL+"/calendar/events", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/calendar?year=2025&month=10", resp.Header.Get("Location"))

	events, err := as.Store.ListEvents(context.Background(), mo.Some("2025-11-12"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Dentist", events[0].Title)
	assert.Equal(t, "15:30", events[0].Time)

	// the same form again, e.g. a double click
	resp, _ = postForm(t, server.URL+"/calendar/events", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	count, err := as.Store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCalendar_SubmitMissingTitleKeepsPrompt(t *testing.T) {
	as := newTestAppState(t)
	server := newTestServer(t, as)

	_, body := getPage(t, server.URL+"/calendar?year=2025&month=10&prompt=2025-11-12")
	token := tokenRegex.FindStringSubmatch(body)[1]

	resp, body := postForm(t, server.URL+"/calendar/events", url.Values{
		"year":        {"2025"},
		"month":       {"10"},
		"token":       {token},
		"date":        {"2025-11-12"},
		"description": {"bring x-rays"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `class="modal"`)
	assert.Contains(t, body, store.MsgDateAndTitleRequired)
	assert.Contains(t, body, "bring x-rays")
	assert.Contains(t, body, `name="token" value="`+token+`"`)

	count, err := as.Store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCalendar_Delete(t *testing.T) {
	as := newTestAppState(t)
	server := newTestServer(t, as)
	created, err := as.Store.CreateEvent(context.Background(), store.NewEvent{Date: "2025-11-03", Title: "Team Meeting"})
	require.NoError(t, err)

	form := url.Values{"year": {"2025"}, "month": {"10"}}
	resp, _ := postForm(t, server.URL+"/calendar/events/"+created.ID+"/delete", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body := postForm(t, server.URL+"/calendar/events/"+created.ID+"/delete", form)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Event not found")
	assert.Contains(t, body, "<h1>November 2025</h1>")
}

func TestCalendar_StoreDownStillRenders(t *testing.T) {
	as := newTestAppState(t)
	server := newTestServer(t, as)
	require.NoError(t, as.BunDB.Close())

	status, body := getPage(t, server.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Could not load events")
	assert.Equal(t, 42, strings.Count(body, `class="day`))
}
