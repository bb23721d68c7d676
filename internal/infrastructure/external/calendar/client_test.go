package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	c := NewClientWithHTTP(srv.Client(), srv.URL, "", nil)
	c.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
	}
	return c
}

func TestCreateEvent(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("conferenceDataVersion"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = io.WriteString(w, `{"id":"evt-1","hangoutLink":"https://meet.google.com/abc"}`)
	}))
	defer srv.Close()

	start := time.Date(2026, 3, 2, 15, 0, 0, 0, time.FixedZone("X", 3600))
	event, err := testClient(srv).CreateEvent(context.Background(), EventRequest{
		Summary:   "20min Chat: Ada & Grace",
		Start:     start,
		Duration:  20 * time.Minute,
		Attendees: []string{"ada@school.edu", "grace@school.edu"},
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", event.ID)
	assert.Equal(t, "https://meet.google.com/abc", event.HangoutLink)

	assert.Equal(t, "20min Chat: Ada & Grace", body["summary"])
	assert.Equal(t, map[string]interface{}{"dateTime": "2026-03-02T14:00:00Z", "timeZone": "UTC"}, body["start"])
	assert.Equal(t, map[string]interface{}{"dateTime": "2026-03-02T14:20:00Z", "timeZone": "UTC"}, body["end"])
	assert.Len(t, body["attendees"], 2)
	conf := body["conferenceData"].(map[string]interface{})["createRequest"].(map[string]interface{})
	assert.NotEmpty(t, conf["requestId"])
	assert.Equal(t, map[string]interface{}{"type": "hangoutsMeet"}, conf["conferenceSolutionKey"])
}

func TestCreateEventRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"id":"evt-2"}`)
	}))
	defer srv.Close()

	event, err := testClient(srv).CreateEvent(context.Background(), EventRequest{Start: time.Now(), Duration: time.Minute})
	require.NoError(t, err)
	assert.Equal(t, "evt-2", event.ID)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestCreateEventDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":"forbidden"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv).CreateEvent(context.Background(), EventRequest{Start: time.Now(), Duration: time.Minute})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestValidateCredentials(t *testing.T) {
	assert.ErrorIs(t, ValidateCredentials(nil), ErrNotConfigured)
	assert.Error(t, ValidateCredentials([]byte("{not json")))

	err := ValidateCredentials([]byte(`{"type":"service_account","project_id":"p"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private_key_id, private_key, client_email")

	assert.NoError(t, ValidateCredentials([]byte(`{"type":"service_account","project_id":"p","private_key_id":"k","private_key":"pk","client_email":"svc@p.iam"}`)))
}
