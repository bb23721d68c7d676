package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

const (
	defaultBaseURL = "https://www.googleapis.com/calendar/v3"
	calendarScope  = "https://www.googleapis.com/auth/calendar"
)

// ErrNotConfigured is returned when no service account is configured.
var ErrNotConfigured = errors.New("calendar: credentials not configured")

var requiredCredentialFields = []string{"type", "project_id", "private_key_id", "private_key", "client_email"}

// APIError is a non-success answer from the calendar API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar api returned %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether the request may succeed when repeated.
func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// EventRequest describes a meeting to schedule.
type EventRequest struct {
	Summary     string
	Description string
	Start       time.Time
	Duration    time.Duration
	Attendees   []string
}

// Event is the created calendar entry.
type Event struct {
	ID          string `json:"id"`
	HangoutLink string `json:"hangoutLink"`
	HTMLLink    string `json:"htmlLink"`
}

// Client creates events on one calendar.
type Client struct {
	httpClient *http.Client
	baseURL    string
	calendarID string
	newBackOff func() backoff.BackOff
	logger     *zap.Logger
}

// ValidateCredentials checks that a service account key carries every field
// needed to sign requests.
func ValidateCredentials(credentialsJSON []byte) error {
	if len(bytes.TrimSpace(credentialsJSON)) == 0 {
		return ErrNotConfigured
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(credentialsJSON, &fields); err != nil {
		return fmt.Errorf("invalid calendar configuration: failed to parse JSON: %w", err)
	}
	var missing []string
	for _, f := range requiredCredentialFields {
		if v, ok := fields[f].(string); !ok || v == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid calendar configuration: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// NewClient builds a client authenticated as the service account in credentialsJSON.
func NewClient(ctx context.Context, credentialsJSON []byte, calendarID string, logger *zap.Logger) (*Client, error) {
	if err := ValidateCredentials(credentialsJSON); err != nil {
		return nil, err
	}
	conf, err := google.JWTConfigFromJSON(credentialsJSON, calendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar credentials: %w", err)
	}
	return NewClientWithHTTP(conf.Client(ctx), defaultBaseURL, calendarID, logger), nil
}

// NewClientWithHTTP builds a client on an already authenticated HTTP client.
func NewClientWithHTTP(httpClient *http.Client, baseURL, calendarID string, logger *zap.Logger) *Client {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		calendarID: calendarID,
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 500 * time.Millisecond
			bo.MaxInterval = 5 * time.Second
			bo.MaxElapsedTime = 20 * time.Second
			return bo
		},
		logger: logger,
	}
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type attendee struct {
	Email string `json:"email"`
}

type conferenceData struct {
	CreateRequest struct {
		RequestID             string `json:"requestId"`
		ConferenceSolutionKey struct {
			Type string `json:"type"`
		} `json:"conferenceSolutionKey"`
	} `json:"createRequest"`
}

type eventBody struct {
	Summary        string         `json:"summary"`
	Description    string         `json:"description"`
	Start          eventTime      `json:"start"`
	End            eventTime      `json:"end"`
	Attendees      []attendee     `json:"attendees"`
	ConferenceData conferenceData `json:"conferenceData"`
}

// CreateEvent inserts a UTC event with a Meet conference. Server errors and
// rate limiting are retried with exponential backoff.
func (c *Client) CreateEvent(ctx context.Context, req EventRequest) (*Event, error) {
	start := req.Start.UTC()
	body := eventBody{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       eventTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         eventTime{DateTime: start.Add(req.Duration).Format(time.RFC3339), TimeZone: "UTC"},
	}
	for _, email := range req.Attendees {
		body.Attendees = append(body.Attendees, attendee{Email: email})
	}
	body.ConferenceData.CreateRequest.RequestID = uuid.NewString()
	body.ConferenceData.CreateRequest.ConferenceSolutionKey.Type = "hangoutsMeet"

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events?conferenceDataVersion=1", c.baseURL, url.PathEscape(c.calendarID))

	var event Event
	attempt := 0
	insert := func() error {
		attempt++
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(data)}
			if apiErr.retryable() {
				if c.logger != nil {
					c.logger.Warn("calendar insert failed, retrying",
						zap.Int("status", resp.StatusCode),
						zap.Int("attempt", attempt),
					)
				}
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		if err := json.Unmarshal(data, &event); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode event: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(insert, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		if c.logger != nil {
			c.logger.Error("❌ Failed to create calendar event", zap.Int("attempts", attempt), zap.Error(err))
		}
		return nil, err
	}

	if c.logger != nil {
		c.logger.Info("✅ Calendar event created",
			zap.String("event_id", event.ID),
			zap.Bool("has_meeting_link", event.HangoutLink != ""),
		)
	}
	return &event, nil
}
