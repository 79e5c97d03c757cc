package webui

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BacBoScanner/internal/domain"
	"BacBoScanner/internal/ports"
)

type fakeControl struct {
	running  bool
	reading  *domain.Reading
	startErr error
	stopErr  error
	override ports.NotifierOverride
	starts   int
	stops    int
}

func (f *fakeControl) Start(_ context.Context, override ports.NotifierOverride) error {
	f.starts++
	f.override = override
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeControl) Stop(context.Context) error {
	f.stops++
	if f.stopErr != nil {
		return f.stopErr
	}
	f.running = false
	return nil
}

func (f *fakeControl) Running() bool                { return f.running }
func (f *fakeControl) LastReading() *domain.Reading { return f.reading }

type fakeRecorder struct {
	win   bool
	color string
	err   error
	calls int
}

func (f *fakeRecorder) RecordResult(_ context.Context, win bool, color string) error {
	f.calls++
	f.win = win
	f.color = color
	return f.err
}

func newTestServer(control ports.MonitorControl, recorder ports.ResultRecorder) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(":0", control, recorder, logger)
}

func TestIndexShowsRunningState(t *testing.T) {
	control := &fakeControl{running: true}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	newTestServer(control, nil).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Bac Bo Scanner")
	assert.Contains(t, body, "Running: true")
}

func TestStartForwardsOverride(t *testing.T) {
	control := &fakeControl{}
	form := url.Values{"token": {"tok"}, "chat_id": {"42"}}
	req := httptest.NewRequest(http.MethodPost, "/start", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newTestServer(control, nil).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, control.starts)
	assert.Equal(t, ports.NotifierOverride{BotToken: "tok", ChatID: "42"}, control.override)
}

func TestStartConflictWhenAlreadyRunning(t *testing.T) {
	control := &fakeControl{startErr: errors.New("monitor already running")}
	req := httptest.NewRequest(http.MethodPost, "/start", nil)
	rec := httptest.NewRecorder()
	newTestServer(control, nil).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStopStopsMonitor(t *testing.T) {
	control := &fakeControl{running: true}
	req := httptest.NewRequest(http.MethodPost, "/stop", nil)
	rec := httptest.NewRecorder()
	newTestServer(control, nil).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, control.stops)
	assert.False(t, control.running)
}

func TestStatusIncludesLastReading(t *testing.T) {
	stamp := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
	control := &fakeControl{
		running: true,
		reading: &domain.Reading{
			PlayerPercent: 70, BankerPercent: 22, TiePercent: 8,
			PlayerWinning: true, Derived: true, Timestamp: stamp,
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	newTestServer(control, nil).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Running bool `json:"running"`
		Reading struct {
			PlayerPercent float64 `json:"player_percent"`
			BankerPercent float64 `json:"banker_percent"`
			TiePercent    float64 `json:"tie_percent"`
			PlayerWinning bool    `json:"player_winning"`
			Derived       bool    `json:"derived"`
			Timestamp     string  `json:"timestamp"`
		} `json:"reading"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Running)
	assert.Equal(t, 70.0, payload.Reading.PlayerPercent)
	assert.Equal(t, 22.0, payload.Reading.BankerPercent)
	assert.Equal(t, 8.0, payload.Reading.TiePercent)
	assert.True(t, payload.Reading.PlayerWinning)
	assert.True(t, payload.Reading.Derived)
	assert.Equal(t, "2025-03-14T15:09:26Z", payload.Reading.Timestamp)
}

func TestStatusWithoutReading(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	newTestServer(&fakeControl{}, nil).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["running"])
	assert.NotContains(t, payload, "reading")
}

func TestResultRecordsOutcome(t *testing.T) {
	recorder := &fakeRecorder{}
	req := httptest.NewRequest(http.MethodPost, "/result", strings.NewReader(`{"win":true,"color":"red"}`))
	rec := httptest.NewRecorder()
	newTestServer(&fakeControl{}, recorder).Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, recorder.calls)
	assert.True(t, recorder.win)
	assert.Equal(t, "red", recorder.color)
}

func TestResultRejectsInvalidPayload(t *testing.T) {
	recorder := &fakeRecorder{}
	req := httptest.NewRequest(http.MethodPost, "/result", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	newTestServer(&fakeControl{}, recorder).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, recorder.calls)
}

func TestResultWithoutRecorder(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/result", strings.NewReader(`{"win":true}`))
	rec := httptest.NewRecorder()
	newTestServer(&fakeControl{}, nil).Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
