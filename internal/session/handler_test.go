package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eleven-am/maskwatch/internal/realtime"
	"github.com/labstack/echo/v4"
)

func TestHandler_GetRecord(t *testing.T) {
	_, store := setupStore(t)
	_ = store.RecordSession(context.Background(), info("sess_x", realtime.StateConnected, time.Now()))
	h := NewHandler(store, nil)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetPath("/sessions/:id/record")
	c.SetParamNames("id")
	c.SetParamValues("sess_x")

	if err := h.GetRecord(c); err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}

	var got Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State != "connected" {
		t.Errorf("expected connected, got %q", got.State)
	}
}

func TestHandler_GetRecord_NotFound(t *testing.T) {
	_, store := setupStore(t)
	h := NewHandler(store, nil)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("sess_none")

	err := h.GetRecord(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_GetSummary(t *testing.T) {
	_, store := setupStore(t)
	ctx := context.Background()
	now := time.Now()

	_ = store.RecordSession(ctx, info("sess_1", realtime.StateNew, now))
	closed := info("sess_1", realtime.StateClosed, now)
	closed.Stats = realtime.SinkStats{FramesIn: 200, Dropped: 50, Faces: 20}
	_ = store.RecordSession(ctx, closed)

	h := NewHandler(store, nil)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/sessions/metrics/summary", nil), rec)

	if err := h.GetSummary(c); err != nil {
		t.Fatalf("GetSummary() error = %v", err)
	}

	var got SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalSessions != 1 || got.Frames != 200 || got.Faces != 20 {
		t.Errorf("unexpected summary: %+v", got)
	}
	if got.DropRate != 25 {
		t.Errorf("expected drop rate 25, got %v", got.DropRate)
	}
}

func TestHandler_ListHistory(t *testing.T) {
	_, store := setupStore(t)
	_ = store.RecordSession(context.Background(), info("sess_1", realtime.StateNew, time.Now()))
	h := NewHandler(store, nil)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/sessions/history?limit=5", nil), rec)

	if err := h.ListHistory(c); err != nil {
		t.Fatalf("ListHistory() error = %v", err)
	}

	var got []Record
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 record, got %d", len(got))
	}
}
