package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newOfferContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/offer", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != status {
		t.Errorf("expected status %d, got %d", status, he.Code)
	}
}

func TestNewHandler(t *testing.T) {
	mgr := newTestManager(t, Config{}, nil)
	h := NewHandler(mgr, nil)
	if h.manager != mgr {
		t.Error("handler should use provided manager")
	}
	if h.log == nil {
		t.Error("handler should have default logger")
	}
}

func TestParseOffer(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"sdp":"v=0","type":"offer"}`, false},
		{"bad json", `{"sdp":`, true},
		{"empty sdp", `{"sdp":"  ","type":"offer"}`, true},
		{"wrong type", `{"sdp":"v=0","type":"answer"}`, true},
		{"missing type", `{"sdp":"v=0"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOffer([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Errorf("parseOffer error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHandler_HandleOffer_BadRequests(t *testing.T) {
	mgr := newTestManager(t, Config{}, nil)
	h := NewHandler(mgr, discardLogger())

	bodies := []string{
		`not json`,
		`{"sdp":"","type":"offer"}`,
		`{"sdp":"v=0","type":"pranswer"}`,
		`{"sdp":"garbage that is not sdp","type":"offer"}`,
	}

	for _, body := range bodies {
		c, _ := newOfferContext(body)
		assertHTTPStatus(t, h.HandleOffer(c), http.StatusBadRequest)
	}

	if mgr.Count() != 0 {
		t.Errorf("rejected offers should not register sessions, got %d", mgr.Count())
	}
}

func TestHandler_HandleOffer_TooLarge(t *testing.T) {
	mgr := newTestManager(t, Config{MaxSDPSize: 16}, nil)
	h := NewHandler(mgr, discardLogger())

	c, _ := newOfferContext(`{"sdp":"v=0 this is far too long","type":"offer"}`)
	assertHTTPStatus(t, h.HandleOffer(c), http.StatusRequestEntityTooLarge)
}

func TestHandler_HandleOffer_Plain(t *testing.T) {
	mgr := newTestManager(t, Config{}, nil)
	h := NewHandler(mgr, discardLogger())

	offer := newBrowserOffer(t)
	body, _ := json.Marshal(OfferRequest{SDP: offer.SDP, Type: "offer"})

	c, rec := newOfferContext(string(body))
	if err := h.HandleOffer(c); err != nil {
		t.Fatalf("HandleOffer should not error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp OfferResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response should be a JSON object: %v", err)
	}
	if resp.Type != "answer" || !strings.HasPrefix(resp.SDP, "v=0") {
		t.Errorf("unexpected answer %+v", resp)
	}
	if rec.Header().Get("X-Session-Id") == "" {
		t.Error("expected X-Session-Id header")
	}
	if mgr.Count() != 1 {
		t.Errorf("expected 1 registered session, got %d", mgr.Count())
	}
}

func TestHandler_HandleOffer_LegacyEncoding(t *testing.T) {
	mgr := newTestManager(t, Config{LegacyOfferEncoding: true}, nil)
	h := NewHandler(mgr, discardLogger())

	offer := newBrowserOffer(t)
	body, _ := json.Marshal(OfferRequest{SDP: offer.SDP, Type: "offer"})

	c, rec := newOfferContext(string(body))
	if err := h.HandleOffer(c); err != nil {
		t.Fatalf("HandleOffer should not error: %v", err)
	}

	var inner string
	if err := json.Unmarshal(rec.Body.Bytes(), &inner); err != nil {
		t.Fatalf("legacy response should be a JSON string: %v", err)
	}
	var resp OfferResponse
	if err := json.Unmarshal([]byte(inner), &resp); err != nil {
		t.Fatalf("inner string should hold the answer object: %v", err)
	}
	if resp.Type != "answer" || resp.SDP == "" {
		t.Errorf("unexpected answer %+v", resp)
	}
}

func TestHandler_ListSessions(t *testing.T) {
	mgr := newTestManager(t, Config{}, nil)
	h := NewHandler(mgr, discardLogger())
	mgr.CreateSession()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListSessions(c); err != nil {
		t.Fatalf("ListSessions should not error: %v", err)
	}

	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 session, got %d", len(list))
	}
	if list[0]["state"] != "new" {
		t.Errorf("expected state new, got %v", list[0]["state"])
	}
}

func TestHandler_CloseSession(t *testing.T) {
	mgr := newTestManager(t, Config{}, nil)
	h := NewHandler(mgr, discardLogger())
	s, _ := mgr.CreateSession()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/sessions/"+s.ID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(s.ID)

	if err := h.CloseSession(c); err != nil {
		t.Fatalf("CloseSession should not error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if mgr.Count() != 0 {
		t.Errorf("expected empty registry, got %d", mgr.Count())
	}
}

func TestHandler_CloseSession_NotFound(t *testing.T) {
	mgr := newTestManager(t, Config{}, nil)
	h := NewHandler(mgr, discardLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/sessions/missing", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("missing")

	assertHTTPStatus(t, h.CloseSession(c), http.StatusNotFound)
}
