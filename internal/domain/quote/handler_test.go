package quote

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddinghall/internal/domain/catalog/catalogtest"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, _ := newTestService(t)
	h := NewHandler(svc, func(origin string) bool { return origin == "https://allowed.example" })

	r := gin.New()
	v1 := r.Group("/api/v1")
	h.RegisterRoutes(v1)
	return r
}

func doJSONRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

type viewEnvelope struct {
	Success bool `json:"success"`
	Data    View `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) viewEnvelope {
	t.Helper()
	var env viewEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

func openSession(t *testing.T, r http.Handler) string {
	t.Helper()
	rr := doJSONRequest(r, http.MethodPost, "/api/v1/quotes", map[string]any{"company": catalogtest.CompanyName})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeView(t, rr).Data.SessionID
}

func TestQuoteEndpoints_FullFlow(t *testing.T) {
	r := setupTestRouter(t)
	id := openSession(t, r)
	base := "/api/v1/quotes/" + id

	rr := doJSONRequest(r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "A", decodeView(t, rr).Data.Selection.Hall)

	rr = doJSONRequest(r, http.MethodPut, base+"/meals/111", `{"count": "100"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, int64(2000000), decodeView(t, rr).Data.Breakdown.Meals[0].LineDiscount)

	rr = doJSONRequest(r, http.MethodPost, base+"/options/213/toggle", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeView(t, rr).Data.Options[2].Selected)

	rr = doJSONRequest(r, http.MethodPut, base+"/tier", map[string]any{"value": "standard"})
	require.Equal(t, http.StatusOK, rr.Code)
	v := decodeView(t, rr).Data
	assert.Equal(t, "standard", string(v.Selection.Tier))
	assert.False(t, v.Discounted)

	rr = doJSONRequest(r, http.MethodPut, base+"/hall", map[string]any{"value": "C"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decodeView(t, rr).Data.NoQuote)

	rr = doJSONRequest(r, http.MethodPut, base+"/date", map[string]any{"value": "2030-01-01"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeView(t, rr).Data.Selection.Date)

	rr = doJSONRequest(r, http.MethodPost, base+"/commands", map[string]any{"op": "set_hall", "value": "B"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "B", decodeView(t, rr).Data.Selection.Hall)

	rr = doJSONRequest(r, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestQuoteEndpoints_Errors(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/quotes", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/quotes", map[string]any{"company": "ghost"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/quotes/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeView(t, rr).Error.Code)

	rr = doJSONRequest(r, http.MethodGet, "/api/v1/quotes/3f0e8a8e-8c4a-4b8e-9f0e-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	id := openSession(t, r)
	rr = doJSONRequest(r, http.MethodPut, "/api/v1/quotes/"+id+"/meals/abc", `{"count": 1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/quotes/"+id+"/commands", map[string]any{"op": "explode"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQuoteEndpoints_Calculate(t *testing.T) {
	r := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/quotes/calculate", `{
		"company": "Maison Blanche",
		"hall": "A",
		"meal_counts": {"111": 100},
		"option_ids": [212]
	}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	v := decodeView(t, rr).Data
	assert.Empty(t, v.SessionID)
	assert.Equal(t, int64(11800000), v.Breakdown.TotalDisplayCost)
	assert.Equal(t, int64(3500000), v.Breakdown.TotalDiscount)

	rr = doJSONRequest(r, http.MethodPost, "/api/v1/quotes/calculate", `{"hall": "A"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQuoteLive_PushesViews(t *testing.T) {
	r := setupTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	id := openSession(t, r)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/quotes/" + id + "/live"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	readEvent := func() (string, View) {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var ev struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(msg, &ev))
		var v View
		if ev.Type == EventQuoteView {
			require.NoError(t, json.Unmarshal(ev.Payload, &v))
		}
		return ev.Type, v
	}

	typ, v := readEvent()
	assert.Equal(t, EventQuoteView, typ)
	assert.Equal(t, id, v.SessionID)

	require.NoError(t, conn.WriteJSON(map[string]any{"op": "set_hall", "value": "B"}))
	typ, v = readEvent()
	assert.Equal(t, EventQuoteView, typ)
	assert.Equal(t, "B", v.Selection.Hall)

	// REST changes reach the socket too
	rr := doJSONRequest(r, http.MethodPut, "/api/v1/quotes/"+id+"/meals/131", `{"count": 10}`)
	require.Equal(t, http.StatusOK, rr.Code)
	typ, v = readEvent()
	assert.Equal(t, EventQuoteView, typ)
	assert.Equal(t, 10, v.Meals[0].Count)

	require.NoError(t, conn.WriteJSON(map[string]any{"op": "explode"}))
	typ, _ = readEvent()
	assert.Equal(t, EventError, typ)
}

func TestQuoteLive_UnknownSession(t *testing.T) {
	r := setupTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/quotes/3f0e8a8e-8c4a-4b8e-9f0e-000000000000/live"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuoteLive_RejectsForeignOrigin(t *testing.T) {
	r := setupTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	id := openSession(t, r)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/quotes/" + id + "/live"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"https://allowed.example"}})
	require.NoError(t, err)
	conn.Close()

	conn, _, err = websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {srv.URL}})
	require.NoError(t, err, "same-host origin")
	conn.Close()
}
