package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"cardstudio/config"
	"cardstudio/pkg/logger"
	"cardstudio/pkg/token"
	"cardstudio/socket"
	"cardstudio/store"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Port:      "0",
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
		Driver:    config.DriverFile,
		DataDir:   t.TempDir(),
	}
	fs, err := store.Open(cfg.DataDir)
	require.NoError(t, err)

	hub := socket.NewHub()
	go hub.Run()

	server := httptest.NewServer(Setup(cfg, fs.Accounts(), fs.Cards(), hub))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url, bearer string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func doJSONList(t *testing.T, url, bearer string) (*http.Response, []map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+bearer)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func signup(t *testing.T, baseURL, name, email string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, baseURL+"/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["token"].(string)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestSignup_NeverExposesPasswordHash(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/auth/signup", "application/json",
		bytes.NewReader([]byte(`{"name":"Jane","email":"jane@example.com","password":"s3cret"}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var raw bytes.Buffer
	_, err = raw.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, raw.String(), "password")
	assert.NotContains(t, raw.String(), "Hash")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", user["email"])

	// The same credentials log in afterwards
	loginResp, loginBody := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "s3cret",
	})
	assert.Equal(t, http.StatusOK, loginResp.StatusCode)
	assert.NotEmpty(t, loginBody["token"])
}

func TestSignup_Validation(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/auth/signup", "", map[string]string{
		"name": "Jane", "email": "jane@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Name, email, and password required", body["message"])
}

func TestSignup_DuplicateEmail(t *testing.T) {
	server := newTestServer(t)
	signup(t, server.URL, "Jane", "jane@example.com")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/auth/signup", "", map[string]string{
		"name": "Janet", "email": "jane@example.com", "password": "other",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already registered", body["message"])
}

func TestLogin_FailureIsIndistinguishable(t *testing.T) {
	server := newTestServer(t)
	signup(t, server.URL, "Jane", "jane@example.com")

	wrongResp, wrongBody := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "nope",
	})
	ghostResp, ghostBody := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
		"email": "ghost@example.com", "password": "s3cret",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongResp.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, ghostResp.StatusCode)
	assert.Equal(t, wrongBody, ghostBody)
	assert.Equal(t, "Invalid credentials", wrongBody["message"])
}

func TestAccessGuard(t *testing.T) {
	server := newTestServer(t)

	// No token
	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/cards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token provided", body["message"])

	// Malformed token
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/cards", "not.a.jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token invalid or expired", body["message"])

	// Expired token
	expired, err := token.Issue("whoever", []byte(testSecret), -time.Minute)
	require.NoError(t, err)
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/cards", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token invalid or expired", body["message"])

	// Well-signed token for an account that doesn't exist
	orphan, err := token.Issue("no-such-account", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/cards", orphan, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token user", body["message"])
}

func TestCards_CreateValidation(t *testing.T) {
	server := newTestServer(t)
	tok := signup(t, server.URL, "Jane", "jane@example.com")

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/cards", tok, map[string]interface{}{
		"title": "No fields",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Title and fields required", body["message"])
}

func TestCards_RoundTrip(t *testing.T) {
	server := newTestServer(t)
	tok := signup(t, server.URL, "Jane", "jane@example.com")

	resp, created := doJSON(t, http.MethodPost, server.URL+"/api/cards", tok, map[string]interface{}{
		"title":  "My Card",
		"fields": map[string]string{"name": "Jane"},
		"style":  map[string]string{"bgColor": "#000000"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["_id"].(string)

	resp, got := doJSON(t, http.MethodGet, server.URL+"/api/cards/"+id, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Jane", got["fields"].(map[string]interface{})["name"])
	assert.Equal(t, "#000000", got["style"].(map[string]interface{})["bgColor"])
	assert.Equal(t, "My Card", got["title"])
}

func TestCards_OwnerIsolation(t *testing.T) {
	server := newTestServer(t)
	tokA := signup(t, server.URL, "Alice", "alice@example.com")
	tokB := signup(t, server.URL, "Bob", "bob@example.com")

	resp, created := doJSON(t, http.MethodPost, server.URL+"/api/cards", tokA, map[string]interface{}{
		"title":  "Alice's card",
		"fields": map[string]string{"name": "Alice"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["_id"].(string)

	_, listB := doJSONList(t, server.URL+"/api/cards", tokB)
	assert.Empty(t, listB)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var payload interface{}
		if method == http.MethodPut {
			payload = map[string]string{"title": "hijack"}
		}
		resp, body := doJSON(t, method, server.URL+"/api/cards/"+id, tokB, payload)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, method)
		assert.Equal(t, "Not found", body["message"], method)
	}

	// Alice still owns it untouched
	resp, got := doJSON(t, http.MethodGet, server.URL+"/api/cards/"+id, tokA, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Alice's card", got["title"])
}

func TestCards_ListOrdering(t *testing.T) {
	server := newTestServer(t)
	tok := signup(t, server.URL, "Jane", "jane@example.com")

	mkCard := func(title string) string {
		resp, created := doJSON(t, http.MethodPost, server.URL+"/api/cards", tok, map[string]interface{}{
			"title":  title,
			"fields": map[string]string{},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return created["_id"].(string)
	}

	c1 := mkCard("C1")
	time.Sleep(2 * time.Millisecond)
	c2 := mkCard("C2")
	time.Sleep(2 * time.Millisecond)

	resp, _ := doJSON(t, http.MethodPut, server.URL+"/api/cards/"+c1, tok, map[string]string{"title": "C1 touched"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, list := doJSONList(t, server.URL+"/api/cards", tok)
	require.Len(t, list, 2)
	assert.Equal(t, c1, list[0]["_id"])
	assert.Equal(t, c2, list[1]["_id"])
}

func TestCards_Delete(t *testing.T) {
	server := newTestServer(t)
	tok := signup(t, server.URL, "Jane", "jane@example.com")

	resp, created := doJSON(t, http.MethodPost, server.URL+"/api/cards", tok, map[string]interface{}{
		"title":  "Doomed",
		"fields": map[string]string{},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["_id"].(string)

	resp, body := doJSON(t, http.MethodDelete, server.URL+"/api/cards/"+id, tok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/cards/"+id, tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body["message"])

	_, list := doJSONList(t, server.URL+"/api/cards", tok)
	assert.Empty(t, list)
}

func TestWebSocket_ReceivesOwnCardEvents(t *testing.T) {
	server := newTestServer(t)
	tok := signup(t, server.URL, "Jane", "jane@example.com")
	tokOther := signup(t, server.URL, "Bob", "bob@example.com")

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	// Browsers can't set headers on a WebSocket handshake, so the token
	// rides in the query string.
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws?token="+tok, nil)
	require.NoError(t, err)
	defer conn.Close()

	other, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws?token="+tokOther, nil)
	require.NoError(t, err)
	defer other.Close()

	time.Sleep(100 * time.Millisecond)

	resp, created := doJSON(t, http.MethodPost, server.URL+"/api/cards", tok, map[string]interface{}{
		"title":  "My Card",
		"fields": map[string]string{},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, "CARD_CREATED", event.Type)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, created["_id"], payload["_id"])

	// The other account's session stays quiet.
	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestWebSocket_RejectsMissingToken(t *testing.T) {
	server := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	server := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Route not found", body["message"])
}

func TestCORSPreflight(t *testing.T) {
	cfg := &config.Config{
		Port: "0", JWTSecret: testSecret, TokenTTL: time.Hour,
		Driver: config.DriverFile, DataDir: t.TempDir(),
		CORSOrigins: []string{"http://localhost:5173"},
	}
	fs, err := store.Open(cfg.DataDir)
	require.NoError(t, err)
	hub := socket.NewHub()
	go hub.Run()
	corsServer := httptest.NewServer(Setup(cfg, fs.Accounts(), fs.Cards(), hub))
	defer corsServer.Close()

	req, err := http.NewRequest(http.MethodOptions, corsServer.URL+"/api/cards", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}
