package httpapi

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/Sandip-2006/diigital-village-hub/internal/registry"
	"github.com/Sandip-2006/diigital-village-hub/internal/repository"
	"github.com/Sandip-2006/diigital-village-hub/internal/service"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
	"github.com/Sandip-2006/diigital-village-hub/internal/testutil"
)

var june15 = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return june15 }

type testServer struct {
	*httptest.Server
	visitors *store.Store
	storage  *repository.SQLiteStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	reg := registry.Default()
	resolver := geo.NewResolver(geo.DefaultRadiusKm, geo.PolicyNearest)
	storage := repository.NewSQLiteStorage(testutil.NewTestDB(t))
	prefs := service.NewPreferenceService(storage, reg,
		locate.NewDetector(resolver, reg.All(), time.Second),
		service.PreferenceConfig{StoreOptions: []store.Option{store.WithClock(fixedClock)}})
	t.Cleanup(prefs.Close)

	visitors := store.New(reg, store.WithRand(rand.New(rand.NewPCG(1, 2))))
	srv := NewServer(Deps{
		Villages:    service.NewVillageService(reg, resolver),
		Preferences: prefs,
		Visitors:    visitors,
		CORSOrigins: []string{"https://portal.example"},
		SessionTTL:  24 * time.Hour,
		Now:         fixedClock,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testServer{Server: ts, visitors: visitors, storage: storage}
}

// do sends a request, attaching cookie when non-nil.
func (ts *testServer) do(t *testing.T, method, path, body string, cookie *http.Cookie) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != "" {
		req, err = http.NewRequest(method, ts.URL+path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, ts.URL+path, nil)
	}
	require.NoError(t, err)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookie)
	return nil
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestVillages_ListAndLocalize(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/villages?lang=gu", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	villages := decode[[]map[string]any](t, resp)
	require.Len(t, villages, 4)
	assert.Equal(t, "palanpur", villages[0]["id"])
	assert.Equal(t, "પાલનપુર", villages[0]["display_name"])

	resp = ts.do(t, http.MethodGet, "/api/v1/villages/vadgam?lang=hi", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "वडगाम", decode[map[string]any](t, resp)["display_name"])

	resp = ts.do(t, http.MethodGet, "/api/v1/villages/surat", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, float64(404), decode[map[string]any](t, resp)["code"])

	resp = ts.do(t, http.MethodGet, "/api/v1/villages?lang=fr", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLocate(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/locate?lat=24.1892&lng=72.7621", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, true, body["matched"])
	assert.Equal(t, "danta", body["village"].(map[string]any)["id"])
	assert.InDelta(t, 0, body["distance_km"], 1e-9)

	resp = ts.do(t, http.MethodGet, "/api/v1/locate?lat=23.0225&lng=72.5714", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode[map[string]any](t, resp)
	assert.Equal(t, false, body["matched"])
	assert.Nil(t, body["village"])
	assert.Nil(t, body["distance_km"])

	for _, q := range []string{"lat=24", "lat=abc&lng=72", "lat=95&lng=72"} {
		resp = ts.do(t, http.MethodGet, "/api/v1/locate?"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestThemes(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/themes", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	themes := decode[[]map[string]any](t, resp)
	require.Len(t, themes, 5)
	assert.Equal(t, "default", themes[0]["id"])

	resp = ts.do(t, http.MethodGet, "/api/v1/themes/current?date=2024-11-01", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cur := decode[map[string]any](t, resp)
	assert.Equal(t, "diwali", cur["id"])
	assert.Equal(t, true, cur["active"])

	resp = ts.do(t, http.MethodGet, "/api/v1/themes/current", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "default", decode[map[string]any](t, resp)["id"])

	resp = ts.do(t, http.MethodGet, "/api/v1/themes/current?date=11/01/2024", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreferences_SessionRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/preferences", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)
	prefs := decode[map[string]any](t, resp)
	assert.Equal(t, "en", prefs["language"])
	assert.Equal(t, "palanpur", prefs["selected_village"].(map[string]any)["id"])

	resp = ts.do(t, http.MethodPatch, "/api/v1/preferences",
		`{"language":"hi","village_id":"danta","linked_accounts":{"google":true}}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Cookies(), "an existing session is reused")
	prefs = decode[map[string]any](t, resp)
	assert.Equal(t, "hi", prefs["language"])
	assert.Equal(t, "दांता", prefs["selected_village"].(map[string]any)["display_name"])
	assert.Equal(t, "ग्रामवासी", prefs["role_label"])

	resp = ts.do(t, http.MethodGet, "/api/v1/preferences", "", cookie)
	prefs = decode[map[string]any](t, resp)
	assert.Equal(t, "hi", prefs["language"])
	assert.Equal(t, true, prefs["linked_accounts"].(map[string]any)["google"])

	// Another client gets its own defaults.
	resp = ts.do(t, http.MethodGet, "/api/v1/preferences", "", nil)
	assert.Equal(t, "en", decode[map[string]any](t, resp)["language"])

	resp = ts.do(t, http.MethodDelete, "/api/v1/preferences", "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "en", decode[map[string]any](t, resp)["language"])
}

func TestPreferences_PatchRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)
	cookie := sessionCookie(t, ts.do(t, http.MethodGet, "/api/v1/preferences", "", nil))

	for name, body := range map[string]string{
		"unknown language": `{"language":"fr"}`,
		"unknown village":  `{"village_id":"surat"}`,
		"unknown field":    `{"colour":"red"}`,
		"malformed":        `{"language":`,
		"empty":            ``,
	} {
		t.Run(name, func(t *testing.T) {
			resp := ts.do(t, http.MethodPatch, "/api/v1/preferences", body, cookie)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestPreferences_MalformedCookieIsReplaced(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.do(t, http.MethodGet, "/api/v1/preferences", "", &http.Cookie{Name: SessionCookie, Value: "not a uuid"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, "not a uuid", sessionCookie(t, resp).Value)
}

func TestDetect(t *testing.T) {
	ts := newTestServer(t)
	cookie := sessionCookie(t, ts.do(t, http.MethodGet, "/api/v1/preferences", "", nil))

	resp := ts.do(t, http.MethodPost, "/api/v1/preferences/detect", `{"lat":24.5125,"lng":72.0271}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, true, body["matched"])
	assert.Equal(t, "dhanera", body["village"].(map[string]any)["id"])
	prefs := body["preferences"].(map[string]any)
	assert.Equal(t, "dhanera", prefs["selected_village"].(map[string]any)["id"])
	assert.Equal(t, "resolved", prefs["last_detection"].(map[string]any)["state"])

	resp = ts.do(t, http.MethodPost, "/api/v1/preferences/detect", `{"error":"permission_denied"}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode[map[string]any](t, resp)
	assert.Equal(t, false, body["matched"])
	assert.Equal(t, locate.ErrPermissionDenied.Error(), body["error"])
	prefs = body["preferences"].(map[string]any)
	assert.Equal(t, "dhanera", prefs["selected_village"].(map[string]any)["id"], "failure keeps the selection")
	assert.Equal(t, "failed", prefs["last_detection"].(map[string]any)["state"])

	for _, bad := range []string{`{"error":"gps_on_fire"}`, `{"lat":24}`, `{}`} {
		resp = ts.do(t, http.MethodPost, "/api/v1/preferences/detect", bad, cookie)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, bad)
	}
}

func TestVisitors(t *testing.T) {
	ts := newTestServer(t)
	want := ts.visitors.Snapshot().LiveVisitors

	resp := ts.do(t, http.MethodGet, "/api/v1/visitors", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, want, decode[map[string]int](t, resp)["live_visitors"])

	require.NoError(t, ts.visitors.IncrementVisitors(3))
	resp = ts.do(t, http.MethodGet, "/api/v1/visitors", "", nil)
	assert.Equal(t, want+3, decode[map[string]int](t, resp)["live_visitors"])
}

func TestCORSAndErrors(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/preferences", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://portal.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "https://portal.example", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	resp = ts.do(t, http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodPut, "/api/v1/preferences", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
