package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/signopsis/internal/fingerspell"
	"codeberg.org/snonux/signopsis/internal/testutil"
)

type panicSpeller struct{}

func (panicSpeller) Spell(string) []fingerspell.LetterUnit {
	panic("alphabet missing")
}

func post(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestTranscribe(t *testing.T) {
	handler := New(nil).Handler()

	rec := post(t, handler, `{"text":"Hi a1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var resp transcribeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, fingerspell.NewLocalResolver(nil).Spell("Hi a1"), resp.Result)

	var raw map[string][]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw["result"], 5)
	assert.Equal(t, map[string]string{
		"char":      "h",
		"type":      "letter",
		"imagePath": "/images/asl_alphabet/h_test.jpg",
	}, raw["result"][0])
	assert.Equal(t, "space", raw["result"][2]["type"])
	assert.Equal(t, "unsupported", raw["result"][4]["type"])
}

func TestTranscribe_BadRequest(t *testing.T) {
	handler := New(nil).Handler()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing text", `{}`},
		{"empty text", `{"text":""}`},
		{"null text", `{"text":null}`},
		{"not json", `text=hello`},
		{"wrong type", `{"text":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, handler, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Text is required"}`, rec.Body.String())
		})
	}
}

func TestTranscribe_BodyTooLarge(t *testing.T) {
	handler := New(&Config{MaxBodyBytes: 16}).Handler()

	rec := post(t, handler, `{"text":"`+strings.Repeat("a", 64)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribe_Panic(t *testing.T) {
	handler := New(&Config{Speller: panicSpeller{}}).Handler()

	rec := post(t, handler, `{"text":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error","details":"alphabet missing"}`, rec.Body.String())
}

func TestTranscribe_MethodNotAllowed(t *testing.T) {
	handler := New(nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/transcribe", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestPlaceholder(t *testing.T) {
	handler := New(nil).Handler()

	tests := []struct {
		name   string
		query  string
		want   []string
		reject []string
	}{
		{
			name:  "space tile",
			query: "height=200&width=200&text=Space",
			want:  []string{`width="200"`, `height="200"`, ">Space</text>"},
		},
		{
			name:   "escaped text",
			query:  "text=%3C",
			want:   []string{"&lt;</text>"},
			reject: []string{"><</text>"},
		},
		{
			name:  "bad sizes default",
			query: "height=-4&width=abc&text=1",
			want:  []string{`width="200"`, `height="200"`},
		},
		{
			name:  "clamped size",
			query: "height=99999&width=100&text=1",
			want:  []string{`width="100"`, `height="2000"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/placeholder.svg?"+tt.query, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
			for _, want := range tt.want {
				assert.Contains(t, rec.Body.String(), want)
			}
			for _, reject := range tt.reject {
				assert.NotContains(t, rec.Body.String(), reject)
			}
		})
	}
}

func TestImages(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateAlphabetImages(t, dir, fingerspell.DefaultSuffix)

	handler := New(&Config{ImageDir: dir}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/images/asl_alphabet/a_test.jpg", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, rec.Body.Bytes())

	req = httptest.NewRequest(http.MethodGet, "/images/asl_alphabet/missing.jpg", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImages_NotConfigured(t *testing.T) {
	handler := New(nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/images/asl_alphabet/a_test.jpg", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	handler := New(nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServe_RemoteResolverRoundTrip(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(nil).Serve(ctx, listener)
	}()

	remote, err := fingerspell.NewRemoteResolver(&fingerspell.RemoteConfig{
		URL:     "http://" + listener.Addr().String() + "/api/transcribe",
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	units, err := remote.Resolve(context.Background(), "Go fly")
	require.NoError(t, err)
	assert.Equal(t, fingerspell.NewLocalResolver(nil).Spell("Go fly"), units)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get("http://" + listener.Addr().String() + "/healthz")
	assert.Error(t, err)
}

func TestListenAndServe_BadAddress(t *testing.T) {
	err := New(&Config{Addr: "256.0.0.1:bogus"}).ListenAndServe(context.Background())
	require.Error(t, err)
	testutil.AssertContains(t, err.Error(), "failed to listen")
}

func TestLoggingKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(New(nil).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/transcribe", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Text is required")
}
