// ABOUTME: Tests for the generation client against a fake HTTP endpoint.
// ABOUTME: Covers retry timing, auth short-circuit, request shape and sources.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	mu    sync.Mutex
	waits []time.Duration
	c     chan time.Time
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{c: make(chan time.Time, 1)}
}

func (f *fakeTimer) Start(d time.Duration) {
	f.mu.Lock()
	f.waits = append(f.waits, d)
	f.mu.Unlock()
	f.c <- time.Time{}
}

func (f *fakeTimer) Stop() {}

func (f *fakeTimer) C() <-chan time.Time { return f.c }

func (f *fakeTimer) Waits() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.waits...)
}

const okBody = `{"candidates":[{"content":{"parts":[{"text":"Write about your morning."}]}}]}`

// scripted serves the given status/body pairs in order, repeating the last.
func scripted(t *testing.T, steps ...[2]any) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&calls, 1)) - 1
		if n >= len(steps) {
			n = len(steps) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(steps[n][0].(int))
		_, _ = io.WriteString(w, steps[n][1].(string))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestGenerator(srv *httptest.Server, timer *fakeTimer) *Generator {
	return New(Config{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model"},
		WithHTTPClient(srv.Client()), WithTimer(timer))
}

func TestGenerateRetriesTransientFailures(t *testing.T) {
	srv, calls := scripted(t,
		[2]any{http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`},
		[2]any{http.StatusOK, `{"candidates":[]}`},
		[2]any{http.StatusOK, okBody},
	)
	timer := newFakeTimer()

	res, err := newTestGenerator(srv, timer).Generate(context.Background(), Request{Prompt: "prompt me"})
	require.NoError(t, err)

	assert.Equal(t, "Write about your morning.", res.Text)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, timer.Waits())
}

func TestGenerateAuthFailureIsNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv, calls := scripted(t, [2]any{status, `{"error":{"message":"API key not valid"}}`})
		timer := newFakeTimer()

		_, err := newTestGenerator(srv, timer).Generate(context.Background(), Request{Prompt: "hi"})

		var aiErr *Error
		require.ErrorAs(t, err, &aiErr)
		assert.True(t, aiErr.IsAuth())
		assert.Equal(t, status, aiErr.Status)
		assert.Equal(t, "API key not valid", aiErr.Message)
		assert.Equal(t, int32(1), atomic.LoadInt32(calls))
		assert.Empty(t, timer.Waits())
	}
}

func TestGenerateMissingKey(t *testing.T) {
	srv, calls := scripted(t, [2]any{http.StatusOK, okBody})

	g := New(Config{BaseURL: srv.URL}, WithHTTPClient(srv.Client()), WithTimer(newFakeTimer()))
	assert.False(t, g.Configured())

	_, err := g.Generate(context.Background(), Request{Prompt: "hi"})
	var aiErr *Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, KindAuth, aiErr.Kind)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestGenerateExhaustion(t *testing.T) {
	srv, calls := scripted(t, [2]any{http.StatusInternalServerError, "upstream exploded"})
	timer := newFakeTimer()

	_, err := newTestGenerator(srv, timer).Generate(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "generation failed after 3 attempts")
	assert.Contains(t, err.Error(), "upstream exploded")
	var aiErr *Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, KindHTTP, aiErr.Kind)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Len(t, timer.Waits(), 2)
}

func TestGenerateClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusBadRequest, KindBadRequest},
		{http.StatusTooManyRequests, KindRateLimit},
		{http.StatusBadGateway, KindHTTP},
	}
	for _, tt := range tests {
		e := classifyStatus(tt.status, []byte("nope"))
		assert.Equal(t, tt.kind, e.Kind)
		assert.True(t, e.Retryable())
	}
}

func TestGenerateRequestShape(t *testing.T) {
	var got map[string]any
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	g := New(Config{
		APIKey: "k", BaseURL: srv.URL + "/", Model: "m",
		Temperature: 0.4, MaxOutputTokens: 256,
	}, WithHTTPClient(srv.Client()))

	_, err := g.Generate(context.Background(), Request{Prompt: "hello", Grounding: true})
	require.NoError(t, err)

	assert.Equal(t, "k", gotKey)
	assert.Equal(t, "/v1beta/models/m:generateContent", gotPath)

	contents := got["contents"].([]any)
	parts := contents[0].(map[string]any)["parts"].([]any)
	assert.Equal(t, "hello", parts[0].(map[string]any)["text"])

	system := got["systemInstruction"].(map[string]any)["parts"].([]any)
	assert.Equal(t, DefaultPersona, system[0].(map[string]any)["text"])

	cfg := got["generationConfig"].(map[string]any)
	assert.Equal(t, 0.4, cfg["temperature"])
	assert.Equal(t, float64(256), cfg["maxOutputTokens"])

	tools := got["tools"].([]any)
	assert.Contains(t, tools[0].(map[string]any), "google_search")
}

func TestGenerateOmitsToolsWithoutGrounding(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, okBody)
	}))
	defer srv.Close()

	g := New(Config{APIKey: "k", BaseURL: srv.URL}, WithHTTPClient(srv.Client()))
	_, err := g.Generate(context.Background(), Request{Prompt: "hello", SystemInstruction: "Be brief."})
	require.NoError(t, err)

	assert.NotContains(t, got, "tools")
	system := got["systemInstruction"].(map[string]any)["parts"].([]any)
	assert.Equal(t, "Be brief.", system[0].(map[string]any)["text"])
}

func TestGenerateExtractsSources(t *testing.T) {
	body := `{"candidates":[{"content":{"parts":[{"text":"Grounded."}]},
		"groundingMetadata":{"groundingAttributions":[
			{"web":{"uri":"https://a.example","title":"A"}},
			{"web":{"uri":"https://b.example"}},
			{"web":{"title":"C only"}},
			{}
		]}}]}`
	srv, _ := scripted(t, [2]any{http.StatusOK, body})

	res, err := newTestGenerator(srv, newFakeTimer()).Generate(context.Background(), Request{Prompt: "q", Grounding: true})
	require.NoError(t, err)
	assert.Equal(t, []Source{{URI: "https://a.example", Title: "A"}}, res.Sources)
}

func TestExtractSourcesFallsBackToChunks(t *testing.T) {
	md := &groundingMetadata{GroundingChunks: []groundingRef{
		{Web: &webRef{URI: "https://c.example", Title: "C"}},
	}}
	assert.Equal(t, []Source{{URI: "https://c.example", Title: "C"}}, extractSources(md))
	assert.Nil(t, extractSources(nil))
}

func TestGenerateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	timer := newFakeTimer()
	g := New(Config{APIKey: "k", BaseURL: url}, WithTimer(timer))

	_, err := g.Generate(context.Background(), Request{Prompt: "hi"})
	var aiErr *Error
	require.True(t, errors.As(err, &aiErr))
	assert.Equal(t, KindTransport, aiErr.Kind)
	assert.Len(t, timer.Waits(), 2)
}
