package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"lyricsmith/internal/api"
	"lyricsmith/internal/config"
	"lyricsmith/internal/ratelimit"
	"lyricsmith/internal/server"
	"lyricsmith/internal/services/tts"
	"lyricsmith/internal/songwriting"
	"lyricsmith/internal/store"
	"lyricsmith/internal/testsupport"
)

type harnessOptions struct {
	config       []testsupport.ConfigOption
	writer       songwriting.Writer
	limiterStore ratelimit.Store
	voice        bool
	failOpen     *bool
}

type harnessOption func(*harnessOptions)

func withConfig(opts ...testsupport.ConfigOption) harnessOption {
	return func(h *harnessOptions) { h.config = append(h.config, opts...) }
}

func withWriter(w songwriting.Writer) harnessOption {
	return func(h *harnessOptions) { h.writer = w }
}

func withLimiterStore(st ratelimit.Store) harnessOption {
	return func(h *harnessOptions) { h.limiterStore = st }
}

func withVoice() harnessOption {
	return func(h *harnessOptions) { h.voice = true }
}

func withFailOpen(open bool) harnessOption {
	return func(h *harnessOptions) { h.failOpen = &open }
}

type harness struct {
	t        *testing.T
	cfg      *config.Config
	store    *store.Store
	handler  http.Handler
	ttsCalls atomic.Int32
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	var o harnessOptions
	for _, opt := range opts {
		opt(&o)
	}
	h := &harness{t: t}

	if o.voice {
		speech := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ttsCalls.Add(1)
			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = w.Write([]byte("ID3-fake-mp3"))
		}))
		t.Cleanup(speech.Close)
		o.config = append(o.config, testsupport.WithVoice("test-key", speech.URL))
	}

	h.cfg = testsupport.NewConfig(t, o.config...)
	if o.failOpen != nil {
		h.cfg.RateLimit.FailOpen = *o.failOpen
	}
	h.store = testsupport.MustOpenStore(t, h.cfg)

	writer := o.writer
	if writer == nil {
		writer = songwriting.NewMockWriter()
	}
	limiterStore := o.limiterStore
	if limiterStore == nil {
		limiterStore = ratelimit.NewMemoryStore()
	}
	limiter := ratelimit.New(limiterStore)

	voiceClient := tts.NewClient(tts.Config{
		Enabled: h.cfg.Voice.Enabled,
		APIKey:  h.cfg.Voice.APIKey,
		BaseURL: h.cfg.Voice.BaseURL,
	}, tts.WithRetry(1, 0))

	svc := api.NewSongService(api.Options{
		Store:  h.store,
		Writer: writer,
		Voice:  voiceClient,
		Preview: api.PreviewSettings{
			DefaultSeconds: h.cfg.Voice.PreviewDefaultSeconds,
			MaxSeconds:     h.cfg.Voice.PreviewMaxSeconds,
			Limiter:        limiter,
			Policy: ratelimit.Policy{
				Name:      "preview",
				Requests:  h.cfg.Voice.PreviewRateLimitRequests,
				Window:    h.cfg.PreviewRateLimitWindow(),
				Recording: ratelimit.RecordAlways,
			},
			FailOpen: h.cfg.RateLimit.FailOpen,
		},
		Provider: api.ProviderInfo{LLMProvider: "mock", LLMConfigured: true, APIPrefix: h.cfg.Server.APIPrefix},
	})
	require.NotNil(t, svc)

	srv, err := server.New(server.Deps{Config: h.cfg, Service: svc, Limiter: limiter})
	require.NoError(t, err)
	h.handler = srv.Handler()
	return h
}

func (h *harness) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		payload, err := json.Marshal(v)
		require.NoError(h.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details json.RawMessage `json:"details"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	env := decode(t, rec)
	require.True(t, env.Success, "body: %s", rec.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}
