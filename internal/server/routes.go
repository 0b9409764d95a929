package server

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"lyricsmith/internal/logging"
	"lyricsmith/internal/services"
)

// route is one path with its per-method handlers.
type route struct {
	name      string
	pattern   string
	methods   map[string]Handler
	skipLimit bool
}

func (s *Server) routes() []route {
	return []route{
		{name: "health", pattern: "/health", skipLimit: true, methods: map[string]Handler{
			http.MethodGet: s.handleHealth,
		}},
		{name: "generate-song", pattern: "/generate-song", methods: map[string]Handler{
			http.MethodPost: withBody(s.handleGenerateSong),
			http.MethodGet:  s.handleGenerateSongStatus,
		}},
		{name: "revise", pattern: "/revise", methods: map[string]Handler{
			http.MethodPost: withBody(s.handleRevise),
			http.MethodGet:  s.handleListRevisions,
		}},
		{name: "suggest-music", pattern: "/suggest-music", methods: map[string]Handler{
			http.MethodPost: withBody(s.handleSuggestMusic),
			http.MethodGet:  s.handleSuggestMusicDocs,
		}},
		{name: "chat", pattern: "/chat", methods: map[string]Handler{
			http.MethodPost: withBody(s.handleChat),
		}},
		{name: "generate-voice", pattern: "/generate-voice", methods: map[string]Handler{
			http.MethodPost: withBody(s.handleGenerateVoice),
		}},
		{name: "preview-voice", pattern: "/preview-voice", methods: map[string]Handler{
			http.MethodPost: withBody(s.handlePreviewVoice),
		}},
		{name: "songs", pattern: "/songs/{id}", methods: map[string]Handler{
			http.MethodGet: s.handleGetSong,
		}},
	}
}

// dispatch selects the method handler. Unless the route is exempt, the
// limiter runs before method selection so 405 answers also count.
func (s *Server) dispatch(rt route) Handler {
	allowed := make([]string, 0, len(rt.methods)+1)
	for method := range rt.methods {
		allowed = append(allowed, method)
	}
	allowed = append(allowed, http.MethodOptions)
	slices.Sort(allowed)
	allow := strings.Join(allowed, ", ")

	selector := func(c *Context) error {
		h, ok := rt.methods[c.Request.Method]
		if !ok {
			c.Header().Set("Allow", allow)
			return services.NewError(services.KindValidation, codeMethodNotAllowed, "Method not allowed").
				WithStatus(http.StatusMethodNotAllowed)
		}
		return h(c)
	}
	if rt.skipLimit {
		return selector
	}
	return s.rateLimit(selector)
}

func notFound(c *Context) error {
	return services.NewError(services.KindNotFound, codeNotFound, "Not found").
		WithDetails(map[string]string{"path": c.Request.URL.Path})
}

// pipeline wraps h with the shared middleware stack.
func (s *Server) pipeline(h Handler) Handler {
	return Chain(h, s.logRequests, s.normalize, s.recoverPanics, s.cors)
}

// adapt turns a pipeline into an http.Handler, creating the Context.
func (s *Server) adapt(name string, h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		clientID := clientIdentifier(r)
		ctx := services.WithRequestID(r.Context(), requestID)
		ctx = services.WithClientID(ctx, clientID)
		r = r.WithContext(ctx)

		rw := newResponseWriter(w)
		rw.Header().Set("X-Request-ID", requestID)
		c := &Context{
			Writer:    rw,
			Request:   r,
			RequestID: requestID,
			ClientID:  clientID,
			Route:     name,
			start:     time.Now(),
			logger:    logging.WithContext(ctx, s.logger),
		}
		_ = h(c)
	})
}

func (s *Server) buildMux() *http.ServeMux {
	mux := http.NewServeMux()
	for _, rt := range s.routes() {
		mux.Handle(s.prefix+rt.pattern, s.adapt(rt.name, s.pipeline(s.dispatch(rt))))
	}
	fallback := notFound
	if s.prefix != "" {
		mux.Handle(s.prefix+"/", s.adapt("not-found", s.pipeline(s.rateLimit(notFound))))
	} else {
		fallback = s.rateLimit(notFound)
	}
	mux.Handle("/", s.adapt("not-found", s.pipeline(fallback)))
	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}
	return mux
}
