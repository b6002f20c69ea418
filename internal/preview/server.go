package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tidwall/gjson"

	"github.com/vango-dev/velement/pkg/element"
	"github.com/vango-dev/velement/pkg/host"
	"github.com/vango-dev/velement/pkg/middleware"
	"github.com/vango-dev/velement/pkg/prop"
)

const (
	// maxBodySize bounds property update bodies.
	maxBodySize = 1 << 20

	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second

	// liveBuffer is the number of pending markup frames per live client.
	// Older frames are dropped when a client falls behind.
	liveBuffer = 16
)

// Server serves a mounted Page over HTTP.
type Server struct {
	page     *Page
	live     bool
	upgrader websocket.Upgrader
	router   chi.Router
}

// NewServer creates the preview HTTP handler for p.
func NewServer(p *Page) *Server {
	s := &Server{
		page: p,
		live: p.manifest.LiveEnabled(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(p.httpMetrics)
	r.Use(middleware.OpenTelemetry(
		middleware.WithTracerName("velement/preview"),
		middleware.WithRequestFilter(func(r *http.Request) bool { return r.URL.Path != "/metrics" }),
	))

	r.Get("/", s.handlePage)
	r.Get("/metrics", promhttp.HandlerFor(p.Gatherer(), promhttp.HandlerOpts{}).ServeHTTP)
	r.Route("/components/{id}", func(r chi.Router) {
		r.Get("/", s.handleComponent)
		r.Post("/props", s.handleProps)
		r.Post("/events/{type}", s.handleEvent)
		if s.live {
			r.Get("/live", s.handleLive)
		}
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.page.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()))
	})
}

// onLoop runs fn on the page loop and waits for it.
func (s *Server) onLoop(ctx context.Context, fn func()) error {
	return s.page.loop.Call(ctx, fn)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var out string
	if err := s.onLoop(r.Context(), func() { out = s.page.HTML() }); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, out)
}

// withElement runs fn on the loop with the element named by the id URL
// parameter. It writes 404 when there is none. fn is skipped when the
// request ends before the loop reaches it.
func (s *Server) withElement(w http.ResponseWriter, r *http.Request, fn func(el *element.Element)) bool {
	id := chi.URLParam(r, "id")
	ctx := r.Context()
	found := false
	err := s.onLoop(ctx, func() {
		if ctx.Err() != nil {
			return
		}
		el, ok := s.page.Element(id)
		if !ok {
			return
		}
		found = true
		fn(el)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return false
	}
	if !found {
		http.Error(w, "unknown component "+id, http.StatusNotFound)
		return false
	}
	return true
}

func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request) {
	var out string
	if !s.withElement(w, r, func(el *element.Element) { out = markup(el) }) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, out)
}

// handleProps applies a JSON object of property values with SetMultiple
// and responds with the resulting properties.
func (s *Server) handleProps(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	parsed := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !parsed.IsObject() {
		http.Error(w, "body must be a JSON object", http.StatusBadRequest)
		return
	}
	values, _ := parsed.Value().(map[string]any)

	var (
		props   map[string]any
		unknown []string
	)
	if !s.withElement(w, r, func(el *element.Element) {
		for key := range values {
			if !el.PropertyExists(key) {
				unknown = append(unknown, key)
			}
		}
		el.SetMultiple(values)
		props = el.Props()
	}) {
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"props":   props,
		"ignored": unknown,
	})
}

// handleEvent dispatches an event at the first node matching the selector
// query parameter, or at the host node.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	selector := r.URL.Query().Get("selector")

	var (
		out     string
		matched = true
	)
	if !s.withElement(w, r, func(el *element.Element) {
		target := el.Host()
		if selector != "" {
			target = el.Query(selector).First()
		}
		if target == nil {
			matched = false
			return
		}
		target.DispatchEvent(host.NewEvent(typ, nil))
		s.page.loop.Flush()
		out = markup(el)
	}) {
		return
	}
	if !matched {
		http.Error(w, "no node matches "+selector, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, out)
}

// handleLive streams the element's markup after every render. The render
// hook is removed on the loop once the request context ends.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	frames := make(chan string, liveBuffer)
	if !s.withElement(w, r, func(el *element.Element) {
		frames <- markup(el)
		remove := el.OnRender(func(el *element.Element) {
			select {
			case frames <- markup(el):
			default:
			}
		})
		context.AfterFunc(ctx, func() { s.page.loop.Dispatch(remove) })
	}) {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.page.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case frame := <-frames:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// markup returns the element's rendered content: the shadow root's markup
// for encapsulated elements, otherwise the host's outer HTML.
func markup(el *element.Element) string {
	if el.Root() != host.Root(el.Host()) {
		return el.Root().InnerHTML()
	}
	return el.Host().OuterHTML()
}

// writeJSON encodes v before writing the header so an encoding failure
// becomes a 500. NaN and infinite numbers are written as null.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(jsonSafe(v)); err != nil {
		s.page.logger.Error("encode response", "error", err)
		http.Error(w, "encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// jsonSafe replaces non-finite floats, which encoding/json rejects.
func jsonSafe(v any) any {
	switch v := v.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return v
	case prop.Props:
		return jsonSafe(map[string]any(v))
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = jsonSafe(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = jsonSafe(e)
		}
		return out
	default:
		return v
	}
}
