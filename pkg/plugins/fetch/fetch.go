// Package fetch issues HTTP requests on behalf of an element.
//
// A new request to a URL cancels the request still in flight for that URL,
// and unmount cancels every request. Callbacks run as tasks on the
// element's loop and never run for a cancelled request.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/vango-dev/velement/pkg/element"
)

// Key is the capability namespace of the fetch plugin.
var Key = element.NewKey[*Fetch]("fetch")

// DefaultTimeout bounds requests made with the default client.
const DefaultTimeout = 30 * time.Second

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// IsJSON reports whether the response declares a JSON content type.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.Header.Get("Content-Type"), "json")
}

// JSON returns the value at a gjson path of the body, e.g. "items.#.name".
func (r *Response) JSON(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Callback receives the outcome of a request.
type Callback func(resp *Response, err error)

// Option configures the plugin.
type Option func(*Fetch)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetch) {
		f.client = c
	}
}

// WithBaseURL resolves relative request URLs against base.
func WithBaseURL(base string) Option {
	return func(f *Fetch) {
		f.base = base
	}
}

type request struct {
	key    string
	req    *http.Request
	cb     Callback
	cancel context.CancelFunc

	// cancelled is only touched on the loop goroutine.
	cancelled bool
}

// Fetch manages the requests of one element.
type Fetch struct {
	el     *element.Element
	client *http.Client
	base   string

	inflight map[string]*request
	queued   []*request
	mounted  bool
}

// New returns the fetch plugin.
func New(opts ...Option) element.Plugin {
	return func(el *element.Element, _ element.Config) element.Hooks {
		f := &Fetch{
			el:       el,
			client:   &http.Client{Timeout: DefaultTimeout},
			inflight: make(map[string]*request),
		}
		for _, opt := range opts {
			opt(f)
		}
		if err := element.Provide(el, Key, f); err != nil {
			el.Logger().Error("fetch plugin not installed", "error", err)
			return element.Hooks{}
		}
		return element.Hooks{
			Mount:   f.mount,
			Unmount: f.unmount,
		}
	}
}

// From returns the fetch capability of el.
func From(el *element.Element) (*Fetch, bool) {
	return element.Capability(el, Key)
}

// Get issues a GET request.
func (f *Fetch) Get(rawURL string, cb Callback) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return f.Do(req, cb)
}

// Do issues req. Requests made before mount start at mount.
func (f *Fetch) Do(req *http.Request, cb Callback) error {
	if f.base != "" && !req.URL.IsAbs() {
		u, err := f.resolve(req.URL)
		if err != nil {
			return err
		}
		req.URL = u
		req.Host = u.Host
	}

	r := &request{key: req.URL.String(), req: req, cb: cb}
	f.supersede(r.key)
	if !f.mounted {
		f.queued = append(f.queued, r)
		return nil
	}
	f.start(r)
	return nil
}

// InFlight returns the number of started, unfinished requests.
func (f *Fetch) InFlight() int {
	return len(f.inflight)
}

// Cancel cancels the request for a URL. Relative URLs are resolved against
// the base URL first. It reports whether one was pending.
func (f *Fetch) Cancel(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u, err = f.resolve(u); err != nil {
		return false
	}
	return f.supersede(u.String())
}

func (f *Fetch) resolve(u *url.URL) (*url.URL, error) {
	if f.base == "" || u.IsAbs() {
		return u, nil
	}
	base, err := url.Parse(f.base)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(u), nil
}

func (f *Fetch) supersede(key string) bool {
	found := false
	if prev, ok := f.inflight[key]; ok {
		prev.cancelled = true
		prev.cancel()
		delete(f.inflight, key)
		found = true
	}
	kept := f.queued[:0]
	for _, q := range f.queued {
		if q.key == key {
			found = true
			continue
		}
		kept = append(kept, q)
	}
	f.queued = kept
	return found
}

func (f *Fetch) start(r *request) {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	f.inflight[r.key] = r

	req := r.req.WithContext(ctx)
	lp := f.el.Loop()
	go func() {
		defer cancel()
		resp, err := f.roundTrip(req)
		lp.Dispatch(func() {
			if r.cancelled {
				return
			}
			if f.inflight[r.key] == r {
				delete(f.inflight, r.key)
			}
			r.cb(resp, err)
		})
	}()
}

func (f *Fetch) roundTrip(req *http.Request) (*Response, error) {
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		URL:        req.URL.String(),
	}, nil
}

func (f *Fetch) mount() {
	f.mounted = true
	queued := f.queued
	f.queued = nil
	for _, r := range queued {
		f.start(r)
	}
}

func (f *Fetch) unmount() {
	f.mounted = false
	for key, r := range f.inflight {
		r.cancelled = true
		r.cancel()
		delete(f.inflight, key)
	}
	f.queued = nil
}
