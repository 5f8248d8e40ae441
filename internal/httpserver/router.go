package httpserver

import (
	"context"
	"net/http"
	"time"

	"codeberg.org/mutker/hostctl/internal/action"
	"codeberg.org/mutker/hostctl/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Dispatcher executes named actions.
type Dispatcher interface {
	Dispatch(ctx context.Context, req action.Request) action.Result
}

type RouterDeps struct {
	Dispatcher     Dispatcher
	AllowedSubnets []string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// route binds a URL pattern to an action name. Path parameters and
// query values are both passed through as action params.
type route struct {
	pattern string
	action  string
}

var routes = []route{
	{"/status", "status"},
	{"/ping", "ping"},
	{"/info", "info"},
	{"/network", "network"},
	{"/disk", "disk"},
	{"/processes", "processes"},

	{"/setPowerPlan/{name}", "setPowerPlan"},
	{"/shutdown", "shutdown"},
	{"/restart", "restart"},
	{"/sleep", "sleep"},
	{"/lock", "lock"},
	{"/logout", "logout"},

	{"/kill/{pid}", "kill"},

	{"/brightness", "brightness.get"},
	{"/brightness/{level}", "brightness.set"},

	{"/media/playpause", "media.playpause"},
	{"/media/next", "media.next"},
	{"/media/prev", "media.prev"},
	{"/mouse/move/{x}/{y}", "mouse.move"},
	{"/mouse/click", "mouse.click"},
	{"/type", "type"},

	{"/volume/mute", "volume.mute"},
	{"/volume/up", "volume.up"},
	{"/volume/down", "volume.down"},
	{"/display_off", "display.off"},

	{"/screenshot", "screenshot"},
	{"/download", "download"},
	{"/wol", "wol"},

	{"/actions", "actions"},
}

func NewRouter(deps RouterDeps) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger.Zerolog())...)
	r.Use(middleware.Recoverer)

	if len(deps.AllowedSubnets) > 0 {
		allow, err := newCIDRAllowlist(deps.AllowedSubnets)
		if err != nil {
			return nil, err
		}
		r.Use(allow.middleware)
	}

	for _, rt := range routes {
		r.Get(rt.pattern, actionHandler(deps.Dispatcher, rt.action))
	}

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, r, action.Fail(action.KindNotFound, "Unknown endpoint: "+r.URL.Path))
	})

	return r, nil
}

func actionHandler(d Dispatcher, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := d.Dispatch(r.Context(), action.Request{
			Name:   name,
			Params: requestParams(r),
		})
		writeResult(w, r, res)
	}
}

// requestParams merges the query string with chi path parameters; path
// parameters win.
func requestParams(r *http.Request) map[string]string {
	params := make(map[string]string)

	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, k := range rctx.URLParams.Keys {
			if k == "*" {
				continue
			}
			params[k] = rctx.URLParams.Values[i]
		}
	}

	return params
}

func requestLogger(log zerolog.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		hlog.NewHandler(log),
		hlog.RemoteAddrHandler("remote"),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id := middleware.GetReqID(r.Context()); id != "" {
					hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
						return c.Str("request_id", id)
					})
				}
				next.ServeHTTP(w, r)
			})
		},
		hlog.AccessHandler(func(r *http.Request, status, size int, elapsed time.Duration) {
			hlog.FromRequest(r).Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("elapsed", elapsed).
				Msg("Request handled")
		}),
	}
}
