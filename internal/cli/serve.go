package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/keywheel/pkg/buildinfo"
	kerrors "github.com/matzehuels/keywheel/pkg/errors"
	"github.com/matzehuels/keywheel/pkg/observability"
	"github.com/matzehuels/keywheel/pkg/pipeline"
	"github.com/matzehuels/keywheel/pkg/radial"
	"github.com/matzehuels/keywheel/pkg/related"
	"github.com/matzehuels/keywheel/pkg/theory"
)

const (
	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command, which runs the preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve related keys, layouts and frames over HTTP",
		Long: `Serve related keys, layouts and frames over HTTP.

Routes:
  GET /keys                          standard roots
  GET /keys/{key}/related            related keys with scale degrees
  GET /keys/{key}/layout?tick=N      one frame as JSON
  GET /keys/{key}/frame.{format}     one frame as svg, dot, json or txt
  GET /preview?tick=N                every standard root at one tick
  GET /version                       build information

Keys with a sharp are escaped in paths: /keys/F%23m/related.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default: config serve.addr)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	runner := c.newRunner()
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.router(runner),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		c.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// =============================================================================
// Router
// =============================================================================

type server struct {
	runner *pipeline.Runner
	cli    *CLI
	logger *log.Logger
}

// router builds the HTTP handler. It is separate from runServe so tests can
// drive it with httptest.
func (c *CLI) router(runner *pipeline.Runner) http.Handler {
	s := &server{runner: runner, cli: c, logger: c.Logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/keys", s.handleKeys)
	r.Route("/keys/{key}", func(r chi.Router) {
		r.Get("/related", s.handleRelated)
		r.Get("/layout", s.handleLayout)
		r.Get("/frame.{format}", s.handleFrame)
	})
	r.Get("/preview", s.handlePreview)
	r.Get("/version", s.handleVersion)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, kerrors.New(kerrors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	return r
}

// requestID tags each request with an X-Request-ID, keeping one the client
// sent.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		observability.Server().OnRequest(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"id", w.Header().Get(requestIDHeader))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type keyInfo struct {
	Key  string `json:"key"`
	Mode string `json:"mode"`
}

type stepInfo struct {
	Degree  int    `json:"degree"`
	Numeral string `json:"numeral"`
	keyInfo
}

type relatedResponse struct {
	keyInfo
	Related []stepInfo `json:"related"`
}

func newKeyInfo(k theory.Key) keyInfo {
	return keyInfo{Key: k.Spelling(), Mode: k.Mode.String()}
}

func (s *server) handleKeys(w http.ResponseWriter, r *http.Request) {
	roots := theory.StandardRoots()
	out := make([]keyInfo, len(roots))
	for i, k := range roots {
		out[i] = newKeyInfo(k)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRelated(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	steps, err := related.Steps(key)
	if err != nil {
		writeError(w, kerrors.Wrap(kerrors.ErrCodeAccidentalRange, err, "%s has no related keys", key))
		return
	}
	resp := relatedResponse{keyInfo: newKeyInfo(key), Related: make([]stepInfo, len(steps))}
	for i, st := range steps {
		resp.Related[i] = stepInfo{Degree: st.Degree, Numeral: st.Numeral(), keyInfo: newKeyInfo(st.Key)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.serveFrame(w, r, pipeline.FormatJSON)
}

var frameContentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatTXT:  "text/plain; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	s.serveFrame(w, r, format)
}

func (s *server) serveFrame(w http.ResponseWriter, r *http.Request, format string) {
	key, err := keyParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tick, err := tickParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cfg := s.cli.Config
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Root:     key.Spelling(),
		Tick:     tick,
		Geometry: cfg.Radial(),
		Width:    cfg.Canvas.Width,
		Height:   cfg.Canvas.Height,
		Formats:  []string{format},
		Renderer: r.URL.Query().Get("renderer"),
		Theme:    cfg.SinkTheme(),
		Logger:   s.logger,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", frameContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *server) handlePreview(w http.ResponseWriter, r *http.Request) {
	tick, err := tickParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg := s.cli.Config.Radial()
	t := cfg.SaturationTick()
	if tick != pipeline.TickSaturated {
		t = uint(tick)
	}

	frames, err := radial.Preview(r.Context(), theory.StandardRoots(), t, cfg, radial.WithLogger(s.logger))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tick": t, "frames": frames})
}

func (s *server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Request and Response Helpers
// =============================================================================

// keyParam parses the {key} path segment. Sharps arrive escaped as %23.
func keyParam(r *http.Request) (theory.Key, error) {
	raw := chi.URLParam(r, "key")
	text, err := url.PathUnescape(raw)
	if err != nil {
		return theory.Key{}, kerrors.Wrap(kerrors.ErrCodeInvalidKey, err, "invalid key %q", raw)
	}
	return theory.ParseKey(text)
}

// tickParam reads ?tick=, defaulting to the saturated frame.
func tickParam(r *http.Request) (int, error) {
	text := r.URL.Query().Get("tick")
	if text == "" {
		return pipeline.TickSaturated, nil
	}
	tick, err := kerrors.ParseTick(text, 0)
	if err != nil {
		return 0, err
	}
	return int(tick), nil
}

type errorResponse struct {
	Error   kerrors.Code `json:"error"`
	Message string       `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := kerrors.GetCode(err)
	if code == "" {
		code = kerrors.ErrCodeInternal
	}
	writeJSON(w, kerrors.HTTPStatus(err), errorResponse{Error: code, Message: kerrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
