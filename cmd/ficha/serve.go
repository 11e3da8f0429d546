package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	flag "github.com/spf13/pflag"

	ficha "github.com/victor-trinidad/Generar-Ficha-de-Riesgo"
	"github.com/victor-trinidad/Generar-Ficha-de-Riesgo/internal/register"
)

// Server defaults.
const (
	defaultAddr       = "127.0.0.1:8080"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// runServe serves risk sheets over HTTP until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrInvalidFlags)
	}

	logger := env.logger(flags.common)
	setMaxProcs(env, flags.common.verbose)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return err
	}
	mergeRegisterFlags(flags.register, cfg)
	mergeLayoutFlags(flags.layout, cfg)
	setIf(&cfg.Server.Addr, flags.addr)
	if flags.workers > 0 {
		cfg.Server.Workers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := resolveValidity(cfg, env.Now()); err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.layout.timeout, envCfg)
	if err != nil {
		return err
	}

	reg, err := openRegister(cfg)
	if err != nil {
		return err
	}
	opts, format, err := rendererOptions(cfg, timeout, logger)
	if err != nil {
		return err
	}
	pool, err := ficha.NewRendererPool(ficha.ResolvePoolSize(cfg.Server.Workers), opts...)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	addr := cfg.Server.Addr
	if addr == "" {
		addr = defaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           newServer(reg, pool, format, logger),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	logger.Info("serving risk sheets",
		slog.String("addr", ln.Addr().String()),
		slog.String("format", string(format)),
		slog.Int("records", reg.Len()),
		slog.Int("workers", pool.Size()),
	)
	return serve(ctx, srv, ln)
}

// serve runs srv on ln and shuts it down gracefully when ctx is done.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// server routes HTTP requests to the register and the renderer pool.
type server struct {
	reg    *register.Register
	pool   *ficha.RendererPool
	format ficha.Format
	logger *slog.Logger
}

// newServer returns the HTTP handler:
//
//	GET /healthz      liveness probe
//	GET /fichas       identifiers as JSON
//	GET /fichas/{id}  rendered sheet as a download
func newServer(reg *register.Register, pool *ficha.RendererPool, format ficha.Format, logger *slog.Logger) http.Handler {
	s := &server{reg: reg, pool: pool, format: format, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Route("/fichas", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleRender)
	})
	return r
}

// accessLogger logs one line per request.
func (s *server) accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

type listEntry struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

func (s *server) handleList(w http.ResponseWriter, _ *http.Request) {
	records := s.reg.Records()
	resp := struct {
		Fichas []listEntry `json:"fichas"`
	}{Fichas: make([]listEntry, len(records))}
	for i, rec := range records {
		resp.Fichas[i] = listEntry{ID: strings.TrimSpace(rec.ID), Description: rec.Description}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.reg.Find(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	renderer, err := s.pool.Acquire(r.Context())
	if err != nil {
		s.logger.Warn("no renderer available", slog.String("id", id), slog.Any("error", err))
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	out, err := renderer.RenderContext(r.Context(), rec)
	s.pool.Release(renderer)
	if err != nil {
		s.logger.Error("render failed", slog.String("id", id), slog.Any("error", err))
		http.Error(w, http.StatusText(statusFor(err)), statusFor(err))
		return
	}

	name := ficha.FileName(rec, s.format.Extension())
	w.Header().Set("Content-Type", s.format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	_, _ = w.Write(out)
}

// statusFor maps a render error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ficha.ErrMissingField), errors.Is(err, ficha.ErrInvalidNumber):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, ficha.ErrBrowserConnect), errors.Is(err, ficha.ErrPageCreate),
		errors.Is(err, ficha.ErrPageLoad), errors.Is(err, ficha.ErrPDFGeneration):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
