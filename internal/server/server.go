package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-babyage/internal/config"
	"github.com/tartampluch/go-babyage/internal/engine"
)

// DataSource supplies the persisted profile. store.Repository implements it.
type DataSource interface {
	LoadSettings(ctx context.Context) (engine.AgeSettings, error)
	LoadAchievements(ctx context.Context) (engine.AchievementLog, error)
}

// AchievementWriter records and removes the entries of a day. store.Repository
// implements it; without one the achievements route is read-only.
type AchievementWriter interface {
	AddAchievement(ctx context.Context, day engine.CalendarDate, a engine.Achievement) error
	RemoveAchievements(ctx context.Context, day engine.CalendarDate) (bool, error)
}

// cacheItem stores the rendered milestone calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123, as HTTP headers require
}

// Server exposes the age API and the milestone calendar on localhost.
type Server struct {
	// cache is read on every calendar poll and written once per refresh.
	cache atomic.Pointer[cacheItem]

	trigger     chan struct{}
	triggerOnce sync.Once

	Port     string
	Data     DataSource
	Journal  AchievementWriter // nil when Data cannot write
	Ages     *engine.AgeService
	Exporter *engine.MilestoneExporter
	Labels   *engine.AxisLabelFormats // nil selects engine.DefaultAxisLabels
	Span     int                      // monthly birthdays in the ICS feed
}

// New wires a server reading data and the clock. The achievements route accepts
// writes when data is also an AchievementWriter.
func New(port string, data DataSource, clock engine.Clock) *Server {
	s := &Server{
		Port:     port,
		Data:     data,
		Ages:     &engine.AgeService{Clock: clock},
		Exporter: &engine.MilestoneExporter{Clock: clock},
		Span:     config.DefaultMilestoneSpan,
	}
	if w, ok := data.(AchievementWriter); ok {
		s.Journal = w
	}
	return s
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteAge, s.handleAge)
	mux.HandleFunc(config.RouteCalendar, s.handleCalendar)
	mux.HandleFunc(config.RouteGraph, s.handleGraph)
	mux.HandleFunc(config.RouteAchievements, s.handleAchievements)
	mux.HandleFunc(config.RouteICS, s.handleICS)
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Refresh renders the milestone calendar from the stored settings and swaps it in.
func (s *Server) Refresh(ctx context.Context) error {
	settings, err := s.Data.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrRefreshFailed, err)
	}

	data, _, err := s.Exporter.Export(ctx, settings, s.Span)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrRefreshFailed, err)
	}

	s.Update(data)
	return nil
}

// Update atomically replaces the served calendar.
func (s *Server) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	item := &cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}

	// Readers see either the old or the new item, never a partial one.
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// allowRead rejects anything but GET and HEAD.
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	return false
}

// handleICS serves the milestone calendar with HTTP caching support.
func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
