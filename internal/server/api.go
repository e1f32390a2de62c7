package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tartampluch/go-babyage/internal/config"
	"github.com/tartampluch/go-babyage/internal/engine"
)

// AgeResponse is the body of GET /api/age.
type AgeResponse struct {
	Name   string              `json:"name,omitempty"`
	Day    engine.CalendarDate `json:"day"`
	Labels engine.AgeLabels    `json:"labels"`
}

// CalendarResponse is the body of GET /api/calendar.
type CalendarResponse struct {
	Month string                `json:"month"`
	Cells []engine.CalendarCell `json:"cells"`
}

// GraphResponse is the body of GET /api/graph.
type GraphResponse struct {
	Period string `json:"period"`
	engine.GraphResult
}

// DayAchievements is the body of /api/achievements for a single day.
type DayAchievements struct {
	Day     engine.CalendarDate  `json:"day"`
	Entries []engine.Achievement `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

var (
	errBadMonth       = errors.New(config.ErrInvalidMonth)
	errDayRequired    = errors.New(config.ErrDayRequired)
	errRequestBody    = errors.New(config.ErrRequestBody)
	errNoAchievements = errors.New(config.ErrNoAchievements)
)

func (s *Server) handleAge(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	day := s.Ages.Today()
	if q := r.URL.Query().Get(config.QueryDay); q != "" {
		parsed, err := engine.ParseDate(q)
		if err != nil {
			badRequest(w, r, err)
			return
		}
		day = parsed
	}

	settings, err := s.Data.LoadSettings(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, r, AgeResponse{
		Name:   settings.Name,
		Day:    day,
		Labels: engine.ComputeAgeLabels(settings, day),
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	anchor := s.Ages.Today()
	if q := r.URL.Query().Get(config.QueryMonth); q != "" {
		t, err := time.Parse(config.DateFormatMonth, q)
		if err != nil {
			badRequest(w, r, errBadMonth)
			return
		}
		anchor = engine.DateOf(t)
	}

	ctx := r.Context()
	settings, err := s.Data.LoadSettings(ctx)
	if err != nil {
		internalError(w, r, err)
		return
	}
	achievements, err := s.Data.LoadAchievements(ctx)
	if err != nil {
		internalError(w, r, err)
		return
	}

	writeJSON(w, r, CalendarResponse{
		Month: anchor.Time().Format(config.DateFormatMonth),
		Cells: s.Ages.MonthGrid(anchor, settings, achievements.CountsByDay()),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	period, err := engine.ParsePeriod(r.URL.Query().Get(config.QueryPeriod))
	if err != nil {
		badRequest(w, r, err)
		return
	}

	ctx := r.Context()
	settings, err := s.Data.LoadSettings(ctx)
	if err != nil {
		internalError(w, r, err)
		return
	}
	achievements, err := s.Data.LoadAchievements(ctx)
	if err != nil {
		internalError(w, r, err)
		return
	}

	res, err := engine.BuildBuckets(engine.GraphInput{
		Period:                 period,
		BirthDate:              settings.BirthDate,
		DueDate:                settings.DueDate,
		EnablePrematureDisplay: settings.EnablePrematureDisplay,
		Records:                achievements.Records(),
		Labels:                 s.Labels,
	})
	if err != nil {
		badRequest(w, r, err)
		return
	}

	writeJSON(w, r, GraphResponse{Period: string(period), GraphResult: res})
}

// handleAchievements lists the log (GET, HEAD), appends an entry to ?day= (POST) or
// clears ?day= (DELETE).
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.listAchievements(w, r)
		return
	case http.MethodPost, http.MethodDelete:
		if s.Journal == nil {
			break
		}
		if r.Method == http.MethodPost {
			s.addAchievement(w, r)
		} else {
			s.removeAchievements(w, r)
		}
		return
	}

	allow := config.AllowedMethods
	if s.Journal != nil {
		allow = config.AllowedMethodsRW
	}
	w.Header().Set(config.HeaderAllow, allow)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
}

func (s *Server) listAchievements(w http.ResponseWriter, r *http.Request) {
	var day engine.CalendarDate
	if q := r.URL.Query().Get(config.QueryDay); q != "" {
		parsed, err := engine.ParseDate(q)
		if err != nil {
			badRequest(w, r, err)
			return
		}
		day = parsed
	}

	log, err := s.Data.LoadAchievements(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	if day.IsZero() {
		if log == nil {
			log = engine.AchievementLog{}
		}
		writeJSON(w, r, log)
		return
	}
	writeJSON(w, r, dayAchievements(log, day))
}

func (s *Server) addAchievement(w http.ResponseWriter, r *http.Request) {
	day, err := requiredDay(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	var a engine.Achievement
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		badRequest(w, r, fmt.Errorf("%w: %v", errRequestBody, err))
		return
	}

	ctx := r.Context()
	if err := s.Journal.AddAchievement(ctx, day, a); err != nil {
		if errors.Is(err, engine.ErrInvalidAchievementType) || errors.Is(err, engine.ErrInvalidDateFormat) {
			badRequest(w, r, err)
			return
		}
		internalError(w, r, err)
		return
	}

	log, err := s.Data.LoadAchievements(ctx)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSONStatus(w, r, http.StatusCreated, dayAchievements(log, day))
}

func (s *Server) removeAchievements(w http.ResponseWriter, r *http.Request) {
	day, err := requiredDay(r)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	removed, err := s.Journal.RemoveAchievements(r.Context(), day)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if !removed {
		writeJSONStatus(w, r, http.StatusNotFound, errorResponse{Error: errNoAchievements.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requiredDay(r *http.Request) (engine.CalendarDate, error) {
	q := r.URL.Query().Get(config.QueryDay)
	if q == "" {
		return engine.CalendarDate{}, errDayRequired
	}
	return engine.ParseDate(q)
}

func dayAchievements(log engine.AchievementLog, day engine.CalendarDate) DayAchievements {
	entries := log[day.Key()]
	if entries == nil {
		entries = []engine.Achievement{}
	}
	return DayAchievements{Day: day, Entries: entries}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	writeJSONStatus(w, r, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	slog.Debug(config.MsgBadRequest,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, r.URL.Path,
		config.LogKeyError, err,
	)
	writeJSONStatus(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error(config.HTTPMsgInternalErr,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRoute, r.URL.Path,
		config.LogKeyError, err,
	)
	writeJSONStatus(w, r, http.StatusInternalServerError, errorResponse{Error: config.HTTPMsgInternalErr})
}
