// Package locale words the graph axis labels and the exported calendar events in the
// user's language.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-babyage/internal/config"
	"github.com/tartampluch/go-babyage/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator holds the loaded bundle and the localizer of the selected language.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	languages []string
	lang      string
}

// New loads every embedded locale and selects lang. Unknown or malformed tags select
// config.DefaultLanguage.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	tr := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		tr.languages = append(tr.languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	tr.SetLanguage(lang)
	return tr
}

// SetLanguage switches the localizer to the closest loaded locale.
func (t *Translator) SetLanguage(lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Make(config.DefaultLanguage)
	}

	supported := t.bundle.LanguageTags()
	_, idx, _ := language.NewMatcher(supported).Match(tag)
	base, _ := supported[idx].Base()

	t.lang = base.String()
	t.localizer = i18n.NewLocalizer(t.bundle, t.lang)
}

// Language returns the ISO 639-1 code in use.
func (t *Translator) Language() string {
	return t.lang
}

// Languages lists the locales that loaded successfully.
func (t *Translator) Languages() []string {
	return t.languages
}

// Msg translates key with data, returning key itself when no translation exists.
func (t *Translator) Msg(key string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// AxisLabels returns the graph label formatters of the selected language.
func (t *Translator) AxisLabels() engine.AxisLabelFormats {
	return engine.AxisLabelFormats{
		Month: func(n int) string {
			return t.Msg(config.TKeyAxisMonth, map[string]any{"Count": n})
		},
		Year: func(n int) string {
			return t.Msg(config.TKeyAxisYear, map[string]any{"Count": n})
		},
		Corrected: func(n int) string {
			return t.Msg(config.TKeyAxisCorrected, map[string]any{"Count": n})
		},
		Week: func(w int) string {
			return t.Msg(config.TKeyAxisWeek, map[string]any{"Week": w})
		},
		DueDate: t.Msg(config.TKeyAxisDueDate, nil),
	}
}

// SummaryFormatter returns the event titles of the milestone calendar.
func (t *Translator) SummaryFormatter() engine.SummaryFunc {
	return func(name string, m engine.Milestone) string {
		data := map[string]any{
			"Name":      name,
			"Age":       m.Labels.Chronological,
			"Corrected": m.Labels.Corrected,
		}

		var key string
		switch {
		case m.Kind == engine.MilestoneBirth:
			key = config.TKeyEvtBirth
		case m.Kind == engine.MilestoneDueDate:
			key = config.TKeyEvtDueDate
		case m.Labels.Suppressed:
			key = config.TKeyEvtAge
		default:
			key = config.TKeyEvtAgeCorr
		}

		msg := t.Msg(key, data)
		if msg == key {
			return fmt.Sprintf(config.FallbackSummaryAge, m.Labels.Chronological)
		}
		return msg
	}
}
