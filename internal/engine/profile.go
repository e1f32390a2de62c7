package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-babyage/internal/config"
)

// ErrNoBirthday is returned when no card of the stream carries a usable BDAY.
var ErrNoBirthday = errors.New(config.ErrNoBirthday)

// Profile is the infant identity read from a vCard.
type Profile struct {
	Name      string
	BirthDate CalendarDate
	DueDate   CalendarDate // zero when the card has no X-DUE-DATE
}

// Apply copies the imported identity into settings, keeping display preferences.
func (p Profile) Apply(s AgeSettings) AgeSettings {
	s.Name = p.Name
	s.BirthDate = p.BirthDate
	s.DueDate = p.DueDate
	return s
}

// ImportProfile returns the first card of r carrying a valid BDAY.
// Malformed cards and dates are skipped so one bad entry does not block the import.
func ImportProfile(ctx context.Context, r io.Reader) (Profile, error) {
	log := slog.With(config.LogKeyComponent, config.CompProfile)
	decoder := vcard.NewDecoder(r)

	for {
		if err := ctx.Err(); err != nil {
			return Profile{}, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			// The decoder cannot resynchronize after a syntax error.
			return Profile{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}
		birth, err := parseCardDate(bday.Value)
		if err != nil {
			log.Debug(config.MsgSkippedDate, config.LogKeyValue, bday.Value)
			continue
		}

		p := Profile{Name: config.FallbackName, BirthDate: birth}
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			p.Name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			p.Name = n.Value
		}

		if due := card.Get(config.VCardDueDate); due != nil && due.Value != "" {
			if d, err := parseCardDate(due.Value); err == nil {
				p.DueDate = d
			} else {
				log.Debug(config.MsgSkippedDate, config.LogKeyValue, due.Value)
			}
		}

		log.Info(config.MsgProfileImported,
			config.LogKeyName, p.Name,
			config.LogKeyDOB, p.BirthDate.Key(),
			config.LogKeyDue, p.DueDate.Key())
		return p, nil
	}

	return Profile{}, ErrNoBirthday
}

// parseCardDate accepts the vCard basic form (20251001) besides the extended one, then
// validates strictly.
func parseCardDate(value string) (CalendarDate, error) {
	if t, err := time.Parse(config.DateFormatBasic, value); err == nil {
		return ParseDate(t.Format(config.DateFormatKey))
	}
	return ParseDate(value)
}

// ProfileSource tells ImportFrom where the vCard lives.
type ProfileSource struct {
	LocalPath string // used when URL is empty
	URL       string
	User      string
	Pass      string
}

// Importer reads a profile from a local file or through a ProfileFetcher.
type Importer struct {
	Fetcher ProfileFetcher
}

// ImportFrom opens the source and runs ImportProfile on it.
func (i *Importer) ImportFrom(ctx context.Context, src ProfileSource) (Profile, error) {
	var rc io.ReadCloser
	var err error

	if src.URL != "" {
		if i.Fetcher == nil {
			return Profile{}, errors.New(config.ErrFetcherMissing)
		}
		rc, err = i.Fetcher.Fetch(ctx, src.URL, src.User, src.Pass)
	} else {
		rc, err = os.Open(src.LocalPath)
	}
	if err != nil {
		if ctx.Err() != nil {
			return Profile{}, ctx.Err()
		}
		return Profile{}, fmt.Errorf("%s: %w", config.ErrProfileImport, err)
	}
	defer func() { _ = rc.Close() }()

	return ImportProfile(ctx, rc)
}
