package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tartampluch/go-babyage/internal/config"
)

// ErrInvalidAchievementType is returned for entries that are neither "did" nor "tried".
var ErrInvalidAchievementType = errors.New(config.ErrInvalidAchievement)

// AchievementType tells whether the baby managed something or only attempted it.
type AchievementType string

const (
	Did   AchievementType = config.AchievementDid
	Tried AchievementType = config.AchievementTried
)

// Achievement is one logged entry of a day.
type Achievement struct {
	Type  AchievementType `json:"type"`
	Title string          `json:"title,omitempty"`
	Note  string          `json:"note,omitempty"`
}

// Record is an achievement flattened with its day, the unit of graph bucketing.
type Record struct {
	Day  CalendarDate
	Type AchievementType
}

// AchievementLog maps a day key ("YYYY-MM-DD") to the entries of that day.
type AchievementLog map[string][]Achievement

// DecodeAchievements parses the persisted log and validates every key and type.
func DecodeAchievements(data []byte) (AchievementLog, error) {
	log := AchievementLog{}
	if len(data) == 0 {
		return log, nil
	}
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrAchievementsDecode, err)
	}
	if log == nil {
		// A stored JSON null.
		log = AchievementLog{}
	}

	for key, entries := range log {
		if _, err := ParseDate(key); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrAchievementsDecode, err)
		}
		for _, a := range entries {
			if err := a.Type.validate(); err != nil {
				return nil, fmt.Errorf("%s: %s: %w", config.ErrAchievementsDecode, key, err)
			}
		}
	}
	return log, nil
}

// EncodeAchievements serializes the log. encoding/json sorts map keys, so the
// output is stable.
func EncodeAchievements(log AchievementLog) ([]byte, error) {
	data, err := json.Marshal(log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrAchievementsEncode, err)
	}
	return data, nil
}

// Add appends an entry to day. An absent day is rejected since its empty key could
// never be decoded again.
func (l AchievementLog) Add(day CalendarDate, a Achievement) error {
	if day.IsZero() {
		return fmt.Errorf("%w: %q", ErrInvalidDateFormat, day.Key())
	}
	if err := a.Type.validate(); err != nil {
		return err
	}
	l[day.Key()] = append(l[day.Key()], a)
	return nil
}

// Records flattens the log in day order; entries of one day keep their order.
func (l AchievementLog) Records() []Record {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var records []Record
	for _, k := range keys {
		day, err := ParseDate(k)
		if err != nil {
			// Logs built via DecodeAchievements or Add never hold invalid keys.
			continue
		}
		for _, a := range l[k] {
			records = append(records, Record{Day: day, Type: a.Type})
		}
	}
	return records
}

// Remove drops every entry of day and reports whether there were any.
func (l AchievementLog) Remove(day CalendarDate) bool {
	if _, ok := l[day.Key()]; !ok {
		return false
	}
	delete(l, day.Key())
	return true
}

// CountsByDay returns the number of entries per day key, as the month grid expects.
func (l AchievementLog) CountsByDay() map[string]int {
	counts := make(map[string]int, len(l))
	for k, entries := range l {
		if len(entries) > 0 {
			counts[k] = len(entries)
		}
	}
	return counts
}

func (t AchievementType) validate() error {
	switch t {
	case Did, Tried:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAchievementType, t)
	}
}
