package engine

import (
	"encoding/json"
	"fmt"

	"github.com/tartampluch/go-babyage/internal/config"
)

// AgeSettings is the subset of the profile settings consumed by the age core.
type AgeSettings struct {
	Name      string
	BirthDate CalendarDate // Zero when the profile is not set up yet.
	DueDate   CalendarDate // Zero when unknown.
	AgeFormat AgeFormat

	// ShowCorrectedUntilMonths hides the corrected age this many months after its base.
	// nil means no horizon.
	ShowCorrectedUntilMonths *int

	// EnablePrematureDisplay turns on the corrected axis of the graph.
	EnablePrematureDisplay bool
}

// HasDueDate reports whether a due date is known.
func (s AgeSettings) HasDueDate() bool {
	return !s.DueDate.IsZero()
}

// settingsBlob is the persisted JSON shape.
type settingsBlob struct {
	Name                     string  `json:"name,omitempty"`
	BirthDate                string  `json:"birthDate"`
	DueDate                  *string `json:"dueDate"`
	AgeFormat                string  `json:"ageFormat"`
	ShowCorrectedUntilMonths *int    `json:"showCorrectedUntilMonths"`
	EnablePrematureDisplay   bool    `json:"enablePrematureDisplay"`
}

// DecodeSettings parses a settings blob. Dates are validated strictly; an empty birth
// date is a legitimate "not set up yet" state, not an error.
func DecodeSettings(data []byte) (AgeSettings, error) {
	var blob settingsBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return AgeSettings{}, fmt.Errorf("%s: %w", config.ErrSettingsDecode, err)
	}

	birth, err := ParseOptionalDate(blob.BirthDate)
	if err != nil {
		return AgeSettings{}, fmt.Errorf("%s: birthDate: %w", config.ErrSettingsDecode, err)
	}

	var due CalendarDate
	if blob.DueDate != nil {
		due, err = ParseOptionalDate(*blob.DueDate)
		if err != nil {
			return AgeSettings{}, fmt.Errorf("%s: dueDate: %w", config.ErrSettingsDecode, err)
		}
	}

	format, err := ParseAgeFormat(blob.AgeFormat)
	if err != nil {
		return AgeSettings{}, fmt.Errorf("%s: %w", config.ErrSettingsDecode, err)
	}

	return AgeSettings{
		Name:                     blob.Name,
		BirthDate:                birth,
		DueDate:                  due,
		AgeFormat:                format,
		ShowCorrectedUntilMonths: blob.ShowCorrectedUntilMonths,
		EnablePrematureDisplay:   blob.EnablePrematureDisplay,
	}, nil
}

// EncodeSettings is the inverse of DecodeSettings. An absent due date encodes as null.
func EncodeSettings(s AgeSettings) ([]byte, error) {
	blob := settingsBlob{
		Name:                     s.Name,
		BirthDate:                s.BirthDate.Key(),
		AgeFormat:                string(s.AgeFormat),
		ShowCorrectedUntilMonths: s.ShowCorrectedUntilMonths,
		EnablePrematureDisplay:   s.EnablePrematureDisplay,
	}
	if s.HasDueDate() {
		due := s.DueDate.Key()
		blob.DueDate = &due
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSettingsEncode, err)
	}
	return data, nil
}
