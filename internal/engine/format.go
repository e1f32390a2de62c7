package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tartampluch/go-babyage/internal/config"
)

// ErrInvalidAgeFormat is returned when settings carry an unknown age format.
var ErrInvalidAgeFormat = errors.New(config.ErrInvalidAgeFormat)

// AgeFormat selects how an AgeParts value is printed.
type AgeFormat string

const (
	// FormatMD folds years into months: "14m3d", "0m5d".
	FormatMD AgeFormat = config.AgeFormatMD
	// FormatYMD keeps years apart and drops leading zero segments: "1y2m3d", "5d".
	FormatYMD AgeFormat = config.AgeFormatYMD
)

// ParseAgeFormat validates a persisted format. Empty selects the default.
func ParseAgeFormat(s string) (AgeFormat, error) {
	switch AgeFormat(s) {
	case "":
		return AgeFormat(config.DefaultAgeFormat), nil
	case FormatMD, FormatYMD:
		return AgeFormat(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAgeFormat, s)
	}
}

// FormatAge renders parts as a short label.
//
// The two modes are deliberately asymmetric: md always prints the month count,
// ymd prints months only when years or months are non-zero. Days are always printed.
func FormatAge(parts AgeParts, mode AgeFormat) string {
	if mode == FormatMD {
		return strconv.Itoa(parts.TotalMonths()) + "m" + strconv.Itoa(parts.Days) + "d"
	}

	var b strings.Builder
	if parts.Years > 0 {
		b.WriteString(strconv.Itoa(parts.Years))
		b.WriteString("y")
	}
	if parts.Years > 0 || parts.Months > 0 {
		b.WriteString(strconv.Itoa(parts.Months))
		b.WriteString("m")
	}
	b.WriteString(strconv.Itoa(parts.Days))
	b.WriteString("d")
	return b.String()
}
