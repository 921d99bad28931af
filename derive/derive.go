// Package derive holds the pure display-metric functions consumed by the
// presentation layer: height deltas, severity tones, and human-friendly
// duration and number formatting.
package derive

import (
	"fmt"
	"strings"
)

// Tone is a severity classification used by the display layer.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
)

// HeightDelta reports how far a node lags the reference height, clamped to
// zero. Unknown inputs stay unknown.
func HeightDelta(nodeHeight, referenceMaxHeight *int64) *int64 {
	if nodeHeight == nil || referenceMaxHeight == nil {
		return nil
	}
	delta := *referenceMaxHeight - *nodeHeight
	if delta < 0 {
		delta = 0
	}
	return &delta
}

// DeltaTone classifies a height delta.
func DeltaTone(delta *int64) Tone {
	switch {
	case delta == nil:
		return ToneNeutral
	case *delta == 0:
		return ToneSuccess
	case *delta <= 10:
		return ToneWarning
	default:
		return ToneDanger
	}
}

// DelayTone classifies a delay in seconds.
func DelayTone(seconds *float64) Tone {
	switch {
	case seconds == nil:
		return ToneNeutral
	case *seconds >= 3600:
		return ToneDanger
	case *seconds >= 60:
		return ToneWarning
	default:
		return ToneNeutral
	}
}

var durationUnits = []struct {
	limit   float64
	divisor float64
	suffix  string
}{
	{60, 1, "s"},
	{3600, 60, "m"},
	{86400, 3600, "h"},
	{604800, 86400, "d"},
}

// FormatDurationSec renders a magnitude in seconds with the largest unit
// that keeps the scaled value >= 1, one decimal below 10, none above.
func FormatDurationSec(seconds float64) string {
	for _, unit := range durationUnits {
		if seconds < unit.limit {
			return formatScaled(seconds/unit.divisor, unit.suffix)
		}
	}
	return formatScaled(seconds/604800, "w")
}

// FormatDurationMs is FormatDurationSec for millisecond inputs.
func FormatDurationMs(ms float64) string {
	return FormatDurationSec(ms / 1000)
}

func formatScaled(value float64, suffix string) string {
	if value < 10 {
		return fmt.Sprintf("%.1f%s", value, suffix)
	}
	return fmt.Sprintf("%.0f%s", value, suffix)
}

// GroupThousands groups the integer digits of a decimal string by thousands,
// preserving sign and fractional part. The grouping happens entirely in the
// string domain so arbitrarily large token-supply figures keep their
// precision. Inputs that are not decimal strings come back unchanged.
func GroupThousands(s string) string {
	return groupDecimalString(s, true)
}

// GroupThousandsWhole is GroupThousands with the fractional part dropped.
func GroupThousandsWhole(s string) string {
	return groupDecimalString(s, false)
}

func groupDecimalString(s string, keepFraction bool) string {
	if s == "" {
		return s
	}

	rest := s
	sign := ""
	if rest[0] == '-' || rest[0] == '+' {
		sign = string(rest[0])
		rest = rest[1:]
	}

	whole := rest
	fraction := ""
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		whole = rest[:dot]
		fraction = rest[dot:]
	}

	if whole == "" || !isDigits(whole) || (fraction != "" && !isDigits(fraction[1:])) {
		return s
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	if keepFraction {
		b.WriteString(fraction)
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
