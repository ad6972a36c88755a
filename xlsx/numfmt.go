package xlsx

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout dates are rendered with.
const DateLayout = "02-01-2006"

// builtinDateFormats are the built-in number format ids that display a
// calendar date (with or without a time part).
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true,
	32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true,
	55: true, 56: true, 57: true, 58: true,
}

// isDateFormatCode reports whether a custom format code displays a date.
// Quoted literals, escaped characters and bracketed sections such as
// colours or locales are ignored; what remains must contain a day or year
// token.
func isDateFormatCode(code string) bool {
	var sb strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c == ']' {
				inBracket = false
			}
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++ // skip the escaped or padding character
		default:
			sb.WriteByte(c)
		}
	}
	// Only the first section (positive numbers) matters.
	section, _, _ := strings.Cut(strings.ToLower(sb.String()), ";")
	return strings.ContainsAny(section, "dy")
}

// serialToTime converts an Excel serial date to a time in UTC.
func serialToTime(serial float64, date1904 bool) time.Time {
	var epoch time.Time
	if date1904 {
		epoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	} else {
		// Serial 60 is the nonexistent 29 February 1900; from 61 on the
		// usual epoch of 30 December 1899 applies.
		epoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		if serial < 61 {
			epoch = epoch.AddDate(0, 0, 1)
		}
	}
	days := math.Floor(serial)
	secs := math.Round((serial - days) * 86400)
	return epoch.AddDate(0, 0, int(days)).Add(time.Duration(secs) * time.Second)
}

// formatGeneral renders a number the way the General format shows it:
// integral values without a fraction, others with the shortest exact form.
func formatGeneral(raw string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
