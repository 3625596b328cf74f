package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ExtractLineNumber extracts the short line number from a line ID in the
// format `{mode}_{number}`, e.g. "METRO_3b" gives "3b". IDs without a mode
// prefix are returned unchanged.
func ExtractLineNumber(lineID string) string {
	parts := strings.SplitN(lineID, "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return lineID
	}
	return parts[1]
}

// ExtractLineMode extracts the mode prefix of a line ID, e.g. "RER" for
// "RER_A". It returns an empty string when there is no prefix.
func ExtractLineMode(lineID string) string {
	parts := strings.SplitN(lineID, "_", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[0]
}

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present or the value is invalid, it returns 0 and updates the fieldErrors map.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return f, fieldErrors
}

// ParseIntParam works like ParseFloatParam for integers.
func ParseIntParam(params url.Values, key string, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return n, fieldErrors
}

// ParseClockParameter parses a time of day into an offset from the start of
// the service day. It accepts "HH:MM", "HH:MM:SS" (hours may exceed 23, as
// in GTFS stop times) or a plain number of seconds. The boolean result is
// false when the parameter is absent.
func ParseClockParameter(params url.Values, key string, fieldErrors map[string][]string) (time.Duration, bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, false, fieldErrors
	}

	d, err := ParseClock(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return 0, false, fieldErrors
	}
	return d, true, fieldErrors
}

// ParseClock parses "HH:MM", "HH:MM:SS" or a number of seconds.
func ParseClock(val string) (time.Duration, error) {
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative time %q", val)
		}
		return time.Duration(secs) * time.Second, nil
	}

	parts := strings.Split(val, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q", val)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time %q", val)
		}
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("invalid time %q", val)
		}
		fields[i] = n
	}
	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second, nil
}

// FormatClock renders an offset from the start of the service day as
// "HH:MM:SS".
func FormatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
