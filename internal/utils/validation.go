package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Compiled regular expressions for validation
var (
	// Allow alphanumeric, underscore, hyphen, dot, colon - common in transit IDs such as "IDFM:22101"
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

const (
	maxIDLength      = 100
	maxPatternLength = 200
	// MaxSearchRadius bounds location searches, in meters.
	MaxSearchRadius = 10000.0
	// MaxResultCount bounds list sizes requested by clients.
	MaxResultCount = 1000
)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > maxIDLength {
		return fmt.Errorf("id too long (max %d characters)", maxIDLength)
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidatePattern validates a station search pattern and compiles it. The
// match is anchored at the start of the station name and ignores case.
func ValidatePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, errors.New("pattern cannot be empty")
	}

	if len(pattern) > maxPatternLength {
		return nil, fmt.Errorf("pattern too long (max %d characters)", maxPatternLength)
	}

	if htmlTagPattern.MatchString(pattern) || strings.ContainsAny(pattern, "<>") {
		return nil, errors.New("pattern contains invalid characters")
	}

	re, err := regexp.Compile(`(?i)^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return re, nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRadius validates radius values for location searches
func ValidateRadius(radius float64) error {
	if radius < 0 {
		return errors.New("radius must be non-negative")
	}

	if radius > MaxSearchRadius {
		return fmt.Errorf("radius too large (max %d meters)", int(MaxSearchRadius))
	}

	return nil
}

// ValidateCount validates client supplied list sizes.
func ValidateCount(n int) error {
	if n < 0 {
		return errors.New("count must be non-negative")
	}
	if n > MaxResultCount {
		return fmt.Errorf("count too large (max %d)", MaxResultCount)
	}
	return nil
}

// ValidateLocationParams validates a complete set of location parameters
func ValidateLocationParams(lat, lon, radius float64, maxCount int) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}

	if err := ValidateLongitude(lon); err != nil {
		fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
	}

	if radius != 0 {
		if err := ValidateRadius(radius); err != nil {
			fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
		}
	}

	if err := ValidateCount(maxCount); err != nil {
		fieldErrors["maxCount"] = append(fieldErrors["maxCount"], err.Error())
	}

	return fieldErrors
}
