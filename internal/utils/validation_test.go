package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	valid := []string{
		"M1:ETOILE",
		"IDFM:22101",
		"RER_A",
		"METRO_3b",
		"stop-42.north",
		strings.Repeat("a", 100),
	}
	for _, id := range valid {
		assert.NoError(t, ValidateID(id), id)
	}

	tests := []struct {
		id     string
		errMsg string
	}{
		{"", "id cannot be empty"},
		{strings.Repeat("a", 101), "id too long (max 100 characters)"},
		{"M1 ETOILE", "id contains invalid characters"},
		{"M1:<script>", "id contains invalid characters"},
		{"x'; DROP TABLE stations; --", "id contains invalid characters"},
		{"../../etc/passwd", "id contains invalid characters"},
		{"Châtelet", "id contains invalid characters"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateID(tt.id)
			if assert.Error(t, err) {
				assert.Equal(t, tt.errMsg, err.Error())
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	for _, lat := range []float64{-90, 0, 48.8566, 90} {
		assert.NoError(t, ValidateLatitude(lat))
	}
	for _, lat := range []float64{-90.0001, 90.5, 180} {
		assert.Error(t, ValidateLatitude(lat))
	}

	for _, lon := range []float64{-180, 2.3522, 180} {
		assert.NoError(t, ValidateLongitude(lon))
	}
	for _, lon := range []float64{-180.1, 181} {
		assert.Error(t, ValidateLongitude(lon))
	}
}

func TestValidateRadius(t *testing.T) {
	assert.NoError(t, ValidateRadius(0))
	assert.NoError(t, ValidateRadius(MaxSearchRadius))

	err := ValidateRadius(-1)
	if assert.Error(t, err) {
		assert.Equal(t, "radius must be non-negative", err.Error())
	}
	err = ValidateRadius(MaxSearchRadius + 1)
	if assert.Error(t, err) {
		assert.Equal(t, "radius too large (max 10000 meters)", err.Error())
	}
}

func TestValidateCount(t *testing.T) {
	assert.NoError(t, ValidateCount(0))
	assert.NoError(t, ValidateCount(MaxResultCount))
	assert.Error(t, ValidateCount(-1))
	assert.EqualError(t, ValidateCount(MaxResultCount+1), "count too large (max 1000)")
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		matches []string
		misses  []string
		wantErr bool
	}{
		{
			name:    "prefix match ignores case",
			pattern: "cha",
			matches: []string{"Charles de Gaulle - Etoile", "Chardon Lagache"},
			misses:  []string{"Porte de la Chapelle"},
		},
		{
			name:    "alternation stays anchored",
			pattern: "nation|bastille",
			matches: []string{"Nation", "Bastille"},
			misses:  []string{"Gare de la Nation"},
		},
		{
			name:    "character class",
			pattern: "c(o|h)",
			matches: []string{"Courcelles", "Chatelet"},
			misses:  []string{"Monceau"},
		},
		{
			name:    "empty pattern",
			pattern: "",
			wantErr: true,
		},
		{
			name:    "invalid regexp",
			pattern: "gare (de",
			wantErr: true,
		},
		{
			name:    "html",
			pattern: "<b>gare</b>",
			wantErr: true,
		},
		{
			name:    "too long",
			pattern: strings.Repeat("a", 201),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := ValidatePattern(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, re)
				return
			}
			assert.NoError(t, err)
			for _, m := range tt.matches {
				assert.True(t, re.MatchString(m), "expected %q to match", m)
			}
			for _, m := range tt.misses {
				assert.False(t, re.MatchString(m), "expected %q not to match", m)
			}
		})
	}
}

func TestValidateLocationParams(t *testing.T) {
	assert.Empty(t, ValidateLocationParams(48.8566, 2.3522, 500, 10))
	assert.Empty(t, ValidateLocationParams(48.8566, 2.3522, 0, 0))

	errs := ValidateLocationParams(91, 2.35, -1, 5000)
	assert.Contains(t, errs, "lat")
	assert.Contains(t, errs, "radius")
	assert.Contains(t, errs, "maxCount")
	assert.NotContains(t, errs, "lon")
}
