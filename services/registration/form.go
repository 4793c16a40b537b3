package registration

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"vexstorm/models"

	"github.com/mitchellh/mapstructure"
)

// driveLinkPattern matches the hosts the registration page allows for pitch decks.
var driveLinkPattern = regexp.MustCompile(
	`^(https?://)?(drive\.google\.com|docs\.google\.com|forms\.gle|files\.datavex\.ai)/.+$`,
)

// decodeForm maps the sanitized formData object onto RegistrationForm.
// Numbers sent as strings are accepted.
func decodeForm(data map[string]any) (models.RegistrationForm, error) {
	var form models.RegistrationForm
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &form,
	})
	if err != nil {
		return form, err
	}
	if err := dec.Decode(data); err != nil {
		return form, fmt.Errorf("decode form: %w", err)
	}
	return form, nil
}

// parseDuration reads the client-reported elapsed milliseconds. NaN and
// infinities are not durations.
func parseDuration(v any) (float64, bool) {
	var f float64
	switch d := v.(type) {
	case float64:
		f = d
	case int:
		f = float64(d)
	case int64:
		f = float64(d)
	case json.Number:
		var err error
		if f, err = d.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(d), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isPostGrad(year string) bool {
	return strings.EqualFold(strings.TrimSpace(year), models.PostGradYear)
}

func participant(p models.ParticipantForm) models.Participant {
	out := models.Participant{
		Name:        strings.TrimSpace(p.Name),
		Email:       strings.TrimSpace(p.Email),
		Phone:       strings.TrimSpace(p.Phone),
		Institution: strings.TrimSpace(p.College),
		Year:        strings.TrimSpace(p.Year),
		ShirtSize:   strings.TrimSpace(p.ShirtSize),
	}
	if isPostGrad(out.Year) {
		out.Institution = models.NotApplicable
	}
	return out
}

// teamSize returns the declared size clamped to 1-3, inferring it from the
// filled member slots when the form leaves it out.
func teamSize(form models.RegistrationForm) int {
	size := form.TeamSize
	if size <= 0 {
		size = 1
		if strings.TrimSpace(form.Member1.Name) != "" {
			size++
		}
		if strings.TrimSpace(form.Member2.Name) != "" {
			size++
		}
	}
	if size > 3 {
		size = 3
	}
	return size
}

func members(form models.RegistrationForm, size int) []models.Participant {
	var out []models.Participant
	if size >= 2 {
		out = append(out, participant(form.Member1))
	}
	if size >= 3 {
		out = append(out, participant(form.Member2))
	}
	return out
}
