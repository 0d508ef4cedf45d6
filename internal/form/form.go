// ABOUTME: Entry input rules shared by the command line and the MCP server
// ABOUTME: Turns loosely typed user input into a store entry or explains why it cannot
package form

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/harper/symptomlog/internal/db"
)

// ErrInvalidEntry is wrapped by every rule violation reported by Build.
var ErrInvalidEntry = errors.New("invalid entry")

// Defaults used when the user leaves a field out.
const (
	DefaultSeverity = 5
	MinSeverity     = 1
	MaxSeverity     = 10
)

var bloodPressurePattern = regexp.MustCompile(`^\d{2,3}/\d{2,3}$`)

// Input is an entry as typed by a person. Empty strings mean "not given".
type Input struct {
	Severity      int
	PainType      string
	PainTypeOther string
	BodyPart      string
	Medication    string
	Dosage        string
	Trigger       string
	Note          string
	HeartRate     *int
	BloodPressure string
	// At is a free-form event time; empty means now.
	At string
}

// Build validates in and returns the entry to store. Relative and zone-less times in
// At are read in loc.
func Build(in Input, loc *time.Location, now time.Time) (db.Entry, error) {
	bodyPart := strings.TrimSpace(in.BodyPart)
	if bodyPart == "" {
		return db.Entry{}, invalid("body part is required")
	}

	if in.Severity < MinSeverity || in.Severity > MaxSeverity {
		return db.Entry{}, invalid("severity must be between %d and %d, got %d", MinSeverity, MaxSeverity, in.Severity)
	}

	painType, painTypeOther, err := resolvePainType(in.PainType, in.PainTypeOther)
	if err != nil {
		return db.Entry{}, err
	}

	medication := strings.TrimSpace(in.Medication)
	dosage := strings.TrimSpace(in.Dosage)
	if dosage != "" && medication == "" {
		return db.Entry{}, invalid("dosage %q needs a medication", dosage)
	}

	bloodPressure := strings.TrimSpace(in.BloodPressure)
	if bloodPressure != "" && !bloodPressurePattern.MatchString(bloodPressure) {
		return db.Entry{}, invalid("blood pressure must look like 120/80, got %q", bloodPressure)
	}

	if in.HeartRate != nil && *in.HeartRate <= 0 {
		return db.Entry{}, invalid("heart rate must be positive, got %d", *in.HeartRate)
	}

	at, err := ParseTime(in.At, loc, now)
	if err != nil {
		return db.Entry{}, err
	}

	return db.Entry{
		Severity:       in.Severity,
		PainType:       painType,
		PainTypeOther:  optional(painTypeOther),
		DateTimeMillis: at.UnixMilli(),
		Medication:     medication,
		Dosage:         optional(dosage),
		Trigger:        strings.TrimSpace(in.Trigger),
		Note:           strings.TrimSpace(in.Note),
		HeartRate:      in.HeartRate,
		BloodPressure:  optional(bloodPressure),
		BodyPart:       &bodyPart,
	}, nil
}

// ParseTime reads a user supplied point in time. Empty input means now.
func ParseTime(value string, loc *time.Location, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}
	t, err := dateparse.ParseIn(value, loc)
	if err != nil {
		return time.Time{}, invalid("cannot read time %q: %v", value, err)
	}
	return t, nil
}

// resolvePainType applies the free text rule: any description forces the "other"
// sentinel, the sentinel alone is not enough.
func resolvePainType(painType, other string) (string, string, error) {
	painType = strings.TrimSpace(painType)
	other = strings.TrimSpace(other)

	if other != "" {
		if painType != "" && !strings.EqualFold(painType, db.PainTypeOther) {
			return "", "", invalid("pain type %q conflicts with a free text description", painType)
		}
		return db.PainTypeOther, other, nil
	}

	if painType == "" {
		return db.PainTypes[0], "", nil
	}
	if strings.EqualFold(painType, db.PainTypeOther) {
		return "", "", invalid("pain type %s needs a description", db.PainTypeOther)
	}
	for _, known := range db.PainTypes {
		if strings.EqualFold(painType, known) {
			return known, "", nil
		}
	}
	return "", "", invalid("unknown pain type %q (want one of %s)", painType, strings.Join(db.PainTypes, ", "))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEntry, fmt.Sprintf(format, args...))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// FilterEntries keeps entries whose event time lies in [since, until] and caps the
// result at limit (0 keeps all). Order is preserved.
func FilterEntries(entries []db.Entry, since, until string, limit int, loc *time.Location) ([]db.Entry, error) {
	var from, to *time.Time
	if since != "" {
		t, err := ParseTime(since, loc, time.Time{})
		if err != nil {
			return nil, err
		}
		from = &t
	}
	if until != "" {
		t, err := ParseTime(until, loc, time.Time{})
		if err != nil {
			return nil, err
		}
		to = &t
	}

	filtered := make([]db.Entry, 0, len(entries))
	for _, entry := range entries {
		if from != nil && entry.DateTimeMillis < from.UnixMilli() {
			continue
		}
		if to != nil && entry.DateTimeMillis > to.UnixMilli() {
			continue
		}
		filtered = append(filtered, entry)
		if limit > 0 && len(filtered) == limit {
			break
		}
	}
	return filtered, nil
}
