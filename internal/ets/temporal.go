package ets

import (
	"fmt"
	"strings"
	"time"
)

// instant is one parsed temporal value. dateOnly marks bare calendar
// dates, which parse to midnight UTC.
type instant struct {
	t        time.Time
	dateOnly bool
}

// parseInstant accepts the two temporal string forms JSON-FG uses: bare
// calendar dates and RFC 3339 timestamps with an explicit offset or Z.
func parseInstant(value string) (instant, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return instant{t: t, dateOnly: true}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return instant{t: t}, nil
	}
	return instant{}, fmt.Errorf("cannot parse temporal value %q", value)
}

// sameDate compares calendar-date components, each in its own offset.
func (i instant) sameDate(other instant) bool {
	y1, m1, d1 := i.t.Date()
	y2, m2, d2 := other.t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// equal compares the two values as exact instants.
func (i instant) equal(other instant) bool {
	return i.t.Equal(other.t)
}

// checkInstantAndInterval applies the pairwise consistency rules between
// the time member's date, timestamp and interval values. Every violated
// sub-rule is recorded independently; the result message joins all of them.
func (s *Suite) checkInstantAndInterval() (Result, error) {
	status := Result{ID: testID("req/core/instant-and-interval"), Code: CodePassed}

	t := s.doc.Time
	if t == nil {
		status.Code = CodeSkipped
		status.Message = "Skipping given time is null"
		return status, nil
	}

	var (
		date, ts instant
		interval []instant
		err      error
	)

	// parse everything up front so an unparseable value fails only this check
	if t.Date != "" {
		if date, err = parseInstant(t.Date); err != nil {
			status.Code = CodeFailed
			status.Message = err.Error()
			return status, nil
		}
	}
	if t.Timestamp != "" {
		if ts, err = parseInstant(t.Timestamp); err != nil {
			status.Code = CodeFailed
			status.Message = err.Error()
			return status, nil
		}
	}
	for _, value := range t.Interval {
		end, perr := parseInstant(value)
		if perr != nil {
			status.Code = CodeFailed
			status.Message = perr.Error()
			return status, nil
		}
		interval = append(interval, end)
	}

	var violations []string

	if t.Date != "" && t.Timestamp != "" && !date.sameDate(ts) {
		violations = append(violations, "date and timestamp full-date not identical")
	}

	if t.Timestamp != "" && len(interval) > 0 {
		matchDate, matchInstant := false, false
		for _, end := range interval {
			if ts.sameDate(end) {
				matchDate = true
			}
			if ts.equal(end) {
				matchInstant = true
			}
		}
		if !matchDate {
			violations = append(violations, "timestamp full-date not in interval")
		}
		if !matchInstant {
			violations = append(violations, "timestamp not in interval")
		}
	}

	if t.Date != "" && len(interval) > 0 {
		matchDate, matchInstant := false, false
		for _, end := range interval {
			if date.sameDate(end) {
				matchDate = true
			}
			if date.equal(end) {
				matchInstant = true
			}
		}
		if !matchDate {
			violations = append(violations, "date full-date not in interval")
		}
		if !matchInstant {
			violations = append(violations, "date not in interval")
		}
	}

	if len(violations) > 0 {
		status.Code = CodeFailed
		status.Message = strings.Join(violations, "; ")
		status.Errors = violations
	}

	return status, nil
}

// checkTemporalUTC verifies every full timestamp in the time member
// designates UTC. Interval endpoints longer than 11 characters are treated
// as timestamps; shorter ones are bare dates and carry no zone to check.
func (s *Suite) checkTemporalUTC() (Result, error) {
	status := Result{ID: testID("req/core/utc"), Code: CodePassed}

	t := s.doc.Time
	if t == nil {
		status.Code = CodeSkipped
		status.Message = "Time is null"
		return status, nil
	}

	var timestamps []string
	if t.Timestamp != "" {
		timestamps = append(timestamps, t.Timestamp)
	}
	for _, end := range t.Interval {
		if len(end) > 11 {
			timestamps = append(timestamps, end)
		}
	}

	for _, value := range timestamps {
		in, err := parseInstant(value)
		if err != nil {
			status.Code = CodeFailed
			status.Message = err.Error()
			return status, nil
		}
		if _, offset := in.t.Zone(); offset != 0 {
			status.Code = CodeFailed
			status.Message = "Timestamp is not in UTC format"
			return status, nil
		}
	}

	return status, nil
}
