package ets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	in, err := parseInstant("2023-01-01")
	require.NoError(t, err)
	assert.True(t, in.dateOnly)

	in, err = parseInstant("2023-01-01T10:00:00Z")
	require.NoError(t, err)
	assert.False(t, in.dateOnly)

	_, err = parseInstant("..")
	assert.Error(t, err)

	_, err = parseInstant("not-a-date")
	assert.Error(t, err)
}

func TestCheckInstantAndInterval(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		code       string
		violations []string
	}{
		{
			"time absent",
			`{"type": "Feature"}`,
			CodeSkipped,
			nil,
		},
		{
			"date and timestamp on the same day",
			`{"time": {"date": "2023-01-01", "timestamp": "2023-01-01T10:00:00Z"}}`,
			CodePassed,
			nil,
		},
		{
			"date and timestamp on different days",
			`{"time": {"date": "2023-01-01", "timestamp": "2023-01-02T10:00:00Z"}}`,
			CodeFailed,
			[]string{"date and timestamp full-date not identical"},
		},
		{
			"timestamp equals an interval endpoint",
			`{"time": {
				"timestamp": "2023-01-01T10:00:00Z",
				"interval": ["2023-01-01T10:00:00Z", "2023-01-05T00:00:00Z"]
			}}`,
			CodePassed,
			nil,
		},
		{
			"timestamp on an endpoint's day but not an exact endpoint",
			`{"time": {
				"timestamp": "2023-01-01T10:00:00Z",
				"interval": ["2023-01-01T00:00:00Z", "2023-01-05T00:00:00Z"]
			}}`,
			CodeFailed,
			[]string{"timestamp not in interval"},
		},
		{
			"timestamp outside the interval entirely",
			`{"time": {
				"timestamp": "2023-03-01T10:00:00Z",
				"interval": ["2023-01-01T00:00:00Z", "2023-01-05T00:00:00Z"]
			}}`,
			CodeFailed,
			[]string{"timestamp full-date not in interval", "timestamp not in interval"},
		},
		{
			"date equals a date-only endpoint",
			`{"time": {"date": "2023-01-01", "interval": ["2023-01-01", "2023-01-05"]}}`,
			CodePassed,
			nil,
		},
		{
			"date matches no endpoint",
			`{"time": {"date": "2023-02-01", "interval": ["2023-01-01", "2023-01-05"]}}`,
			CodeFailed,
			[]string{"date full-date not in interval", "date not in interval"},
		},
		{
			"unparseable timestamp fails the check",
			`{"time": {"timestamp": "yesterday"}}`,
			CodeFailed,
			nil,
		},
		{
			"open interval endpoint fails the check",
			`{"time": {"timestamp": "2023-01-01T10:00:00Z", "interval": ["2023-01-01T10:00:00Z", ".."]}}`,
			CodeFailed,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite := NewSuite(parseDoc(t, tt.src), nil)

			res, err := suite.checkInstantAndInterval()
			require.NoError(t, err)
			assert.Equal(t, tt.code, res.Code)
			if tt.violations != nil {
				assert.Equal(t, tt.violations, res.Errors)
			}
			if tt.code == CodeFailed {
				assert.NotEmpty(t, res.Message)
			}
		})
	}
}

func TestCheckInstantAndIntervalJoinsViolations(t *testing.T) {
	src := `{"time": {
		"timestamp": "2023-03-01T10:00:00Z",
		"interval": ["2023-01-01T00:00:00Z", "2023-01-05T00:00:00Z"]
	}}`
	suite := NewSuite(parseDoc(t, src), nil)

	res, err := suite.checkInstantAndInterval()
	require.NoError(t, err)
	assert.Equal(t, "timestamp full-date not in interval; timestamp not in interval", res.Message)
}

func TestCheckTemporalUTC(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"time absent", `{"type": "Feature"}`, CodeSkipped},
		{"zulu timestamp", `{"time": {"timestamp": "2023-01-01T10:00:00Z"}}`, CodePassed},
		{"zero offset", `{"time": {"timestamp": "2023-01-01T10:00:00+00:00"}}`, CodePassed},
		{"non-utc offset", `{"time": {"timestamp": "2023-01-01T10:00:00+05:00"}}`, CodeFailed},
		{
			"date-only endpoints carry no zone",
			`{"time": {"interval": ["2023-01-01", "2023-01-05"]}}`,
			CodePassed,
		},
		{
			"non-utc interval endpoint",
			`{"time": {"interval": ["2023-01-01T00:00:00+03:00", "2023-01-05T00:00:00Z"]}}`,
			CodeFailed,
		},
		{
			"unparseable long endpoint",
			`{"time": {"interval": ["certainly-not-a-date", "2023-01-05T00:00:00Z"]}}`,
			CodeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suite := NewSuite(parseDoc(t, tt.src), nil)

			res, err := suite.checkTemporalUTC()
			require.NoError(t, err)
			assert.Equal(t, tt.code, res.Code)
		})
	}
}
