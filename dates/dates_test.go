package dates

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reference = time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "standard format", token: "123123", want: "2023_12_31"},
		{name: "short month format", token: "11323", want: "2023_01_13"},
		{name: "new year", token: "010124", want: "2024_01_01"},
		{name: "last year", token: "010123", want: "2023_01_01"},
		{name: "next year", token: "010125", want: "2025_01_01"},
		{name: "closer in the past century", token: "010180", want: "1980_01_01"},
		{name: "closer in this century", token: "061574", want: "2074_06_15"},
		{name: "leap day 2000", token: "022900", want: "2000_02_29"},
		{name: "builds with single digit day", token: "21224", want: "2024_02_12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.token, reference)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_RelativeToToday(t *testing.T) {
	today := time.Now()
	last := today.Year() - 1
	next := today.Year() + 1

	got, err := Convert(fmt.Sprintf("0101%02d", last%100), today)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d_01_01", last), got)

	got, err = Convert(fmt.Sprintf("0101%02d", next%100), today)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d_01_01", next), got)
}

func TestConvert_LeapDayFallsBackToOtherCentury(t *testing.T) {
	// 2000 is a leap year, 1900 is not: only the 2000 candidate survives even
	// though the reference year puts 2000 in the future.
	ref := time.Date(1999, 6, 15, 0, 0, 0, 0, time.UTC)
	got, err := Convert("022900", ref)
	require.NoError(t, err)
	assert.Equal(t, "2000_02_29", got)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "too short", token: "1234", want: ErrInvalidDateFormat},
		{name: "too long", token: "0101202", want: ErrInvalidDateFormat},
		{name: "not digits", token: "1a0124", want: ErrInvalidDateFormat},
		{name: "empty", token: "", want: ErrInvalidDateFormat},
		{name: "leap day in non leap years", token: "022925", want: ErrInvalidDate},
		{name: "day 30 of february", token: "023024", want: ErrInvalidDate},
		{name: "month 13", token: "130124", want: ErrInvalidDate},
		{name: "day zero", token: "010024", want: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.token, reference)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolve_ReturnsMidnightUTC(t *testing.T) {
	got, err := Resolve("121223", reference)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 12, 0, 0, 0, 0, time.UTC), got)
}
