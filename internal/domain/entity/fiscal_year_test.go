package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stewardpro-api/pkg/apperror"
)

func fy(start, end datePair) FiscalYear {
	f := FiscalYear{YearStartDate: NewDate(start.y, start.m, start.d), YearEndDate: NewDate(end.y, end.m, end.d)}
	f.ID = uuid.New()
	return f
}

type datePair struct {
	y int
	m time.Month
	d int
}

func TestFiscalYearValidate(t *testing.T) {
	tests := []struct {
		name     string
		f        FiscalYear
		wantErr  bool
		wantName string
	}{
		{name: "calendar year", f: fy(datePair{2025, 1, 1}, datePair{2025, 12, 31}), wantName: "2025"},
		{name: "split year", f: fy(datePair{2025, 7, 1}, datePair{2026, 6, 30}), wantName: "2025-2026"},
		{name: "leap day start", f: fy(datePair{2024, 2, 29}, datePair{2025, 2, 27}), wantName: "2024-2025"},
		{name: "wrong length", f: fy(datePair{2025, 1, 1}, datePair{2025, 11, 30}), wantErr: true},
		{name: "end before start", f: fy(datePair{2025, 1, 1}, datePair{2024, 12, 31}), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, tt.f.Year)
		})
	}
}

func TestFiscalYearShortYear(t *testing.T) {
	f := fy(datePair{2025, 1, 1}, datePair{2025, 6, 30})
	f.IsShortYear = true
	require.NoError(t, f.Validate())
	assert.Equal(t, "2025", f.Year)
}

func TestFiscalYearsNeverOverlap(t *testing.T) {
	existing := []FiscalYear{
		fy(datePair{2024, 1, 1}, datePair{2024, 12, 31}),
		fy(datePair{2025, 1, 1}, datePair{2025, 12, 31}),
	}
	for i := range existing {
		require.NoError(t, existing[i].Validate())
	}

	tests := []struct {
		name    string
		f       FiscalYear
		wantErr bool
	}{
		{"adjacent after", fy(datePair{2026, 1, 1}, datePair{2026, 12, 31}), false},
		{"shares last day", fy(datePair{2025, 12, 31}, datePair{2026, 12, 30}), true},
		{"inside", fy(datePair{2024, 7, 1}, datePair{2025, 6, 30}), true},
		{"before all", fy(datePair{2023, 1, 1}, datePair{2023, 12, 31}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.f.Validate())
			err := tt.f.CheckOverlap(existing)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.IsCode(err, 409))
				return
			}
			assert.NoError(t, err)
		})
	}

	dup := fy(datePair{2030, 1, 1}, datePair{2030, 12, 31})
	dup.Year = "2025"
	assert.Error(t, dup.CheckOverlap(existing), "duplicate name")

	self := existing[0]
	assert.NoError(t, self.CheckOverlap(existing), "a year never overlaps itself")
}

func TestFiscalYearNextAndEndsWithin(t *testing.T) {
	f := fy(datePair{2025, 1, 1}, datePair{2025, 12, 31})
	require.NoError(t, f.Validate())

	next := f.Next()
	assert.Equal(t, "2026-01-01", FormatDate(next.YearStartDate))
	assert.Equal(t, "2026-12-31", FormatDate(next.YearEndDate))
	assert.Equal(t, "2026", next.Year)
	assert.True(t, next.AutoCreated)
	assert.NoError(t, next.CheckOverlap([]FiscalYear{f}))

	assert.True(t, f.EndsWithin(time.Date(2025, 12, 28, 15, 0, 0, 0, time.UTC), 3))
	assert.False(t, f.EndsWithin(time.Date(2025, 12, 27, 0, 0, 0, 0, time.UTC), 3))
	assert.True(t, f.Contains(time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, f.Contains(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func newID() uuid.UUID { return uuid.New() }
