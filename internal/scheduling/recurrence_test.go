package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandFourWeeks(t *testing.T) {
	cells := Expand(MustParseDate("2025-01-06"), 1, RecurrenceMonth)
	assert.Equal(t, []Cell{
		{Date: MustParseDate("2025-01-06"), TimeslotID: 1},
		{Date: MustParseDate("2025-01-13"), TimeslotID: 1},
		{Date: MustParseDate("2025-01-20"), TimeslotID: 1},
		{Date: MustParseDate("2025-01-27"), TimeslotID: 1},
	}, cells)
}

func TestExpandTwelveWeeksCrossesYear(t *testing.T) {
	cells := Expand(MustParseDate("2025-11-30"), 5, RecurrenceQuarter)
	require.Len(t, cells, 12)
	for i := 1; i < len(cells); i++ {
		assert.Equal(t, 7, cells[i-1].Date.DaysUntil(cells[i].Date))
		assert.Equal(t, 5, cells[i].TimeslotID)
	}
	assert.Equal(t, MustParseDate("2026-02-15"), cells[11].Date)
}

func TestIsSupportedRecurrence(t *testing.T) {
	assert.True(t, IsSupportedRecurrence(4))
	assert.True(t, IsSupportedRecurrence(12))
	assert.False(t, IsSupportedRecurrence(8))
	assert.Nil(t, Expand(MustParseDate("2025-01-06"), 1, 0))
}
