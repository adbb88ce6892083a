package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcceptsShortForm(t *testing.T) {
	tod, err := Parse("08:30")
	require.NoError(t, err)
	assert.Equal(t, "08:30:00", tod.String())
	assert.Equal(t, 8*60+30, tod.Minutes())
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("25:99")
	assert.Error(t, err)
}

func TestScanAndValueRoundTrip(t *testing.T) {
	var tod Tod
	require.NoError(t, tod.Scan([]byte("17:45:10")))
	v, err := tod.Value()
	require.NoError(t, err)
	assert.Equal(t, "17:45:10", v)

	require.NoError(t, tod.Scan(time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)))
	assert.Equal(t, "06:00:00", tod.String())
}

func TestOnKeepsDate(t *testing.T) {
	day := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	got := MustParse("09:15:00").On(day)
	assert.Equal(t, time.Date(2024, 3, 9, 9, 15, 0, 0, time.UTC), got)
}

func TestJSON(t *testing.T) {
	b, err := MustParse("10:00").MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"10:00:00"`, string(b))

	var tod Tod
	require.NoError(t, tod.UnmarshalJSON([]byte(`"22:05"`)))
	assert.Equal(t, 22*60+5, tod.Minutes())
}

func TestIsPastDateSameDayIsOpen(t *testing.T) {
	closeDate := time.Date(2024, 6, 10, 0, 0, 0, 0, Location())
	assert.False(t, IsPastDate(closeDate, time.Date(2024, 6, 10, 22, 0, 0, 0, Location())))
	assert.True(t, IsPastDate(closeDate, time.Date(2024, 6, 11, 0, 1, 0, 0, Location())))
}
