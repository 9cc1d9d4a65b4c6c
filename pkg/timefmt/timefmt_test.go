package timefmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreToDisplay(t *testing.T) {
	out, err := StoreToDisplay("2021-05-03T10:15:00")
	require.NoError(t, err)
	assert.Equal(t, "2021-05-03 10:15:00", out)
}

func TestStoreToDisplayStripsUTCMarker(t *testing.T) {
	out, err := StoreToDisplay("2021-05-03T10:15:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2021-05-03 10:15:00", out)
}

func TestStoreToDisplayRejectsOtherPatterns(t *testing.T) {
	for _, input := range []string{
		"2021-05-03",
		"2021-05-03 10:15:00",
		"2021-05-03T10:15:00+02:00",
		"NULL",
		"",
	} {
		_, err := StoreToDisplay(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestRoundTrip(t *testing.T) {
	parsed, err := ParseStore("2021-05-03T10:15:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2021-05-03 10:15:00", Display(parsed))
}

func TestNowStoreShape(t *testing.T) {
	value := NowStore()
	assert.Len(t, value, len(StoreLayout)+1)
	assert.Equal(t, byte('Z'), value[len(value)-1])

	// NowStore output must itself be coercible.
	_, err := StoreToDisplay(value)
	assert.NoError(t, err)
}
