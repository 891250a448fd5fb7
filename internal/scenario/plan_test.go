package scenario

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPlans(t *testing.T) {
	input := `
scenarios:
  - title: Late excavation
    activity: 1
    delta_days: 2
  - activity: 3
    delta_days: -1.5
`
	plans, err := ReadPlans(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Plan{
		{Title: "Late excavation", ActivityID: 1, DeltaDays: 2},
		{ActivityID: 3, DeltaDays: -1.5},
	}, plans)
}

func TestReadPlans_Empty(t *testing.T) {
	plans, err := ReadPlans(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestReadPlans_Invalid(t *testing.T) {
	_, err := ReadPlans(strings.NewReader("scenarios: [unclosed"))
	assert.Error(t, err)
}

func TestLibrary_SaveAllStopsAtRejection(t *testing.T) {
	lib := newTestLibrary(t)

	saved, err := lib.SaveAll([]Plan{
		{ActivityID: 1, DeltaDays: 1},
		{ActivityID: 99, DeltaDays: 1},
		{ActivityID: 2, DeltaDays: 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownActivity)
	assert.Contains(t, err.Error(), "plan 2")
	assert.Len(t, saved, 1)
	assert.Equal(t, 1, lib.Len())
}
