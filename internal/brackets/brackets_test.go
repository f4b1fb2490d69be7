package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultSchedule(t *testing.T) {
	schedule := DefaultSchedule()
	require.Len(t, schedule.Brackets, 6)

	labels := make([]string, 0, len(schedule.Brackets))
	discounts := make([]float64, 0, len(schedule.Brackets))
	for _, b := range schedule.Brackets {
		labels = append(labels, b.Label)
		discounts = append(discounts, b.Discount)
	}

	assert.Equal(t, []string{"0-50", "51-100", "101-200", "201-300", "301-500", "501+"}, labels)
	assert.Equal(t, []float64{0, 0.05, 0.10, 0.15, 0.20, 0.25}, discounts)

	last := schedule.Brackets[len(schedule.Brackets)-1]
	assert.Nil(t, last.MaxQty, "top bracket is open ended")

	require.NoError(t, validateSchedule(schedule))
}

func TestValidateSchedule(t *testing.T) {
	cases := []struct {
		name     string
		schedule Schedule
		wantErr  bool
	}{
		{
			name:     "empty",
			schedule: Schedule{},
			wantErr:  true,
		},
		{
			name: "missing label",
			schedule: Schedule{Brackets: []Bracket{
				{Label: "", Discount: 0},
			}},
			wantErr: true,
		},
		{
			name: "discount above one",
			schedule: Schedule{Brackets: []Bracket{
				{Label: "0-50", Discount: 1.5},
			}},
			wantErr: true,
		},
		{
			name: "decreasing discounts",
			schedule: Schedule{Brackets: []Bracket{
				{Label: "0-50", Discount: 0.10},
				{Label: "51+", Discount: 0.05},
			}},
			wantErr: true,
		},
		{
			name: "valid",
			schedule: Schedule{Brackets: []Bracket{
				{Label: "0-100", Discount: 0},
				{Label: "101+", Discount: 0.10},
			}},
			wantErr: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSchedule(tc.schedule)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHolderServesDefaultsWithoutConfigFile(t *testing.T) {
	holder, err := NewHolder(zap.NewNop())
	require.NoError(t, err)

	schedule := holder.Get()
	require.Len(t, schedule.Brackets, 6)
	assert.Equal(t, "0-50", schedule.Brackets[0].Label)
}
