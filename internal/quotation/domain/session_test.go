package domain

import (
	"testing"

	exchangedomain "github.com/alldenims/pricequote/internal/exchange/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStartsAsDraft(t *testing.T) {
	s := NewSession()

	assert.Equal(t, StateDraft, s.State())

	_, err := s.Snapshot()
	assert.ErrorIs(t, err, ErrNotCalculated)
}

func TestSessionSnapshotAfterCalculation(t *testing.T) {
	s := NewSession()
	fabric := MaterialLine{UnitPrice: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(10), Currency: exchangedomain.EUR}
	params := CascadeParams{VATPct: decimal.NewFromInt(18), ProfitPct: decimal.NewFromInt(20)}

	s.SetFabric(fabric)
	s.SetLaborCost(decimal.NewFromInt(500))
	s.SetParams(params)
	s.MarkCalculated()

	require.Equal(t, StateCalculated, s.State())

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.True(t, snap.Fabric.UnitPrice.Equal(fabric.UnitPrice))
	assert.True(t, snap.LaborCost.Equal(decimal.NewFromInt(500)))
	assert.True(t, snap.Params.VATPct.Equal(params.VATPct))
}

func TestSessionInputChangeInvalidatesResult(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Session)
	}{
		{"fabric", func(s *Session) { s.SetFabric(MaterialLine{}) }},
		{"lining", func(s *Session) { s.SetLining(MaterialLine{}) }},
		{"trim", func(s *Session) { s.SetTrim(MaterialLine{}) }},
		{"labor", func(s *Session) { s.SetLaborCost(decimal.NewFromInt(1)) }},
		{"params", func(s *Session) { s.SetParams(CascadeParams{}) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSession()
			s.MarkCalculated()
			require.Equal(t, StateCalculated, s.State())

			tc.mutate(s)

			assert.Equal(t, StateDraft, s.State())
			_, err := s.Snapshot()
			assert.ErrorIs(t, err, ErrNotCalculated)
		})
	}
}
