package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tandaWindow(name string, start, end *time.Time, isActive bool) *Tanda {
	return &Tanda{
		ID:        uuid.New(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		IsActive:  isActive,
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestResolveActiveTanda_WindowWins(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	past := tandaWindow("past", ptr(now.Add(-72*time.Hour)), ptr(now.Add(-48*time.Hour)), true)
	current := tandaWindow("current", ptr(now.Add(-time.Hour)), ptr(now.Add(time.Hour)), false)
	future := tandaWindow("future", ptr(now.Add(48*time.Hour)), nil, false)

	got := ResolveActiveTanda([]*Tanda{past, current, future}, now)
	require.NotNil(t, got)
	// the containing window is picked even though another tanda carries the
	// active flag
	assert.Equal(t, current.ID, got.ID)
}

func TestResolveActiveTanda_OpenEndedWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	open := tandaWindow("open", ptr(now.Add(-time.Hour)), nil, false)
	got := ResolveActiveTanda([]*Tanda{open}, now)
	require.NotNil(t, got)
	assert.Equal(t, open.ID, got.ID)

	noBounds := tandaWindow("boundless", nil, nil, false)
	got = ResolveActiveTanda([]*Tanda{noBounds}, now)
	require.NotNil(t, got)
	assert.Equal(t, noBounds.ID, got.ID)
}

func TestResolveActiveTanda_FlagFallback(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	closed := tandaWindow("closed", ptr(now.Add(-72*time.Hour)), ptr(now.Add(-48*time.Hour)), false)
	flagged := tandaWindow("flagged", ptr(now.Add(-96*time.Hour)), ptr(now.Add(-80*time.Hour)), true)

	got := ResolveActiveTanda([]*Tanda{closed, flagged}, now)
	require.NotNil(t, got)
	assert.Equal(t, flagged.ID, got.ID)
}

func TestResolveActiveTanda_EarliestFallback(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	later := tandaWindow("later", ptr(now.Add(48*time.Hour)), ptr(now.Add(72*time.Hour)), false)
	earlier := tandaWindow("earlier", ptr(now.Add(24*time.Hour)), ptr(now.Add(36*time.Hour)), false)

	got := ResolveActiveTanda([]*Tanda{later, earlier}, now)
	require.NotNil(t, got)
	assert.Equal(t, earlier.ID, got.ID)
}

func TestResolveActiveTanda_Empty(t *testing.T) {
	assert.Nil(t, ResolveActiveTanda(nil, time.Now()))
	assert.Nil(t, ResolveActiveTanda([]*Tanda{}, time.Now()))
}

func TestPriceFor(t *testing.T) {
	ttID := uuid.New()
	tanda := &Tanda{
		TicketTypes: []*TandaTicketType{
			{TicketTypeID: uuid.New(), Price: decimal.NewFromInt(80)},
			{TicketTypeID: ttID, Price: decimal.NewFromInt(120)},
		},
	}

	row, ok := tanda.PriceFor(ttID)
	require.True(t, ok)
	assert.True(t, row.Price.Equal(decimal.NewFromInt(120)))

	_, ok = tanda.PriceFor(uuid.New())
	assert.False(t, ok)
}
