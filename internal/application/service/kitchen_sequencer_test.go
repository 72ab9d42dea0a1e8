package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

func TestSequenceBatch(t *testing.T) {
	mk := func(auto bool, status entity.DishStatus) *entity.Dish {
		return &entity.Dish{
			IsAutoDelivered: auto,
			Status:          status,
			Selections:      []entity.MenuSelection{{MenuItemID: "m"}},
		}
	}

	dishes := []*entity.Dish{
		mk(false, ""),
		mk(true, entity.DishStatusInRow),
		mk(false, ""),
		mk(false, entity.DishStatusConflict),
		mk(false, ""),
	}

	sequenceBatch(dishes, 41)

	wantIndex := []int{42, 43, 44, 45, 46}
	wantStatus := []entity.DishStatus{
		entity.DishStatusInRow,
		entity.DishStatusToPickup,
		entity.DishStatusInRow,
		entity.DishStatusConflict,
		entity.DishStatusInRow,
	}
	wantNote := []bool{false, false, true, false, true}

	for i, d := range dishes {
		assert.Equal(t, wantIndex[i], d.KitchenIndex, "index of dish %d", i)
		assert.Equal(t, wantStatus[i], d.Status, "status of dish %d", i)
		assert.Equal(t, wantNote[i], d.Selections[0].Notes == TortillasNote, "note of dish %d", i)
	}
}

func TestSequenceBatch_NoSelections(t *testing.T) {
	dishes := []*entity.Dish{{}, {}}

	assert.NotPanics(t, func() { sequenceBatch(dishes, 0) })
	assert.Equal(t, 2, dishes[1].KitchenIndex)
}

func TestKitchenSequencer_DayBoundary(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	repo := &mockDishRepo{}
	seq := NewKitchenSequencer(repo, loc)
	seq.now = func() time.Time { return time.Date(2026, 3, 10, 1, 30, 0, 0, loc) }

	start := seq.StartOfDay()
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, loc), start)
	assert.Same(t, loc, seq.Location())

	repo.dishes = []*entity.Dish{
		{ID: "late-yesterday", KitchenIndex: 120, CreatedAt: start.Add(-time.Minute)},
		{ID: "first", KitchenIndex: 1, CreatedAt: start},
		{ID: "second", KitchenIndex: 2, CreatedAt: start.Add(time.Hour)},
	}

	last, err := seq.LastIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, last)
}

func TestKitchenSequencer_EmptyDay(t *testing.T) {
	seq := NewKitchenSequencer(&mockDishRepo{}, nil)

	last, err := seq.LastIndex(context.Background())
	require.NoError(t, err)
	assert.Zero(t, last)
	assert.Equal(t, time.Local, seq.Location())
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	at := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC) // 21:00 on the 9th in CST

	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), startOfDay(at, loc))
	assert.Equal(t, time.Date(2026, 3, 9, 23, 59, 59, int(999*time.Millisecond), loc), endOfDay(at, loc))
}
