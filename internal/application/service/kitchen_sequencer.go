package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// TortillasNote is appended to every second non-auto-delivered dish of a batch
const TortillasNote = ", \nIncluye Tortillas!"

// KitchenSequencer assigns the shared, daily-reset kitchen ticket order.
// The sequence is derived from persisted dishes only, so it survives restarts
// and works across replicas.
type KitchenSequencer struct {
	dishes   port.DishRepository
	location *time.Location
	now      func() time.Time
}

// NewKitchenSequencer creates a sequencer whose day boundary is local midnight in loc
func NewKitchenSequencer(dishes port.DishRepository, loc *time.Location) *KitchenSequencer {
	if loc == nil {
		loc = time.Local
	}
	return &KitchenSequencer{
		dishes:   dishes,
		location: loc,
		now:      time.Now,
	}
}

// StartOfDay returns local midnight of the current day
func (k *KitchenSequencer) StartOfDay() time.Time {
	return startOfDay(k.now(), k.location)
}

// Location returns the time zone used for day boundaries
func (k *KitchenSequencer) Location() *time.Location {
	return k.location
}

// LastIndex returns the highest kitchen index assigned today, 0 if none
func (k *KitchenSequencer) LastIndex(ctx context.Context) (int, error) {
	last, err := k.dishes.MaxKitchenIndexSince(ctx, k.StartOfDay())
	if err != nil {
		return 0, fmt.Errorf("failed to read last kitchen index: %w", err)
	}
	return last, nil
}

// sequenceBatch numbers a batch after lastIndex in input order, sets initial
// statuses and alternates the tortillas note over non-auto-delivered dishes.
func sequenceBatch(dishes []*entity.Dish, lastIndex int) {
	counter := 0
	for i, dish := range dishes {
		dish.KitchenIndex = lastIndex + i + 1

		if dish.IsAutoDelivered {
			dish.Status = entity.DishStatusToPickup
			continue
		}
		if dish.Status == "" {
			dish.Status = entity.DishStatusInRow
		}

		counter++
		if counter%2 == 0 && len(dish.Selections) > 0 {
			dish.Selections[0].Notes += TortillasNote
		}
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
}
