package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// ComplementNames are the catalog names of the items every package comes with
type ComplementNames struct {
	Coffee string
	Tea    string
	Fruit  string
}

// DefaultComplementNames matches the seeded menu
var DefaultComplementNames = ComplementNames{
	Coffee: "Cafe de paquete",
	Tea:    "Te de paquete",
	Fruit:  "Fruta de paquete",
}

// complementItems holds the resolved catalog entries
type complementItems struct {
	coffee *entity.MenuItem
	tea    *entity.MenuItem
	fruit  *entity.MenuItem
}

// ComplementGenerator derives the free side dishes of compound dishes
type ComplementGenerator struct {
	catalog port.MenuCatalog
	names   ComplementNames
	logger  Logger
}

// NewComplementGenerator creates a ComplementGenerator
func NewComplementGenerator(catalog port.MenuCatalog, names ComplementNames, logger Logger) *ComplementGenerator {
	return &ComplementGenerator{
		catalog: catalog,
		names:   names,
		logger:  logger,
	}
}

// resolve looks the three complement items up concurrently. It returns nil
// without error when any of them is missing from the catalog.
func (g *ComplementGenerator) resolve(ctx context.Context) (*complementItems, error) {
	var items complementItems

	eg, egCtx := errgroup.WithContext(ctx)
	lookup := func(name string, dst **entity.MenuItem) {
		eg.Go(func() error {
			item, err := g.catalog.GetByName(egCtx, name)
			if err != nil {
				return fmt.Errorf("failed to look up %q: %w", name, err)
			}
			*dst = item
			return nil
		})
	}
	lookup(g.names.Coffee, &items.coffee)
	lookup(g.names.Tea, &items.tea)
	lookup(g.names.Fruit, &items.fruit)

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if items.coffee == nil || items.tea == nil || items.fruit == nil {
		g.logger.Warn("Complement menu items missing, skipping complements",
			"coffee", g.names.Coffee, "coffee_found", items.coffee != nil,
			"tea", g.names.Tea, "tea_found", items.tea != nil,
			"fruit", g.names.Fruit, "fruit_found", items.fruit != nil,
		)
		return nil, nil
	}

	return &items, nil
}

// build returns two complements per compound parent: fruit first, then coffee
// or tea depending on the parent's preference. Parents must already have ids.
func (g *ComplementGenerator) build(parents []*entity.Dish, items *complementItems) []*entity.Dish {
	if items == nil {
		return nil
	}

	var complements []*entity.Dish
	for _, parent := range parents {
		if parent.Type != entity.DishTypeCompound {
			continue
		}

		drink := items.tea
		if parent.WantsCoffee() {
			drink = items.coffee
		}

		for _, item := range []*entity.MenuItem{items.fruit, drink} {
			complements = append(complements, &entity.Dish{
				OrderID: parent.OrderID,
				Selections: []entity.MenuSelection{
					{MenuItemID: item.ID, AttributesSelected: []entity.AttributeSelected{}},
				},
				ComplementOfDishID: parent.ID,
				Type:               entity.DishTypeSingle,
				IsAutoDelivered:    true,
				Cost:               decimal.Zero,
				KitchenIndex:       parent.KitchenIndex,
				Status:             entity.DishStatusToPickup,
			})
		}
	}

	return complements
}

func hasCompound(dishes []*entity.Dish) bool {
	for _, d := range dishes {
		if d.Type == entity.DishTypeCompound {
			return true
		}
	}
	return false
}
