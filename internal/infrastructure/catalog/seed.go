// Package catalog loads menu items from a YAML seed file into a menu store
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

// seedNamespace scopes the ids derived from item names
var seedNamespace = uuid.MustParse("6f1c2a7e-4b0d-4e55-9d3a-0c6c1b8f52a1")

type seedFile struct {
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	Description     string          `yaml:"description"`
	Category        string          `yaml:"category"`
	Source          string          `yaml:"source"`
	IsAutoDelivered bool            `yaml:"is_auto_delivered"`
	IsHidden        bool            `yaml:"is_hidden"`
	Cost            string          `yaml:"cost"`
	Attributes      []seedAttribute `yaml:"attributes"`
}

type seedAttribute struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Options []string `yaml:"options"`
}

// LoadFile reads a seed file from disk
func LoadFile(path string) ([]*entity.MenuItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates seed items. Items without an id get one derived
// from their name so reseeding updates rather than duplicates them.
func Load(r io.Reader) ([]*entity.MenuItem, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	seen := make(map[string]bool, len(file.Items))
	items := make([]*entity.MenuItem, 0, len(file.Items))
	for i, raw := range file.Items {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			return nil, fmt.Errorf("item %d: name is required", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("item %d: duplicate name %q", i+1, name)
		}
		seen[name] = true

		cost := decimal.Zero
		if raw.Cost != "" {
			var err error
			if cost, err = decimal.NewFromString(raw.Cost); err != nil {
				return nil, fmt.Errorf("item %q: invalid cost %q: %w", name, raw.Cost, err)
			}
		}
		if cost.IsNegative() {
			return nil, fmt.Errorf("item %q: cost must not be negative", name)
		}

		id := raw.ID
		if id == "" {
			id = uuid.NewSHA1(seedNamespace, []byte(name)).String()
		}

		attrs := make([]entity.MenuAttribute, 0, len(raw.Attributes))
		for _, a := range raw.Attributes {
			attrs = append(attrs, entity.MenuAttribute{Name: a.Name, Type: a.Type, Options: a.Options})
		}

		items = append(items, &entity.MenuItem{
			ID:              id,
			Name:            name,
			Description:     raw.Description,
			Category:        raw.Category,
			Source:          raw.Source,
			IsAutoDelivered: raw.IsAutoDelivered,
			IsHidden:        raw.IsHidden,
			Cost:            cost,
			Attributes:      attrs,
		})
	}
	return items, nil
}

// Seed upserts every item and returns how many were written
func Seed(ctx context.Context, writer port.MenuWriter, items []*entity.MenuItem, logger *zap.Logger) (int, error) {
	for i, item := range items {
		if err := writer.Save(ctx, item); err != nil {
			return i, fmt.Errorf("failed to save %q: %w", item.Name, err)
		}
		logger.Debug("Menu item saved", zap.String("id", item.ID), zap.String("name", item.Name))
	}
	logger.Info("Menu seeded", zap.Int("items", len(items)))
	return len(items), nil
}
