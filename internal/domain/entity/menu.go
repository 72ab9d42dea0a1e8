package entity

import "github.com/shopspring/decimal"

// MenuItem is a read-only catalog entry used to price and annotate dishes
type MenuItem struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Source          string          `json:"source"`
	IsAutoDelivered bool            `json:"is_auto_delivered"`
	IsHidden        bool            `json:"is_hidden"`
	Cost            decimal.Decimal `json:"cost"`
	Attributes      []MenuAttribute `json:"attributes"`
}

// MenuAttribute describes a selectable option on a menu item
type MenuAttribute struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}
