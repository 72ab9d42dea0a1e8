package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

type chargeDoc struct {
	ID          string               `bson:"id"`
	Name        string               `bson:"name"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Description string               `bson:"description,omitempty"`
}

type orderDoc struct {
	ID            string               `bson:"_id"`
	Table         int                  `bson:"table"`
	People        int                  `bson:"people"`
	WaiterID      string               `bson:"waiter_id"`
	Status        string               `bson:"status"`
	Active        bool                 `bson:"active"`
	Account       primitive.Decimal128 `bson:"account"`
	Tip           primitive.Decimal128 `bson:"tip"`
	CustomCharges []chargeDoc          `bson:"custom_charges"`
	PaymentType   string               `bson:"payment_type,omitempty"`
	CardTxNumber  string               `bson:"card_tx_number,omitempty"`
	CashReceived  primitive.Decimal128 `bson:"cash_received"`
	CashReturned  primitive.Decimal128 `bson:"cash_returned"`
	CancelReason  string               `bson:"cancel_reason,omitempty"`
	Version       int64                `bson:"version"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func newOrderDoc(o *entity.Order) (*orderDoc, error) {
	doc := &orderDoc{
		ID:            o.ID,
		Table:         o.Table,
		People:        o.People,
		WaiterID:      o.WaiterID,
		Status:        string(o.Status),
		Active:        o.Status.IsActive(),
		CustomCharges: make([]chargeDoc, 0, len(o.CustomCharges)),
		PaymentType:   string(o.PaymentType),
		CardTxNumber:  o.CardTxNumber,
		CancelReason:  o.CancelReason,
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	var err error
	if doc.Account, err = toDecimal128(o.Account); err != nil {
		return nil, err
	}
	if doc.Tip, err = toDecimal128(o.Tip); err != nil {
		return nil, err
	}
	if doc.CashReceived, err = toDecimal128(o.CashReceived); err != nil {
		return nil, err
	}
	if doc.CashReturned, err = toDecimal128(o.CashReturned); err != nil {
		return nil, err
	}
	for _, c := range o.CustomCharges {
		amount, err := toDecimal128(c.Amount)
		if err != nil {
			return nil, err
		}
		doc.CustomCharges = append(doc.CustomCharges, chargeDoc{ID: c.ID, Name: c.Name, Amount: amount, Description: c.Description})
	}
	return doc, nil
}

func (d *orderDoc) entity() (*entity.Order, error) {
	o := &entity.Order{
		ID:            d.ID,
		Table:         d.Table,
		People:        d.People,
		WaiterID:      d.WaiterID,
		Status:        entity.OrderStatus(d.Status),
		CustomCharges: make([]entity.CustomCharge, 0, len(d.CustomCharges)),
		PaymentType:   entity.PaymentType(d.PaymentType),
		CardTxNumber:  d.CardTxNumber,
		CancelReason:  d.CancelReason,
		Version:       d.Version,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}

	var err error
	if o.Account, err = fromDecimal128(d.Account); err != nil {
		return nil, err
	}
	if o.Tip, err = fromDecimal128(d.Tip); err != nil {
		return nil, err
	}
	if o.CashReceived, err = fromDecimal128(d.CashReceived); err != nil {
		return nil, err
	}
	if o.CashReturned, err = fromDecimal128(d.CashReturned); err != nil {
		return nil, err
	}
	for _, c := range d.CustomCharges {
		amount, err := fromDecimal128(c.Amount)
		if err != nil {
			return nil, err
		}
		o.CustomCharges = append(o.CustomCharges, entity.CustomCharge{ID: c.ID, Name: c.Name, Amount: amount, Description: c.Description})
	}
	return o, nil
}

type attributeDoc struct {
	Name  string      `bson:"name"`
	Type  string      `bson:"type"`
	Value interface{} `bson:"value,omitempty"`
}

type selectionDoc struct {
	MenuItemID         string         `bson:"menu_item_id"`
	AttributesSelected []attributeDoc `bson:"attributes_selected"`
	Notes              string         `bson:"notes,omitempty"`
	AlreadyDelivered   bool           `bson:"already_delivered,omitempty"`
}

type dishDoc struct {
	ID                 string               `bson:"_id"`
	OrderID            string               `bson:"order_id"`
	Selections         []selectionDoc       `bson:"selections"`
	ComplementOfDishID string               `bson:"complement_of_dish_id,omitempty"`
	ChefID             string               `bson:"chef_id,omitempty"`
	Type               string               `bson:"type"`
	IsAutoDelivered    bool                 `bson:"is_auto_delivered"`
	Cost               primitive.Decimal128 `bson:"cost"`
	KitchenIndex       int                  `bson:"kitchen_index"`
	Status             string               `bson:"status"`
	ConflictReason     string               `bson:"conflict_reason,omitempty"`
	IsComplementCoffee *bool                `bson:"is_complement_coffee,omitempty"`
	CreatedAt          time.Time            `bson:"created_at"`
	UpdatedAt          time.Time            `bson:"updated_at"`
}

func newDishDoc(d *entity.Dish) (*dishDoc, error) {
	cost, err := toDecimal128(d.Cost)
	if err != nil {
		return nil, err
	}

	selections := make([]selectionDoc, 0, len(d.Selections))
	for _, s := range d.Selections {
		attrs := make([]attributeDoc, 0, len(s.AttributesSelected))
		for _, a := range s.AttributesSelected {
			attrs = append(attrs, attributeDoc{Name: a.Name, Type: a.Type, Value: a.Value})
		}
		selections = append(selections, selectionDoc{
			MenuItemID:         s.MenuItemID,
			AttributesSelected: attrs,
			Notes:              s.Notes,
			AlreadyDelivered:   s.AlreadyDelivered,
		})
	}

	return &dishDoc{
		ID:                 d.ID,
		OrderID:            d.OrderID,
		Selections:         selections,
		ComplementOfDishID: d.ComplementOfDishID,
		ChefID:             d.ChefID,
		Type:               string(d.Type),
		IsAutoDelivered:    d.IsAutoDelivered,
		Cost:               cost,
		KitchenIndex:       d.KitchenIndex,
		Status:             string(d.Status),
		ConflictReason:     d.ConflictReason,
		IsComplementCoffee: d.IsComplementCoffee,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}

func (d *dishDoc) entity() (*entity.Dish, error) {
	cost, err := fromDecimal128(d.Cost)
	if err != nil {
		return nil, err
	}

	selections := make([]entity.MenuSelection, 0, len(d.Selections))
	for _, s := range d.Selections {
		attrs := make([]entity.AttributeSelected, 0, len(s.AttributesSelected))
		for _, a := range s.AttributesSelected {
			attrs = append(attrs, entity.AttributeSelected{Name: a.Name, Type: a.Type, Value: a.Value})
		}
		selections = append(selections, entity.MenuSelection{
			MenuItemID:         s.MenuItemID,
			AttributesSelected: attrs,
			Notes:              s.Notes,
			AlreadyDelivered:   s.AlreadyDelivered,
		})
	}

	return &entity.Dish{
		ID:                 d.ID,
		OrderID:            d.OrderID,
		Selections:         selections,
		ComplementOfDishID: d.ComplementOfDishID,
		ChefID:             d.ChefID,
		Type:               entity.DishType(d.Type),
		IsAutoDelivered:    d.IsAutoDelivered,
		Cost:               cost,
		KitchenIndex:       d.KitchenIndex,
		Status:             entity.DishStatus(d.Status),
		ConflictReason:     d.ConflictReason,
		IsComplementCoffee: d.IsComplementCoffee,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}, nil
}

type dishLogDoc struct {
	ID        string    `bson:"_id"`
	DishID    string    `bson:"dish_id"`
	Action    string    `bson:"action"`
	Value     string    `bson:"value"`
	UserID    string    `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type menuAttributeDoc struct {
	Name    string   `bson:"name"`
	Type    string   `bson:"type"`
	Options []string `bson:"options,omitempty"`
}

type menuItemDoc struct {
	ID              string               `bson:"_id"`
	Name            string               `bson:"name"`
	Description     string               `bson:"description"`
	Category        string               `bson:"category"`
	Source          string               `bson:"source"`
	IsAutoDelivered bool                 `bson:"is_auto_delivered"`
	IsHidden        bool                 `bson:"is_hidden"`
	Cost            primitive.Decimal128 `bson:"cost"`
	Attributes      []menuAttributeDoc   `bson:"attributes"`
}
