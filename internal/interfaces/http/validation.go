package http

import (
	"fmt"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
	"github.com/MiguelMtzP/crm-restaurant-backend/pkg/utils"
)

// RegisterValidators adds the domain enum tags to gin's validator and lets
// numeric tags such as gte=0 apply to decimal amounts
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	tags := map[string]validator.Func{
		"order_status": utils.EnumValidator(func(s string) bool { return entity.OrderStatus(s).IsValid() }),
		"dish_status":  utils.EnumValidator(func(s string) bool { return entity.DishStatus(s).IsValid() }),
		"dish_type":    utils.EnumValidator(func(s string) bool { return entity.DishType(s).IsValid() }),
		"payment_type": utils.EnumValidator(func(s string) bool { return entity.PaymentType(s).IsValid() }),
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}
