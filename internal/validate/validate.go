package validate

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DecimalValue exposes decimal fields to the validator as float64 so
// numeric tags such as gte apply to prices.
func DecimalValue(v reflect.Value) interface{} {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

func New() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterCustomTypeFunc(DecimalValue, decimal.Decimal{})
	return validate
}
