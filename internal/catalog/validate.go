package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func productValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			d, ok := v.Interface().(decimal.Decimal)
			if !ok {
				return nil
			}
			f, _ := d.Float64()
			return f
		}, decimal.Decimal{})
		validate.RegisterStructValidation(func(sl validator.StructLevel) {
			p := sl.Current().Interface().(model.Product)
			if p.SalePrice != nil && !p.SalePrice.LessThan(p.Price) {
				sl.ReportError(p.SalePrice, "SalePrice", "SalePrice", "ltprice", "")
			}
		}, model.Product{})
	})
	return validate
}

// ValidateProducts checks the data-model invariants of mapped products and describes each
// violation. Invalid products are not removed; callers surface the warnings.
func ValidateProducts(products []model.Product) []string {
	v := productValidator()

	warnings := make([]string, 0)
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			warnings = append(warnings, fmt.Sprintf("%s: duplicate product id", p.ID))
		}
		seen[p.ID] = struct{}{}

		err := v.Struct(p)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			warnings = append(warnings, fmt.Sprintf("%s: %v", p.ID, err))
			continue
		}
		for _, fe := range verrs {
			warnings = append(warnings, fmt.Sprintf("%s: %s failed %s%s", p.ID, fe.Namespace(), fe.Tag(), paramSuffix(fe.Param())))
		}
	}
	return warnings
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return "=" + param
}
