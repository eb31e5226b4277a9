package handlers

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/SscSPs/association_ledger/internal/core/domain"
	"github.com/SscSPs/association_ledger/internal/utils/accounting"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the ledger binding rules on gin's validator:
// "accountcode" for chart codes and "amount2dp" for non-negative amounts
// with at most two decimals. Decimal fields are validated through their
// string form.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		if registerErr = v.RegisterValidation("accountcode", validateAccountCode); registerErr != nil {
			return
		}
		registerErr = v.RegisterValidation("amount2dp", validateAmount2dp)
	})
	return registerErr
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func validateAccountCode(fl validator.FieldLevel) bool {
	return domain.ValidateAccountCode(fl.Field().String()) == nil
}

func validateAmount2dp(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return accounting.ValidateAmount(fl.FieldName(), d) == nil
}
