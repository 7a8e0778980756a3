package request

import (
	"carwash_payouts/internal/domain/entities"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidations adds the money and itemkind tags to gin's validator.
func RegisterValidations() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = registerOn(v)
	})
	return err
}

func registerOn(v *validator.Validate) error {
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return err
	}
	return v.RegisterValidation("itemkind", validateItemKind)
}

// money: a decimal string with at most two fractional digits.
func validateMoney(fl validator.FieldLevel) bool {
	_, err := entities.ParseMoney(fl.Field().String())
	return err == nil
}

func validateItemKind(fl validator.FieldLevel) bool {
	return entities.ItemKind(fl.Field().String()).Valid()
}
