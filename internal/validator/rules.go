package validator

import (
	"github.com/go-playground/validator/v10"

	"ensemble_backend/internal/models"
)

// registerCustomRules adds domain rules used by the DTO tags.
func registerCustomRules(v *validator.Validate) {
	// "strategy" accepts the closed set of dispatch strategies.
	_ = v.RegisterValidation("strategy", func(fl validator.FieldLevel) bool {
		switch models.NeedStrategy(fl.Field().String()) {
		case models.NeedStrategySequential, models.NeedStrategyParallel, models.NeedStrategyFirstCome:
			return true
		}
		return false
	})
}
