package utils

import (
	"MeatFresh-Backend/pkg/freshness"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	if Validate != nil {
		return
	}
	Validate = NewValidator()
}

// NewValidator returns a validator with the freshness tags registered:
// level (1-5), environment and container.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return freshness.Level(fl.Field().Int()).Valid()
	})
	_ = v.RegisterValidation("environment", func(fl validator.FieldLevel) bool {
		return freshness.ParseEnvironment(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("container", func(fl validator.FieldLevel) bool {
		return freshness.ParseContainer(fl.Field().String()).Valid()
	})
	return v
}
