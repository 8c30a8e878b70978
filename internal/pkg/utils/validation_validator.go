package utils

import (
	"medrecords-service/internal/app/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("role", validateRole)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateRole(fl validator.FieldLevel) bool {
	_, err := models.ParseRole(fl.Field().String())
	return err == nil
}
