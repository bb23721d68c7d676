package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sideby/teachconnect/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the app's custom rules
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("post_type", func(fl validator.FieldLevel) bool {
		return entities.PostType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// Describe turns validation errors into a short human readable message
func Describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
