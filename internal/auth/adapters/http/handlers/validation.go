package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskflow/internal/auth/domain/entities"
)

// newValidator создает валидатор, использующий имена полей из тегов json.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors сопоставляет поле запроса с ошибкой валидации домена.
var fieldErrors = map[string]map[string]error{
	"username": {"required": entities.ErrEmptyUsername, "max": entities.ErrUsernameTooLong},
	"email":    {"email": entities.ErrInvalidEmail},
	"password": {"required": entities.ErrPasswordTooShort},
}

// validateRequest проверяет структуру запроса и возвращает ошибку из семейства entities.ErrValidation.
func validateRequest(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %w", entities.ErrValidation, err)
	}

	first := fieldErrs[0]
	if known, ok := fieldErrors[first.Field()][first.Tag()]; ok {
		return known
	}
	return fmt.Errorf("%w: field %s failed on %s", entities.ErrValidation, first.Field(), first.Tag())
}
