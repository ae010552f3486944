package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/place-microservice/internal/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// required пропускает строку из пробелов
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
}

// Validate - валидация структуры; ошибки полей превращаются в ErrInvalidRequest с деталями
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.ErrInvalidRequest.Wrap(err)
	}

	details := make(map[string]interface{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on '%s'", fe.Tag())
	}
	return errors.ErrInvalidRequest.WithDetails(details).Wrap(err)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
