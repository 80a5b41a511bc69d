package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks request payloads that failed struct validation.
// Handlers map anything wrapping it to a 400 instead of a server error.
var ErrValidation = errors.New("validation failed")

var validate = validator.New()

// ValidateStruct runs the struct's validate tags and folds any failures
// into a single error wrapping ErrValidation.
func ValidateStruct(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed on tag '%s'", fe.StructNamespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, "; "))
}
