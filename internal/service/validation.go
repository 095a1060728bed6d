package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
)

// NewValidator builds the request validator shared by the services. Field
// names are taken from the json tag so rejection messages name the field as
// it appears on the wire.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError surfaces the first failing field to the client instead of
// a generic payload message.
func validationError(err error, fallback string) *appErrors.Error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		msg := fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
		if fe.Tag() == "required" {
			msg = fmt.Sprintf("%s is required", fe.Field())
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msg)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fallback)
}
