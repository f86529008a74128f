package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"tpv-system/pos-svc/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct reports the first failing field as a domain.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Invalid("body", err.Error())
	}
	fe := verrs[0]
	return domain.Invalid(fieldPath(fe.Namespace()), describe(fe))
}

// fieldPath drops the root struct name: "CreateOrderInput.products[0].quantity"
// becomes "products[0].quantity".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "unique":
		return "must not contain duplicates"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}
