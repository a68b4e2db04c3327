package util

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/guregu/null.v3"
)

// measurement codes are upper snake case, e.g. BODY_LENGTH
var measurementCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	validate.RegisterValidation("measurementcode", measurementCode)
	validate.RegisterCustomTypeFunc(nullFloatValuer, null.Float{})
	validate.RegisterCustomTypeFunc(nullStringValuer, null.String{})

	return validate
}

// jsonTagName reports violations under the json field name clients send.
func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func measurementCode(fl validator.FieldLevel) bool {
	return measurementCodeRegex.MatchString(fl.Field().String())
}

func nullFloatValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.Float); ok {
		if !valuer.Valid {
			return nil
		}
		return valuer.Float64
	}

	return nil
}

func nullStringValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.String); ok {
		if !valuer.Valid {
			return nil
		}
		return valuer.String
	}

	return nil
}
