// Package validate wraps go-playground/validator with readable messages keyed
// by JSON field names.
package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator validates structs using `validate` tags.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// Registration only fails for an empty tag or a nil func.
	_ = v.RegisterValidation("finite", finite)
	return &Validator{validate: v}
}

// finite rejects NaN and ±Inf floats. Other kinds pass.
func finite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return true
}

// Struct validates s and returns a single error listing every failed field.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if e.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s failed %s=%s", field, e.Tag(), e.Param()))
		} else {
			messages = append(messages, fmt.Sprintf("%s failed %s", field, e.Tag()))
		}
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}
