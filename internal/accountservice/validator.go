package accountservice

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Jaza/copernicus-api/internal/domain"
	"github.com/Jaza/copernicus-api/pkg/web"
)

// ValidDecimal validates whether the field holds a decimal number string.
var ValidDecimal validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := decimal.NewFromString(s)

	return err == nil
}

// constraintKeys names violated tags the way API clients expect them in the constraints map.
var constraintKeys = map[string]string{
	"required": "isNotEmpty",
	"min":      "isLength",
	"max":      "isLength",
	"len":      "isLength",
	"numeric":  "isNumberString",
	"uuid4":    "isUUID",
	"oneof":    "isIn",
	"decimal":  "isDecimal",
}

func constraintKey(tag string) string {
	if key, ok := constraintKeys[tag]; ok {
		return key
	}

	return tag
}

// newValidator returns validator that reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	// The tag is free and the func is non-nil, registration cannot fail.
	_ = v.RegisterValidation("decimal", ValidDecimal)

	return v
}

// validateAccount checks the account against its field rules.
//
// It returns *domain.ValidationError listing every violation, or nil.
func validateAccount(v *validator.Validate, a domain.Account) error {
	err := v.Struct(a)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	byField := map[string]*domain.FieldViolation{}
	violations := []*domain.FieldViolation{}

	for _, fe := range ve {
		fv, ok := byField[fe.Field()]
		if !ok {
			fv = &domain.FieldViolation{
				Property:    fe.Field(),
				Value:       fe.Value(),
				Constraints: map[string]string{},
			}
			byField[fe.Field()] = fv
			violations = append(violations, fv)
		}

		fv.Constraints[constraintKey(fe.Tag())] = web.GetErrorMsg(fe)
	}

	res := &domain.ValidationError{}
	for _, fv := range violations {
		res.Violations = append(res.Violations, *fv)
	}

	return res
}
