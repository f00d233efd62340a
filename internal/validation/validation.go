package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tags registered by Register.
const (
	// TagMoney accepts amounts greater than zero with at most two decimal places.
	TagMoney = "money"
	// TagMoneyOrZero accepts zero as well.
	TagMoneyOrZero = "money_or_zero"
)

// Register adds the project's custom types and rules to v.
func Register(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation(TagMoney, validateMoney(false)); err != nil {
		return fmt.Errorf("failed to register %s validation: %w", TagMoney, err)
	}
	if err := v.RegisterValidation(TagMoneyOrZero, validateMoney(true)); err != nil {
		return fmt.Errorf("failed to register %s validation: %w", TagMoneyOrZero, err)
	}
	return nil
}

// RegisterWithGin installs the custom rules into gin's binding validator.
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return Register(v)
}

// decimalValue lets validation tags see a decimal as its string form.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func validateMoney(allowZero bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if raw == "" {
			return false
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return false
		}
		if d.IsNegative() || (!allowZero && d.IsZero()) {
			return false
		}
		return d.Equal(d.Round(2))
	}
}

// IsUUID reports whether s is a canonical UUID.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Describe turns validator errors into a short message naming each failed field.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case TagMoney:
			msgs = append(msgs, fmt.Sprintf("%s must be a positive amount with at most two decimals", fe.Field()))
		case TagMoneyOrZero:
			msgs = append(msgs, fmt.Sprintf("%s must be zero or a positive amount with at most two decimals", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid e-mail address", fe.Field()))
		case "uuid":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid ID", fe.Field()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
