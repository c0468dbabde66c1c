package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

// MaxHarga is the exclusive upper bound of a numeric(15,2) column.
var MaxHarga = decimal.New(1, 13)

func init() {
	// Pakai nama json supaya field error sama dengan nama field form
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank: tidak boleh kosong setelah spasi dibuang
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// decimal_gte0: string berisi angka desimal >= 0 yang muat di numeric(15,2)
	validate.RegisterValidation("decimal_gte0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		if err != nil || d.IsNegative() {
			return false
		}
		return d.LessThan(MaxHarga) && d.Round(2).Equal(d)
	})

	// int_gte0: string berisi bilangan bulat >= 0 (stok)
	validate.RegisterValidation("int_gte0", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 0
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
	}

	for _, err := range validationErrors {
		var element ErrorResponse
		element.FailedField = err.Field()
		element.Tag = err.Tag()
		element.Value = err.Param()
		errs = append(errs, &element)
	}
	return errs
}

// FieldErrors validates data and returns one message per failed field, or
// nil when data is valid.
func FieldErrors(data interface{}) map[string]string {
	errs := ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}

	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, seen := fields[e.FailedField]; seen {
			continue
		}
		fields[e.FailedField] = Message(e)
	}
	return fields
}

// Message renders a user-facing message for one failed rule.
func Message(e *ErrorResponse) string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("Field %s wajib diisi.", e.FailedField)
	case "max":
		return fmt.Sprintf("Field %s maksimal %s karakter.", e.FailedField, e.Value)
	case "min":
		return fmt.Sprintf("Field %s minimal %s karakter.", e.FailedField, e.Value)
	case "notblank":
		return fmt.Sprintf("Field %s wajib diisi.", e.FailedField)
	case "decimal_gte0":
		return fmt.Sprintf("Field %s harus berupa angka 0 sampai 9999999999999.99 dengan maksimal 2 desimal.", e.FailedField)
	case "int_gte0":
		return fmt.Sprintf("Field %s harus berupa bilangan bulat dan tidak boleh negatif.", e.FailedField)
	case "oneof":
		return fmt.Sprintf("Field %s harus salah satu dari: %s.", e.FailedField, e.Value)
	default:
		return fmt.Sprintf("Field %s tidak valid.", e.FailedField)
	}
}
