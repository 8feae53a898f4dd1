package validator

import (
	"reflect"
	"strings"

	"clinic-backend/pkg/clocktime"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report fields by their JSON names so clients see the keys they sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := clocktime.ParseDate(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := clocktime.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := clocktime.ParseWeekday(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		_, _, err := clocktime.ParseSlot(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required", "notblank":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "gt":
				errors[field] = field + " must be greater than " + e.Param()
			case "len":
				errors[field] = field + " must be exactly " + e.Param() + " characters"
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "uuid":
				errors[field] = field + " must be a valid UUID"
			case "numeric":
				errors[field] = field + " must contain only digits"
			case "date":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "timeofday":
				errors[field] = field + " must be a time such as 14:30 or 2:30 PM"
			case "weekday":
				errors[field] = field + " must be a weekday name"
			case "timeslot":
				errors[field] = field + ` must look like "09:00 - 09:30"`
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
