package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/ruda-paints/internal/constants"

	"github.com/go-playground/validator/v10"
)

// 自定义枚举标签与可选值
var enumTags = map[string][]string{
	"paint_category":    constants.PaintCategories,
	"paint_size":        constants.PaintSizes,
	"contact_status":    constants.ContactStatuses,
	"contact_priority":  constants.ContactPriorities,
	"contact_category":  constants.ContactCategories,
	"contact_source":    constants.ContactSources,
	"newsletter_source": constants.NewsletterSources,
	"newsletter_pref":   constants.NewsletterPreferences,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	for tag, values := range enumTags {
		allowed := values
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return constants.Contains(allowed, fl.Field().String())
		})
	}
	return v
}

// validateStruct 执行结构体校验并转换为 ValidationError
func validateStruct(s interface{}) *ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError("_", err.Error())
	}
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Add(fieldPath(fe), fieldMessage(fe))
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	// Namespace 形如 paintRules.features[0]，去掉结构体名
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isText {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s cannot have more than %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "hexadecimal", "len":
		return fmt.Sprintf("%s is malformed", field)
	}
	if values, ok := enumTags[fe.Tag()]; ok {
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(values, ", "))
	}
	return fmt.Sprintf("%s is invalid", field)
}
