package domains

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var tagValidator = newTagValidator()

func newTagValidator() *validator.Validate {
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
	return v
}

// CheckTags runs the validate tags on struct v. Params are json paths with
// the root struct dropped, joined under prefix when one is given, so a bad
// email on a contact row checked with prefix "rows[2]" reports
// "rows[2].email".
func CheckTags(v any, prefix string) error {
	err := tagValidator.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		param := tagParam(fe)
		if prefix != "" {
			param = prefix + "." + param
		}
		out = append(out, FieldError{Msg: tagMessage(fe), Param: param, Value: fe.Value()})
	}
	return out
}

func tagParam(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte", "lte":
		return "must be between the allowed bounds"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
