// Package validatex turns raw GraphQL argument bags into typed, normalized
// values, reporting every invalid field at once.
//
// The schema for a set of arguments is a struct with json names and
// validator tags. Types that implement Caster get their defaults and
// normalization applied before validation, so the value returned by Args is
// the one callers must use.
package validatex

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/prometheusfi/prometheus/pkg/errx"
	"github.com/prometheusfi/prometheus/pkg/idx"
)

// Caster is implemented by argument structs that apply defaults or
// normalize values. Cast must be idempotent.
type Caster interface {
	Cast()
}

var (
	mu       sync.Mutex
	validate *validator.Validate
	enums    = map[string][]string{}
)

func engine() *validator.Validate {
	mu.Lock()
	defer mu.Unlock()
	if validate != nil {
		return validate
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("ulid", func(fl validator.FieldLevel) bool {
		_, err := idx.Parse(fl.Field().String())
		return err == nil
	})
	validate = v
	return validate
}

// RegisterEnum adds a tag that accepts exactly the given string values. It is
// meant to be called from package init functions, before any validation
// runs.
func RegisterEnum(tag string, values ...string) {
	v := engine()

	mu.Lock()
	defer mu.Unlock()
	allowed := slices.Clone(values)
	enums[tag] = allowed
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validatex: register enum %q: %v", tag, err))
	}
}

// Args decodes raw into T, applies Cast and validates the result. On failure
// the error is an *errx.Error of kind InvalidInput holding every field
// failure.
func Args[T any](raw map[string]any) (T, error) {
	var out T
	fields := map[string]string{}

	if raw != nil {
		buf, err := json.Marshal(raw)
		if err != nil {
			return out, errx.Internal("").Wrap(fmt.Errorf("validatex: encode args: %w", err))
		}
		if err := json.Unmarshal(buf, &out); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return out, errx.InvalidField("input", "input is malformed")
			}
			path := typeErr.Field
			record(fields, path, "type", fmt.Sprintf("%s must be a `%s` type", label(path), typeErr.Type))
		}
	}

	return check(out, fields)
}

// Value applies Cast and validation to an already typed value. Calling it
// on its own output returns the same value.
func Value[T any](in T) (T, error) {
	return check(in, map[string]string{})
}

func check[T any](v T, fields map[string]string) (T, error) {
	if c, ok := any(&v).(Caster); ok {
		c.Cast()
	}

	if err := engine().Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return v, errx.Internal("").Wrap(fmt.Errorf("validatex: %w", err))
		}
		for _, fe := range verrs {
			record(fields, fieldPath(fe), fe.Tag(), message(fe))
		}
	}

	if len(fields) > 0 {
		return v, errx.InvalidInput(fields)
	}
	return v, nil
}

// record keeps the first message for a field unless a later one comes from
// the required rule.
func record(fields map[string]string, path, tag, msg string) {
	if _, exists := fields[path]; exists && tag != "required" {
		return
	}
	fields[path] = msg
}

// fieldPath strips the root struct name from the namespace, leaving the
// json path, e.g. "post.categories[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func label(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is a required field", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "ulid":
		return fmt.Sprintf("%s must be a valid identifier", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}

	mu.Lock()
	values, ok := enums[fe.Tag()]
	mu.Unlock()
	if ok {
		return fmt.Sprintf("%s must be one of the following values: %s", field, strings.Join(values, ", "))
	}
	return fmt.Sprintf("%s is invalid", field)
}
