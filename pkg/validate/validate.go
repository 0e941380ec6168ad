// Package validate provides the shared struct validator.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every error returned from [Struct].
var ErrInvalid = errors.New("invalid")

var (
	once     sync.Once
	instance *validator.Validate
)

// Instance returns the process-wide validator. Field names in errors use
// the json tag.
func Instance() *validator.Validate {
	once.Do(func() {
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

		instance = v
	})

	return instance
}

// Struct validates s. Each failing field becomes one error, joined with
// [errors.Join], and each wraps [ErrInvalid].
func Struct(s any) error {
	err := Instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fieldError(fe))
	}

	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s: must be set", ErrInvalid, field)
	case "gt":
		return fmt.Errorf("%w: %s: must be greater than %s", ErrInvalid, field, fe.Param())
	case "gte", "min":
		return fmt.Errorf("%w: %s: must be at least %s", ErrInvalid, field, fe.Param())
	case "oneof":
		return fmt.Errorf("%w: %s: must be one of [%s]", ErrInvalid, field, fe.Param())
	}

	return fmt.Errorf("%w: %s: failed %q", ErrInvalid, field, fe.Tag())
}
