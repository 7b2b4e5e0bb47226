package chroma

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// shapeChecker is implemented by response types with cross-field rules
// that struct tags cannot express, such as parallel array alignment.
type shapeChecker interface {
	Validate() error
}

// checkShape applies the structural contract of v: struct tags first,
// then the type's own Validate method. Slices are checked element-wise.
func checkShape(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		if err := validate.Struct(rv.Interface()); err != nil {
			return err
		}
	case reflect.Slice:
		if rv.Type().Elem().Kind() != reflect.Struct {
			break
		}
		for i := 0; i < rv.Len(); i++ {
			if err := checkShape(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	}

	if sc, ok := rv.Interface().(shapeChecker); ok {
		return sc.Validate()
	}
	return nil
}
