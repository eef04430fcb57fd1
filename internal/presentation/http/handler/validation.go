package handler

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/stewardpro-api/pkg/sms"
)

// phonePattern matches a normalised 255XXXXXXXXX number
var phonePattern = regexp.MustCompile(`^255[0-9]{9}$`)

// RegisterValidators adds the custom binding tags and reports field errors
// by their JSON names. It must run before the first request is bound.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	if err := v.RegisterValidation("phone", validPhone); err != nil {
		return fmt.Errorf("register phone validator: %w", err)
	}
	return nil
}

// validPhone accepts local, +255 and 255 forms. Empty values pass so the
// tag can sit on optional fields behind omitempty.
func validPhone(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	return phonePattern.MatchString(sms.NormalizePhone(raw))
}
