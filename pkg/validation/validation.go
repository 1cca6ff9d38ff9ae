package validation

import (
	"errors"
	"regexp"

	"github.com/Payphone-Digital/helpdesk/internal/model"
	"github.com/go-playground/validator/v10"
)

var otpCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Register adds the domain tags (role, userstatus, otpaction, otpcode) to v.
func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"role": func(fl validator.FieldLevel) bool {
			_, ok := model.ParseRole(fl.Field().String())
			return ok
		},
		"userstatus": func(fl validator.FieldLevel) bool {
			_, ok := model.ParseStatus(fl.Field().String())
			return ok
		},
		"otpaction": func(fl validator.FieldLevel) bool {
			return model.OtpAction(fl.Field().String()).Valid()
		},
		"otpcode": func(fl validator.FieldLevel) bool {
			return otpCodePattern.MatchString(fl.Field().String())
		},
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// Messages turns validator errors into readable messages. It returns nil
// when err is not a validation failure.
func Messages(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		if fieldMessages := CustomMessage(e.Field()); fieldMessages != nil {
			if msg, ok := fieldMessages[e.Tag()]; ok {
				messages = append(messages, msg)
				continue
			}
		}
		messages = append(messages, DefaultMessage(e.Field(), e.Tag(), e.Param()))
	}
	return messages
}
