package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("lang", isLanguageCode); err != nil {
		return nil, nil, fmt.Errorf("failed to register lang validation: %w", err)
	}
	if err := validate.RegisterTranslation("lang", trans, func(ut ut.Translator) error {
		return ut.Add("lang", "{0} must be a two-letter lowercase language code", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("lang", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register lang translation: %w", err)
	}

	return validate, trans, nil
}

func isLanguageCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Validate checks cfg against the struct validation tags and returns the
// translated messages joined into a single error.
func Validate(cfg *Config) error {
	validate, trans, err := newValidator()
	if err != nil {
		return fmt.Errorf("newValidator > %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("validate.Struct > %w", err)
		}

		messages := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			messages = append(messages, fieldError.Translate(trans))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(messages, ", "))
	}
	return nil
}
