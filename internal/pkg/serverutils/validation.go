package serverutils

import (
	"fmt"
	"strings"
	"sync"

	"nutricoach-be/pkg/clock"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// "HH:MM" schedule times
		_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, ok := clock.ParseHHMM(fl.Field().String())
			return ok
		})
	})
	return validate
}

// ValidateRequest checks struct tags and returns a 400 fiber error listing the failing fields.
func ValidateRequest(req interface{}) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(messages, "; "))
}
