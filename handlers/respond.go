// handlers/respond.go
package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"safeblues-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate *validator.Validate

// A single validator instance is used, because it caches struct parsing.
func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// fieldError is one entry of a 422 "detail" list, in the shape the
// participant site already understands.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func unprocessable(c *fiber.Ctx, errs ...fieldError) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": errs})
}

// parseBody decodes and validates a JSON body. It writes the error
// response itself and returns false when the request should stop.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}
	var verrs validator.ValidationErrors
	if err := validate.Struct(out); errors.As(err, &verrs) {
		fields := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  validationMessage(fe),
				Type: "value_error." + fe.Field(),
			})
		}
		return false, unprocessable(c, fields...)
	} else if err != nil {
		return false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "validation failed",
			"cause": err.Error(),
		})
	}
	return true, nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " is not a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
}

// serviceError maps service errors onto HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return unprocessable(c, fieldError{
			Loc:  []string{"body", verr.Field},
			Msg:  verr.Msg,
			Type: verr.Type(),
		})
	case errors.Is(err, services.ErrParticipantNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInsufficientData):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrStorageDisabled), errors.Is(err, services.ErrHoursOff):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("❌ [HTTP] %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal error",
		"cause": err.Error(),
	})
}
