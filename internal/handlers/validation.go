package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FieldError is one violated constraint in a validation failure response.
type FieldError struct {
	Msg  string `json:"msg"`
	Path string `json:"path"`
}

// newValidator builds a validator that reports fields by their json names,
// so error paths match the wire format of the request body.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldErrors converts validator violations into the response list,
// keeping every violated constraint, not just the first.
func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Msg: err.Error(), Path: ""}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Msg: constraintMessage(fe), Path: fe.Field()})
	}
	return out
}

// constraintMessage renders a human-readable message per field/constraint.
func constraintMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "username":
		if fe.Tag() == "min" {
			return "Username must be at least 3 characters long"
		}
		return "Username is required"
	case "password":
		if fe.Tag() == "min" {
			return "Password must be at least 6 characters long"
		}
		return "Password is required"
	case "title":
		if fe.Tag() == "max" {
			return "Title cannot exceed 100 characters"
		}
		return "Title is required"
	case "description":
		return "Description cannot exceed 500 characters"
	case "category":
		return "Category must be one of: Personal, Work, Shopping, Other"
	case "completed":
		return "Completed must be a boolean value"
	}
	return fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
}

// respondValidationErrors writes the 400 response listing all violations.
func respondValidationErrors(c *fiber.Ctx, errs []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errors": errs,
	})
}

// respondBodyParseError maps a request-body decoding failure to a 400.
// A type mismatch on a known field (e.g. a stringly "false" sent for a
// boolean) is reported as a validation error on that field rather than a
// generic bad-body message, so the strict-boolean policy is visible to
// the caller.
func respondBodyParseError(c *fiber.Ctx, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		msg := fmt.Sprintf("Invalid value for field '%s'", typeErr.Field)
		if strings.HasSuffix(typeErr.Field, "completed") {
			msg = "Completed must be a boolean value"
		}
		return respondValidationErrors(c, []FieldError{{Msg: msg, Path: typeErr.Field}})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
	})
}
