package middleware

import (
	"errors"
	"log"

	"github.com/anjiri1684/college_crp/services"
	"github.com/anjiri1684/college_crp/store"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const conflictDetail = "Student ID already exists"

// FieldError mirrors one entry of a 422 response body.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ErrorHandler renders every error as {"detail": ...} with the status its
// kind maps to. Unexpected errors are logged and reported as 500 without detail.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, detail := Classify(err)
	if code >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
	}
	return c.Status(code).JSON(fiber.Map{"detail": detail})
}

func Classify(err error) (int, interface{}) {
	var (
		notFound *services.NotFoundError
		invalid  *services.ValidationError
		fields   validator.ValidationErrors
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, notFound.Error()
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, store.ErrConflict):
		return fiber.StatusBadRequest, conflictDetail
	case errors.As(err, &invalid):
		return fiber.StatusUnprocessableEntity, []FieldError{{
			Loc:  []string{"body", invalid.Field},
			Msg:  invalid.Message,
			Type: "value_error",
		}}
	case errors.As(err, &fields):
		out := make([]FieldError, 0, len(fields))
		for _, fe := range fields {
			out = append(out, FieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  describe(fe),
				Type: "value_error." + fe.Tag(),
			})
		}
		return fiber.StatusUnprocessableEntity, out
	case errors.Is(err, services.ErrArchiveDisabled):
		return fiber.StatusServiceUnavailable, err.Error()
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "oneof":
		return "value is not one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}
