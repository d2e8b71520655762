package middleware

import (
	"errors"
	"fmt"
	"testing"

	"github.com/anjiri1684/college_crp/services"
	"github.com/anjiri1684/college_crp/store"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   int
		detail interface{}
	}{
		{"named not found", fmt.Errorf("wrap: %w", &services.NotFoundError{Entity: "Student"}), 404, "Student not found"},
		{"bare not found", store.ErrNotFound, 404, "Not found"},
		{"conflict", fmt.Errorf("create student: %w", store.ErrConflict), 400, conflictDetail},
		{"archive disabled", services.ErrArchiveDisabled, 503, services.ErrArchiveDisabled.Error()},
		{"fiber error", fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON"), 400, "Cannot parse JSON"},
		{"store unavailable", errors.New("server selection error: context deadline exceeded"), 500, "Internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, detail := Classify(tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.detail, detail)
		})
	}
}

func TestClassifyValidation(t *testing.T) {
	code, detail := Classify(&services.ValidationError{Field: "amount", Message: "must be greater than zero"})
	assert.Equal(t, 422, code)
	assert.Equal(t, []FieldError{{Loc: []string{"body", "amount"}, Msg: "must be greater than zero", Type: "value_error"}}, detail)

	type req struct {
		Email string `validate:"required,email"`
		Year  int    `validate:"required,gte=1"`
	}
	err := validator.New().Struct(req{Email: "nope"})
	require.Error(t, err)

	code, detail = Classify(err)
	assert.Equal(t, 422, code)
	fields := detail.([]FieldError)
	require.Len(t, fields, 2)
	assert.Equal(t, "value is not a valid email address", fields[0].Msg)
	assert.Equal(t, "value_error.required", fields[1].Type)
}
