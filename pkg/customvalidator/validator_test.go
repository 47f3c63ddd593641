package customvalidator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestPhoneValidation(t *testing.T) {
	v := newValidator(t)
	type payload struct {
		Phone string `validate:"phone"`
	}

	assert.NoError(t, v.Struct(payload{Phone: "+5511998765432"}))
	assert.NoError(t, v.Struct(payload{Phone: "11998765432"}))
	assert.Error(t, v.Struct(payload{Phone: "abc"}))
	assert.Error(t, v.Struct(payload{Phone: "123"}))
}

func TestOrderStatusValidation(t *testing.T) {
	v := newValidator(t)
	type payload struct {
		Status string `validate:"order_status"`
	}

	for _, status := range []string{"OPEN", "IN_PROGRESS", "READY", "DELIVERED", "CANCELED"} {
		assert.NoError(t, v.Struct(payload{Status: status}), status)
	}
	assert.Error(t, v.Struct(payload{Status: "DONE"}))
	assert.Error(t, v.Struct(payload{Status: "open"}))
}

func TestPlanCodeValidation(t *testing.T) {
	v := newValidator(t)
	type payload struct {
		Plan string `validate:"plan_code"`
	}

	for _, plan := range []string{"TRIAL", "BASIC", "PRO"} {
		assert.NoError(t, v.Struct(payload{Plan: plan}), plan)
	}
	assert.Error(t, v.Struct(payload{Plan: "ENTERPRISE"}))
}
