package rekuest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/highgarden7/dddorok-admin-backend/internal/model/types"
	"github.com/highgarden7/dddorok-admin-backend/internal/pkg/dderr"
)

func TestStructViolations(t *testing.T) {
	err := Struct(&types.MeasurementRuleRequest{
		CategoryLarge:  "TOP",
		CategoryMedium: "SWEATER",
		CategorySmall:  "PULLOVER",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, dderr.ErrValidation)

	e := err.(*dderr.Error)
	violations := (*e.Extras)["violations"].([]*ErrorResponse)

	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "MeasurementRuleRequest.rule_name")
	assert.Contains(t, fields, "MeasurementRuleRequest.items")
}

func TestStructValid(t *testing.T) {
	err := Struct(&types.MeasurementRuleRequest{
		CategoryLarge:  "TOP",
		CategoryMedium: "SWEATER",
		CategorySmall:  "PULLOVER",
		RuleName:       "pullover basic",
		ItemCodes:      []string{"BODY_LENGTH"},
	})
	assert.NoError(t, err)
}

func TestValidVar(t *testing.T) {
	assert.NoError(t, ValidVar("3f1f6a8e-9f53-4a4b-9d8e-0c6b0b7e9c11", "uuid"))
	assert.ErrorIs(t, ValidVar("nope", "uuid"), dderr.ErrValidation)
}
