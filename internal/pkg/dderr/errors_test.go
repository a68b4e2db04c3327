package dderr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestImmutable(t *testing.T) {
	e := New(400, "VALIDATION_FAILURE", "invalid request")
	changedE := e.Msg("%s", "changed")
	if e.Message == "changed" {
		t.Errorf("Expected immutable error with message not equal to 'changed', got '%s'", e.Message)
	}
	if changedE.Message != "changed" {
		t.Errorf("Expected immutable error with message equal to 'changed', got '%s'", changedE.Message)
	}
}

func TestIsMatchesCopies(t *testing.T) {
	err := errors.Wrap(NewDuplicate("rule_name", "rule name %q is taken", "tops"), "create rule")

	assert.ErrorIs(t, err, ErrDuplicateEntity)
	assert.NotErrorIs(t, err, ErrReferentialConflict)
	assert.NotErrorIs(t, ErrPayloadTooLarge, ErrValidation)
}

func TestNewMissingCodes(t *testing.T) {
	e := NewMissingCodes([]string{"BUST", "WAIST"})

	assert.Equal(t, CodeInvalidReference, e.ErrorCode)
	assert.Equal(t, []string{"BUST", "WAIST"}, (*e.Extras)["missing_codes"])
	assert.Nil(t, ErrInvalidReference.Extras)
}
