package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindPermission, KindOf(Permission("denied")))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	assert.Equal(t, KindBusinessRule, KindOf(BusinessRule("floor")))
	assert.Equal(t, KindInternal, KindOf(Internal("boom", errors.New("db down"))))

	assert.Equal(t, KindInternal, KindOf(errors.New("untagged")), "untagged errors are internal")
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindOfWrappedChain(t *testing.T) {
	inner := NotFound("no such trip")
	outer := fmt.Errorf("handling request: %w", inner)
	assert.Equal(t, KindNotFound, KindOf(outer))
	assert.True(t, IsKind(outer, KindNotFound))
	assert.False(t, IsKind(outer, KindConflict))
}

func TestErrorMessage(t *testing.T) {
	e := Validation("amount %q is not a number", "abc")
	assert.Equal(t, `amount "abc" is not a number`, e.Error())

	cause := errors.New("connection refused")
	wrapped := Internal("failed to load budget", cause)
	assert.Equal(t, "failed to load budget: connection refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "VALIDATION", KindValidation.String())
	assert.Equal(t, "NOT_FOUND", KindNotFound.String())
	assert.Equal(t, "PERMISSION", KindPermission.String())
	assert.Equal(t, "CONFLICT", KindConflict.String())
	assert.Equal(t, "BUSINESS_RULE", KindBusinessRule.String())
	assert.Equal(t, "INTERNAL", KindInternal.String())
	assert.Equal(t, "INTERNAL", Kind(99).String())
}
