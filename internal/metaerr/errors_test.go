package metaerr

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct{}

func TestError_IsMatchesByCode(t *testing.T) {
	err := New(CodeNoIdPropertyFound, reflect.TypeFor[account](), "2 candidates")
	wrapped := fmt.Errorf("boot failed: %w", err)

	assert.ErrorIs(t, wrapped, ErrNoIdPropertyFound)
	assert.NotErrorIs(t, wrapped, ErrIdPropertyNotFound)
	assert.Equal(t, CodeNoIdPropertyFound, CodeOf(wrapped))
}

func TestError_MessageNamesClassAndProperty(t *testing.T) {
	err := New(CodeIdPropertyNotFound, reflect.TypeFor[account](), "no such property")
	err.Property = "uuid"

	msg := err.Error()
	assert.Contains(t, msg, "id property not found")
	assert.Contains(t, msg, "metaerr.account")
	assert.Contains(t, msg, `"uuid"`)
}

func TestInternal_UnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause, "freeze called twice")

	require.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, Code("INTERNAL"), CodeOf(err))
	assert.Contains(t, err.Error(), "internal: freeze called twice")
	assert.Equal(t, Code(""), CodeOf(cause))
}
