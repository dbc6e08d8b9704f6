package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfFollowsWrapChain(t *testing.T) {
	base := NotFound("Sucursal no encontrada")
	wrapped := fmt.Errorf("update: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "Sucursal no encontrada", MessageOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, "error interno", MessageOf(errors.New("boom")))
}

func TestProviderKeepsCauseInMessage(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := Provider("no se pudo crear la identidad", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, KindExternalProvider, err.Kind)
	assert.Contains(t, err.Message, "quota exceeded")
	assert.Equal(t, err.Message, err.Error())
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("ctx: %w", Conflict("La zona ya existe"))

	assert.True(t, errors.Is(err, &Error{Kind: KindConflict}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNotFound}))
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindUnauthenticated:  "UNAUTHENTICATED",
		KindForbidden:        "FORBIDDEN",
		KindNotFound:         "NOT_FOUND",
		KindConflict:         "CONFLICT",
		KindExternalProvider: "EXTERNAL_PROVIDER",
		KindConfiguration:    "CONFIGURATION",
		KindValidation:       "VALIDATION",
		KindInternal:         "INTERNAL",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}
