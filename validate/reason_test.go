package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReason_String(t *testing.T) {
	assert.Equal(t, "ok", ReasonOK.String())
	assert.Equal(t, "consecutive_dots", ReasonConsecutiveDots.String())
	assert.Equal(t, "reason(99)", Reason(99).String())
	assert.Equal(t, "reason(-1)", Reason(-1).String())
}

func TestReason_TextRoundTrip(t *testing.T) {
	for _, r := range Reasons() {
		b, err := r.MarshalText()
		require.NoError(t, err)

		var got Reason
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, r, got)
	}

	var r Reason
	assert.Error(t, r.UnmarshalText([]byte("bogus")))
}

func TestReason_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]Reason{"reason": ReasonDomainNoDot})
	require.NoError(t, err)
	assert.JSONEq(t, `{"reason":"domain_no_dot"}`, string(b))
}

func TestReason_Valid(t *testing.T) {
	assert.True(t, ReasonOK.Valid())
	assert.False(t, ReasonPattern.Valid())
	assert.Len(t, Reasons(), int(ReasonPattern)+1)
}
