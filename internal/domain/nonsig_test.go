package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNonsigCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "short code is zero padded", input: "1234", want: "000001234"},
		{name: "exact length unchanged", input: "123456789", want: "123456789"},
		{name: "long code truncated", input: "1234567890123", want: "123456789"},
		{name: "whitespace trimmed", input: "  42  ", want: "000000042"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeNonsigCode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty code rejected", func(t *testing.T) {
		_, err := NormalizeNonsigCode("")
		assert.ErrorIs(t, err, ErrEmptyNonsigCode)

		_, err = NormalizeNonsigCode("   ")
		assert.ErrorIs(t, err, ErrEmptyNonsigCode)
	})
}

func TestNonsigUsable(t *testing.T) {
	assert.True(t, (&Nonsig{IsActive: true, IsActiveTHQ: true}).Usable())
	assert.False(t, (&Nonsig{IsActive: true}).Usable())
	assert.False(t, (&Nonsig{IsActiveTHQ: true}).Usable())
}
