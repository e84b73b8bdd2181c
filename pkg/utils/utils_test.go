package utils

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	hashed, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hashed)
	assert.True(t, CheckPassword("secret", hashed))
	assert.False(t, CheckPassword("other", hashed))

	again, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "salted hashes differ")
}

func TestBcryptHasherRejectsLongPassword(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	// 字符数未超限，字节数超限
	_, err = h.Hash(strings.Repeat("é", MaxPasswordBytes/2+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	hashed, err := h.Hash(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)
	assert.True(t, CheckPassword(strings.Repeat("a", MaxPasswordBytes), hashed))
}

func TestNewIDIsTimeOrdered(t *testing.T) {
	ids := make([]string, 50)
	for i := range ids {
		ids[i] = NewID()
	}
	assert.True(t, sort.StringsAreSorted(ids))
	assert.Len(t, ids[0], 36)
}
