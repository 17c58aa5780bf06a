package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Argon2Params {
	// Cheap parameters to keep the suite fast; production uses config values.
	return Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestHashPassword(t *testing.T) {
	t.Run("hash verifies against original password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple", testParams())
		require.NoError(t, err)
		assert.True(t, VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("encodes algorithm, params and salt", func(t *testing.T) {
		hash, err := HashPassword("password1", testParams())
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$"))
		assert.Len(t, strings.Split(hash, "$"), 6)
	})

	t.Run("same password hashes differently across calls", func(t *testing.T) {
		hash1, err := HashPassword("password1", testParams())
		require.NoError(t, err)
		hash2, err := HashPassword("password1", testParams())
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
		assert.True(t, VerifyPassword("password1", hash1))
		assert.True(t, VerifyPassword("password1", hash2))
	})
}

func TestVerifyPassword(t *testing.T) {
	t.Run("rejects wrong password", func(t *testing.T) {
		hash, err := HashPassword("password1", testParams())
		require.NoError(t, err)
		assert.False(t, VerifyPassword("password2", hash))
	})

	t.Run("rejects empty password unless it was hashed", func(t *testing.T) {
		hash, err := HashPassword("password1", testParams())
		require.NoError(t, err)
		assert.False(t, VerifyPassword("", hash))
	})

	t.Run("returns false on malformed secrets", func(t *testing.T) {
		hash, _ := HashPassword("password1", testParams())
		parts := strings.Split(hash, "$")

		cases := map[string]string{
			"empty":              "",
			"not a hash":         "hunter2",
			"bcrypt format":      "$2b$12$LJ3m4rzPGmuN3jE7sZs1/. 8mVdDXNkCo0DPT0sSCKRfmbCHSvIom",
			"wrong algorithm":    "$argon2i$v=19$m=8192,t=1,p=1$" + parts[4] + "$" + parts[5],
			"wrong version":      "$argon2id$v=18$m=8192,t=1,p=1$" + parts[4] + "$" + parts[5],
			"bad params":         "$argon2id$v=19$m=x,t=y,p=z$" + parts[4] + "$" + parts[5],
			"bad salt encoding":  "$argon2id$v=19$m=8192,t=1,p=1$!!!$" + parts[5],
			"bad hash encoding":  "$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "$!!!",
			"truncated sections": "$argon2id$v=19$m=8192,t=1,p=1",
		}

		for name, secret := range cases {
			t.Run(name, func(t *testing.T) {
				assert.NotPanics(t, func() {
					assert.False(t, VerifyPassword("password1", secret))
				})
			})
		}
	})

	t.Run("verifies using params embedded in the secret", func(t *testing.T) {
		other := testParams()
		other.Memory = 16 * 1024
		other.Iterations = 2

		hash, err := HashPassword("password1", other)
		require.NoError(t, err)

		// Verify has no access to `other`; it must recover the parameters
		// from the encoded string.
		assert.True(t, VerifyPassword("password1", hash))
	})
}

func TestGenerateToken(t *testing.T) {
	t.Run("generates 64 character hex string", func(t *testing.T) {
		token, err := GenerateToken()
		require.NoError(t, err)
		assert.Len(t, token, 64)
	})

	t.Run("generates unique tokens", func(t *testing.T) {
		token1, _ := GenerateToken()
		token2, _ := GenerateToken()
		assert.NotEqual(t, token1, token2)
	})

	t.Run("generates valid hex", func(t *testing.T) {
		token, _ := GenerateToken()
		for _, c := range token {
			assert.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'))
		}
	})
}

func TestHashToken(t *testing.T) {
	t.Run("returns 64 character hex string", func(t *testing.T) {
		hash := HashToken("test-token")
		assert.Len(t, hash, 64)
	})

	t.Run("same input produces same hash", func(t *testing.T) {
		assert.Equal(t, HashToken("test-token"), HashToken("test-token"))
	})

	t.Run("different input produces different hash", func(t *testing.T) {
		assert.NotEqual(t, HashToken("token-1"), HashToken("token-2"))
	})
}

func TestHmacSHA256(t *testing.T) {
	t.Run("same inputs produce same result", func(t *testing.T) {
		assert.Equal(t, HmacSHA256("secret", "data"), HmacSHA256("secret", "data"))
	})

	t.Run("different secret produces different result", func(t *testing.T) {
		assert.NotEqual(t, HmacSHA256("secret1", "data"), HmacSHA256("secret2", "data"))
	})

	t.Run("produces expected HMAC", func(t *testing.T) {
		// Known test vector
		result := HmacSHA256("key", "The quick brown fox jumps over the lazy dog")
		assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", result)
	})
}

func TestConstantTimeEqual(t *testing.T) {
	t.Run("returns true for equal strings", func(t *testing.T) {
		assert.True(t, ConstantTimeEqual("abc", "abc"))
	})

	t.Run("returns false for different strings", func(t *testing.T) {
		assert.False(t, ConstantTimeEqual("abc", "def"))
	})

	t.Run("returns false for different lengths", func(t *testing.T) {
		assert.False(t, ConstantTimeEqual("abc", "abcd"))
	})
}
