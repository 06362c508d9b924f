package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_IssueAndVerify(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Issue("johndoe", 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", subject)
}

func TestCodec_DefaultTTL(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Issue("johndoe", 0)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)
	assert.InDelta(t, DefaultTokenTTL.Seconds(), exp-iat, 2)
}

func TestCodec_Claims(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Issue("johndoe", time.Hour)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "johndoe", claims["sub"])
	assert.Equal(t, "copyforge-server", claims["iss"])
	assert.NotNil(t, claims["iat"])
	assert.NotNil(t, claims["exp"])
}

func TestCodec_Expired(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Issue("johndoe", -time.Minute)
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestCodec_WrongSecret(t *testing.T) {
	token, err := NewCodec("secret-one").Issue("johndoe", time.Hour)
	require.NoError(t, err)

	_, err = NewCodec("secret-two").Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_TamperedToken(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Issue("johndoe", time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "zzzz"
	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_GarbageInput(t *testing.T) {
	codec := NewCodec("test-secret")

	for _, input := range []string{"", "not-a-token", "a.b.c", "...."} {
		_, err := codec.Verify(input)
		assert.ErrorIs(t, err, ErrTokenInvalid, "input %q", input)
	}
}

func TestCodec_RejectsUnsignedToken(t *testing.T) {
	codec := NewCodec("test-secret")

	// alg=none token with a valid-looking subject
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "johndoe",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(tokenString)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestCodec_MissingSubject(t *testing.T) {
	codec := NewCodec("test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(tokenString)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
