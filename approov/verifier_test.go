package approov

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/approov-authorizer/secrets"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var (
	testKey  = []byte("approov-test-secret-0123456789ab")
	wrongKey = []byte("some-other-secret-0123456789abcd")
	fixedNow = time.Unix(1_700_000_000, 0)
)

func fixedClock() time.Time { return fixedNow }

// Test helper to create an HMAC signed token
func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "u1",
		"did": "device-123",
		"exp": fixedNow.Add(time.Hour).Unix(),
	}
}

func newTestVerifier(key []byte, opts ...Option) *Verifier {
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewVerifier(secrets.Secret(key), zap.NewNop(), opts...)
}

func TestVerify_Success(t *testing.T) {
	v := newTestVerifier(testKey)
	token := signToken(t, jwt.SigningMethodHS256, testKey, validClaims())

	claims, err := v.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject())
	assert.Equal(t, "device-123", claims.DeviceID())
	assert.Equal(t, json.Number("1700003600"), claims["exp"])

	exp, ok := claims.ExpiresAt()
	require.True(t, ok)
	assert.Equal(t, fixedNow.Add(time.Hour).Unix(), exp.Unix())
}

func TestVerify_ClaimsRoundTripExactly(t *testing.T) {
	v := newTestVerifier(testKey)
	payload := jwt.MapClaims{
		"sub": "u1",
		"exp": fixedNow.Add(time.Hour).Unix(),
		"ip":  "1.2.3.4",
		"pay": "e3d4f5",
	}
	token := signToken(t, jwt.SigningMethodHS256, testKey, payload)

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)

	want, err := json.Marshal(payload)
	require.NoError(t, err)
	got, err := json.Marshal(claims)
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestVerify_Rejections(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "wrong key",
			token:   signToken(t, jwt.SigningMethodHS256, wrongKey, validClaims()),
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: signToken(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{
				"sub": "u1",
				"exp": fixedNow.Add(-time.Minute).Unix(),
			}),
			wantErr: ErrTokenExpired,
		},
		{
			name:    "alg none",
			token:   noneToken,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "HS512 with the right key",
			token:   signToken(t, jwt.SigningMethodHS512, testKey, validClaims()),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "HS384 with the right key",
			token:   signToken(t, jwt.SigningMethodHS384, testKey, validClaims()),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "RS256",
			token:   signToken(t, jwt.SigningMethodRS256, rsaKey, validClaims()),
			wantErr: ErrInvalidToken,
		},
		{
			name: "not yet valid",
			token: signToken(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{
				"exp": fixedNow.Add(time.Hour).Unix(),
				"nbf": fixedNow.Add(time.Minute).Unix(),
			}),
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed",
			token:   "not-a-jwt",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty",
			token:   "",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "tampered payload",
			token:   signToken(t, jwt.SigningMethodHS256, testKey, validClaims()) + "x",
			wantErr: ErrInvalidToken,
		},
	}

	v := newTestVerifier(testKey)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestVerify_MissingSecret(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, testKey, validClaims())

	for name, key := range map[string][]byte{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			v := newTestVerifier(key)
			assert.False(t, v.HasSecret())

			claims, err := v.Verify(context.Background(), token)
			assert.ErrorIs(t, err, ErrMissingSecret)
			assert.Nil(t, claims)
		})
	}
}

func TestVerify_Leeway(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{
		"sub": "u1",
		"exp": fixedNow.Add(-10 * time.Second).Unix(),
	})

	_, err := newTestVerifier(testKey).Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	claims, err := newTestVerifier(testKey, WithLeeway(30*time.Second)).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject())
}

func TestVerify_Idempotent(t *testing.T) {
	v := newTestVerifier(testKey)
	good := signToken(t, jwt.SigningMethodHS256, testKey, validClaims())
	bad := signToken(t, jwt.SigningMethodHS256, wrongKey, validClaims())

	first, err := v.Verify(context.Background(), good)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := v.Verify(context.Background(), good)
		require.NoError(t, err)
		assert.Equal(t, first, again)

		_, err = v.Verify(context.Background(), bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerify_LogsDistinguishReasons(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	v := NewVerifier(secrets.Secret(testKey), zap.New(core), WithClock(fixedClock))

	expired := signToken(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{"exp": fixedNow.Add(-time.Hour).Unix()})
	forged := signToken(t, jwt.SigningMethodHS256, wrongKey, validClaims())

	_, _ = v.Verify(context.Background(), expired)
	_, _ = v.Verify(context.Background(), forged)

	failures := logs.FilterMessage("Approov token verification failed").All()
	require.Len(t, failures, 2)
	assert.Equal(t, zapcore.InfoLevel, failures[0].Level)
	assert.Equal(t, ReasonExpired, failures[0].ContextMap()["reason"])
	assert.Equal(t, zapcore.InfoLevel, failures[1].Level)
	assert.Equal(t, ReasonInvalid, failures[1].ContextMap()["reason"])
}

func TestVerify_MissingSecretLogsAtErrorLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	v := NewVerifier(nil, zap.New(core))

	_, err := v.Verify(context.Background(), "anything")
	require.ErrorIs(t, err, ErrMissingSecret)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "missing Approov secret")
}

func TestVerify_SuccessLogsDeviceAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	v := NewVerifier(secrets.Secret(testKey), zap.New(core), WithClock(fixedClock))

	_, err := v.Verify(context.Background(), signToken(t, jwt.SigningMethodHS256, testKey, validClaims()))
	require.NoError(t, err)

	verified := logs.FilterMessage("Approov token verified").All()
	require.Len(t, verified, 1)
	assert.Equal(t, zapcore.DebugLevel, verified[0].Level)
	assert.Equal(t, "device-123", verified[0].ContextMap()["did"])
	assert.Contains(t, verified[0].ContextMap(), "expires_at")
}

func TestVerify_WithoutExpiryIsAccepted(t *testing.T) {
	v := newTestVerifier(testKey)
	token := signToken(t, jwt.SigningMethodHS256, testKey, jwt.MapClaims{"sub": "u1"})

	claims, err := v.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject())
	_, ok := claims.ExpiresAt()
	assert.False(t, ok)
}
