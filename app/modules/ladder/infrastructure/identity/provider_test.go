package ladderidentity

import (
	"testing"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-chars-long!!"

func TestProvider_GenerateAndValidateToken(t *testing.T) {
	p := NewProvider(testSecret)
	player := ladderdomain.Actor{PlayerID: uuid.New()}
	admin := ladderdomain.Actor{PlayerID: uuid.New(), IsAdmin: true}

	tests := []struct {
		name        string
		actor       ladderdomain.Actor
		ttl         time.Duration
		validator   Provider
		raw         string
		expectedErr error
	}{
		{name: "player", actor: player, ttl: time.Hour, validator: p},
		{name: "admin", actor: admin, ttl: time.Hour, validator: p},
		{name: "expired token", actor: player, ttl: -time.Hour, validator: p, expectedErr: ErrExpiredToken},
		{name: "invalid signature", actor: player, ttl: time.Hour, validator: NewProvider("wrong-secret"), expectedErr: ErrInvalidSignature},
		{name: "malformed token", validator: p, raw: "not.a.token", expectedErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.raw
			if token == "" {
				var err error
				token, err = p.GenerateToken(tt.actor, tt.ttl)
				require.NoError(t, err)
			}

			got, err := tt.validator.ValidateToken(token)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.actor, got)
		})
	}
}

func TestProvider_RejectsTokensWithoutPlayer(t *testing.T) {
	p := NewProvider(testSecret)

	_, err := p.GenerateToken(ladderdomain.Actor{}, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims := &actorClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "not-a-player-id",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = p.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestProvider_RejectsOtherSigningMethods(t *testing.T) {
	claims := &actorClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewProvider(testSecret).ValidateToken(token)
	assert.Error(t, err)
}
