package ladderidentity

import (
	"errors"
	"fmt"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Provider turns bearer tokens into actors.
type Provider interface {
	// GenerateToken signs a token for the actor, valid for ttl.
	GenerateToken(actor ladderdomain.Actor, ttl time.Duration) (string, error)

	// ValidateToken checks the signature and expiry and returns the actor it names.
	ValidateToken(tokenString string) (ladderdomain.Actor, error)
}

type actorClaims struct {
	jwt.RegisteredClaims
	Admin bool `json:"admin,omitempty"`
}

type provider struct {
	secret []byte
	now    func() time.Time
}

// NewProvider creates an HS256 provider.
func NewProvider(secret string) Provider {
	return &provider{secret: []byte(secret), now: time.Now}
}

func (p *provider) GenerateToken(actor ladderdomain.Actor, ttl time.Duration) (string, error) {
	if actor.PlayerID == uuid.Nil {
		return "", ErrInvalidToken
	}
	now := p.now()
	claims := &actorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   actor.PlayerID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Admin: actor.IsAdmin,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (p *provider) ValidateToken(tokenString string) (ladderdomain.Actor, error) {
	token, err := jwt.ParseWithClaims(tokenString, &actorClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ladderdomain.Actor{}, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return ladderdomain.Actor{}, ErrInvalidSignature
		}
		return ladderdomain.Actor{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*actorClaims)
	if !ok || !token.Valid {
		return ladderdomain.Actor{}, ErrInvalidToken
	}
	playerID, err := uuid.Parse(claims.Subject)
	if err != nil || playerID == uuid.Nil {
		return ladderdomain.Actor{}, ErrInvalidToken
	}
	return ladderdomain.Actor{PlayerID: playerID, IsAdmin: claims.Admin}, nil
}
