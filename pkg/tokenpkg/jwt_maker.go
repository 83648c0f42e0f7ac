package tokenpkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const minSecretKeySize = 16

// JWTMaker is a JSON Web Token maker signing with HS256.
type JWTMaker struct {
	secretKey string
}

// NewJWTMaker creates a new JWTMaker.
func NewJWTMaker(secretKey string) (Maker, error) {
	if len(secretKey) < minSecretKeySize {
		return nil, fmt.Errorf("invalid key size: must be at least %d characters", minSecretKeySize)
	}

	return &JWTMaker{secretKey}, nil
}

// CreateToken creates a new token for a specific username and duration.
func (maker *JWTMaker) CreateToken(username string, duration time.Duration) (string, *Payload, error) {
	payload, err := NewPayload(username, duration)
	if err != nil {
		return "", payload, err
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	token, err := jwtToken.SignedString([]byte(maker.secretKey))

	return token, payload, err
}

// VerifyToken checks if the token is valid or not.
//
// Registered exp and nbf claims are enforced when present, alongside the payload's own
// expired_at. A token without any expiry claim does not expire.
func (maker *JWTMaker) VerifyToken(token string) (*Payload, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}

		return []byte(maker.secretKey), nil
	}

	claims := jwt.MapClaims{}

	_, err := jwt.ParseWithClaims(token, claims, keyFunc)
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	payload, err := payloadFromClaims(claims)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if err := payload.Valid(); err != nil {
		return nil, err
	}

	return payload, nil
}

// payloadFromClaims reads the payload fields and falls back to the registered sub and exp.
func payloadFromClaims(claims jwt.MapClaims) (*Payload, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return nil, err
	}

	payload := &Payload{}
	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, err
	}

	if payload.Username == "" {
		if sub, ok := claims["sub"].(string); ok {
			payload.Username = sub
		}
	}

	if payload.ExpiredAt.IsZero() {
		if exp, ok := claims["exp"].(float64); ok {
			payload.ExpiredAt = time.Unix(int64(exp), 0)
		}
	}

	return payload, nil
}
