// Package publiclink turns order ids into signed tokens that can be printed
// on a ticket or QR code and later resolved without a login.
package publiclink

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/application/port"
)

const audience = "public-order"

// linkClaims carries the order id in the subject
type linkClaims struct {
	jwt.RegisteredClaims
}

// Codec implements port.PublicLinkCodec with HS256 JWTs
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a codec; ttl <= 0 issues tokens without expiry
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("public link secret is required")
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (c *Codec) Encode(orderID string) (string, error) {
	if orderID == "" {
		return "", errors.New("order id is required")
	}

	issued := c.now()
	claims := linkClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  orderID,
			Audience: jwt.ClaimStrings{audience},
			IssuedAt: jwt.NewNumericDate(issued),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issued.Add(c.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign public link: %w", err)
	}
	return signed, nil
}

// Decode returns port.ErrInvalidLink for malformed, forged or expired tokens
func (c *Codec) Decode(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &linkClaims{},
		func(*jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", port.ErrInvalidLink, err)
	}

	claims, ok := parsed.Claims.(*linkClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", port.ErrInvalidLink
	}
	return claims.Subject, nil
}

var _ port.PublicLinkCodec = (*Codec)(nil)
