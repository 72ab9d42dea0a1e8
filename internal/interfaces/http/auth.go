package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/domain/entity"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Claims are the staff token claims
type Claims struct {
	UserID string      `json:"uid"`
	Name   string      `json:"name,omitempty"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies staff bearer tokens
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

// NewAuthenticator creates an Authenticator for HS256 tokens signed with secret
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &Authenticator{secret: []byte(secret), now: time.Now}, nil
}

// IssueToken signs a staff token. Identity management lives outside this
// service; this is used by tooling and tests.
func (a *Authenticator) IssueToken(userID string, role entity.Role, ttl time.Duration) (string, error) {
	now := a.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Parse validates a signed token and returns its claims
func (a *Authenticator) Parse(signed string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token and stores the
// acting user in the gin context
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		signed, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || signed == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "missing bearer token"})
			return
		}

		claims, err := a.Parse(signed)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Error: "invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireRole allows only the given roles through. Managers always pass.
func RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := roleOf(c)
		if role == entity.RoleManager {
			c.Next()
			return
		}
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, Response{Success: false, Error: "forbidden"})
	}
}

func actorOf(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func roleOf(c *gin.Context) entity.Role {
	if v, ok := c.Get(ctxRole); ok {
		if r, ok := v.(entity.Role); ok {
			return r
		}
	}
	return ""
}
