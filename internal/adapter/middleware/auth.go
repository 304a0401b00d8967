package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"p2p-lending-backend/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// Claims carry the user id in "sub" and the account role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth verifies an HS256 bearer token and stores the caller as a
// user.Actor on the echo context.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing Authorization header"})
			}
			raw, ok := strings.CutPrefix(raw, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization must be a Bearer token"})
			}

			claims := &Claims{}
			tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return secret, nil },
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithExpirationRequired(),
			)
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			actor, err := claims.actor()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func (c *Claims) actor() (user.Actor, error) {
	if c.Subject == "" {
		return user.Actor{}, errors.New("token has no subject")
	}
	switch r := user.Role(c.Role); r {
	case user.RoleAdmin, user.RoleLender, user.RoleCustomer:
		return user.Actor{ID: c.Subject, Role: r}, nil
	}
	return user.Actor{}, errors.New("token has an unknown role")
}

// ActorFrom returns the caller stored by JWTAuth.
func ActorFrom(c echo.Context) (user.Actor, bool) {
	a, ok := c.Get(actorKey).(user.Actor)
	return a, ok
}

// RequireRole rejects callers whose role is not listed. Must run after JWTAuth.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			a, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}
			for _, r := range roles {
				if a.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
		}
	}
}

// SignToken issues a token JWTAuth accepts.
func SignToken(secret []byte, userID string, role user.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
