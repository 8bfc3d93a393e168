package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/access"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
	// ContextKeyUser is the Gin context key for the freshly loaded profile.
	ContextKeyUser = "user"
)

// Authenticator is the slice of service.AuthService the middleware needs.
type Authenticator interface {
	ValidateToken(token string) (*service.Claims, error)
	ValidateSession(ctx context.Context, userID uuid.UUID, jti string) error
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	RevokeSession(ctx context.Context, userID uuid.UUID) error
}

// RequireRole authenticates the request and runs the route-entry access
// check against the profile as currently stored, not as it was when the
// token was issued. Tokens come from the Authorization header, or from
// ?token= for WebSocket upgrades.
func RequireRole(auth Authenticator, role model.Role, log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "auth_middleware").Logger()

	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			response.AbortFailWithRedirect(c, http.StatusUnauthorized, response.ErrTokenRequired, access.LoginPath)
			return
		}

		claims, err := auth.ValidateToken(tokenStr)
		if err != nil {
			code := response.ErrTokenInvalid
			if errors.Is(err, jwt.ErrTokenExpired) {
				code = response.ErrTokenExpired
			}
			response.AbortFailWithRedirect(c, http.StatusUnauthorized, code, access.LoginPath)
			return
		}

		ctx := c.Request.Context()
		if err := auth.ValidateSession(ctx, claims.UserID, claims.ID); err != nil {
			if errors.Is(err, service.ErrSessionInvalid) {
				response.AbortFailWithRedirect(c, http.StatusUnauthorized, response.ErrSessionInvalidated, access.LoginPath)
				return
			}
			log.Error().Err(err).Msg("Session lookup failed")
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		profile, err := auth.Me(ctx, claims.UserID)
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			log.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("Profile lookup failed")
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		decision := access.Check(profile, role)
		if !decision.Authorized() {
			abortRedirect(c, auth, decision.Redirect, role, claims.UserID, log)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUser, profile)
		c.Next()
	}
}

func abortRedirect(c *gin.Context, auth Authenticator, r *access.Redirect, role model.Role, userID uuid.UUID, log zerolog.Logger) {
	switch r.Reason {
	case access.ReasonUnauthenticated:
		response.AbortFailWithRedirect(c, http.StatusUnauthorized, response.ErrTokenInvalid, r.Target)
	case access.ReasonInactive:
		if err := auth.RevokeSession(c.Request.Context(), userID); err != nil {
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to revoke inactive session")
		}
		response.AbortFailWithRedirect(c, http.StatusForbidden, response.ErrAccountInactive, r.Target)
	default:
		code := response.ErrStudentAccessOnly
		if role == model.RoleAdmin {
			code = response.ErrAdminAccessOnly
		}
		response.AbortFailWithRedirect(c, http.StatusForbidden, code, r.Target)
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetUser retrieves the profile loaded by RequireRole.
func GetUser(c *gin.Context) *model.User {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	u, ok := val.(*model.User)
	if !ok {
		return nil
	}
	return u
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// Browsers cannot set headers on a WebSocket handshake.
	return c.Query("token")
}
