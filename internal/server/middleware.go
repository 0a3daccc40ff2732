package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	authdomain "github.com/fiscalbr/classtrib/internal/auth/domain"
	"github.com/fiscalbr/classtrib/internal/auth/token"
)

const (
	claimsContextKey = "auth.claims"
	requestIDHeader  = "X-Request-Id"
)

// RequestID propagates the caller's request id or assigns one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger emits one structured line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("request_id", c.Writer.Header().Get(requestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// ResolveUser reads an optional bearer token. A missing, malformed or
// expired token is not an error on public routes; the request simply runs
// anonymously.
func (s *Server) ResolveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := s.bearerClaims(c); claims != nil {
			c.Set(claimsContextKey, claims)
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a valid bearer token.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := s.bearerClaims(c)
		if claims == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// AdminRequired must run after AuthRequired.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil || claims.Role != authdomain.RoleAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func (s *Server) bearerClaims(c *gin.Context) *token.Claims {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}

	claims, err := s.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}
	return claims
}

func currentClaims(c *gin.Context) *token.Claims {
	value, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*token.Claims)
	if !ok {
		return nil
	}
	return claims
}
