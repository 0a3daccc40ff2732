package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "github.com/fiscalbr/classtrib/internal/auth/domain"
)

func (s *Server) Login(c *gin.Context) {
	var req authdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.authsvc.Login(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) Me(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := claims.UserID()
	if err != nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.authsvc.Profile(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
