package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListChapters(c *gin.Context) {
	chapters, err := s.refSvc.Chapters(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": chapters})
}

func (s *Server) ListPositions(c *gin.Context) {
	positions, err := s.refSvc.Positions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": positions})
}

func (s *Server) ListSubpositions(c *gin.Context) {
	subpositions, err := s.refSvc.Subpositions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subpositions})
}
