package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	ncmdomain "github.com/fiscalbr/classtrib/internal/ncm/domain"
)

func (s *Server) SearchNcm(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	resp, err := s.ncmSvc.Search(c.Request.Context(), ncmdomain.SearchRequest{
		Query: strings.TrimSpace(c.Query("q")),
		Page:  page,
		Size:  size,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetNcm(c *gin.Context) {
	resp, err := s.ncmSvc.GetByCode(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LookupBatch accepts either a JSON list of codes or an uploaded spreadsheet,
// extracts the NCM codes and reports which are known.
func (s *Server) LookupBatch(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req ncmdomain.LookupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		resp, err := s.ncmSvc.Lookup(c.Request.Context(), req.Codes)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required", "spreadsheet upload is required"))
		return
	}
	defer file.Close()

	codes, err := s.extractor.ExtractCodes(file)
	if err != nil {
		AbortWithError(c, newValidationError("file", "invalid_file", "file is not a readable spreadsheet"))
		return
	}
	if len(codes) == 0 {
		AbortWithError(c, newValidationError("file", "no_codes", "no NCM codes found in spreadsheet"))
		return
	}

	resp, err := s.ncmSvc.Lookup(c.Request.Context(), codes)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
