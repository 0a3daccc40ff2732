package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	reportdomain "github.com/fiscalbr/classtrib/internal/report/domain"
)

// GenerateReport streams a rate report for the NCM codes in the `codigos`
// query parameter. `formato` selects pdf (default), xlsx or txt; `selected`
// narrows the classification rows.
func (s *Server) GenerateReport(c *gin.Context) {
	codes := splitCSV(c.Query("codigos"))
	if len(codes) == 0 {
		AbortWithError(c, newValidationError("codigos", "required", "at least one NCM code is required"))
		return
	}

	format, ok := reportdomain.ParseFormat(c.Query("formato"))
	if !ok {
		AbortWithError(c, newValidationError("formato", "invalid_format", "formato must be pdf, xlsx or txt"))
		return
	}

	req := reportdomain.Request{
		Codes:     codes,
		Format:    format,
		Selection: reportdomain.ParseSelection(splitCSV(c.Query("selected"))),
	}
	clientKey := c.ClientIP()
	if claims := currentClaims(c); claims != nil {
		req.User = &reportdomain.RequestingUser{
			Name:  claims.Name,
			TaxID: claims.TaxID,
		}
		clientKey = claims.Subject
	}

	// Limiter errors fail open: a redis outage must not take reports down.
	if result, err := s.limiter.AllowClient(c.Request.Context(), clientKey); err == nil && !result.Allowed {
		c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	doc, err := s.reportSvc.Generate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.metrics.ReportGenerated(string(format))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}
