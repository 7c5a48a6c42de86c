package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListCostCodes(c *gin.Context) {
	officeID := s.defaultOffice
	if raw := strings.TrimSpace(c.Query("officeId")); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("officeId", "invalid_id", "invalid office id"))
			return
		}
		officeID = parsed
	}
	if officeID == 0 {
		AbortWithError(c, newValidationError("officeId", "required", "an office id is required"))
		return
	}

	catalog, err := s.costcodeSvc.CatalogForOffice(c.Request.Context(), officeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": catalog.All()})
}

// ListCreditCandidates returns the reservations an overpayment excess can be
// carried to: active reservations in the same office, minus the originating
// one.
func (s *Server) ListCreditCandidates(c *gin.Context) {
	officeID, err := snowflake.ParseString(strings.TrimSpace(c.Query("officeId")))
	if err != nil {
		AbortWithError(c, newValidationError("officeId", "invalid_id", "invalid office id"))
		return
	}

	var exclude *snowflake.ID
	if raw := strings.TrimSpace(c.Query("exclude")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("exclude", "invalid_id", "invalid reservation id"))
			return
		}
		exclude = &id
	}

	candidates, err := s.creditSvc.Candidates(c.Request.Context(), officeID, exclude)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": candidates})
}
