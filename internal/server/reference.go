package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	refdomain "github.com/telvoralabs/telvora/internal/reference/domain"
)

func (s *Server) ListLocations(c *gin.Context) {
	locations, err := s.refrepo.ListLocations(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": locations})
}

type createLocationRequest struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

func (s *Server) CreateLocation(c *gin.Context) {
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	city := strings.TrimSpace(req.City)
	country := strings.TrimSpace(req.Country)
	if city == "" || country == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	location := refdomain.Location{
		ID:      s.genID.Generate(),
		City:    city,
		Country: country,
	}
	if err := s.refrepo.InsertLocation(c.Request.Context(), s.db, &location); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": location})
}
