package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	usagedomain "github.com/telvoralabs/telvora/internal/usage/domain"
)

type ingestUsageRequest struct {
	Type             string    `json:"type"`
	Amount           int64     `json:"amount"`
	SubscriptionID   string    `json:"subscription_id"`
	NetworkElementID string    `json:"network_element_id"`
	Timestamp        time.Time `json:"timestamp"`
}

func (s *Server) IngestUsage(c *gin.Context) {
	var req ingestUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.usageSvc.Ingest(c.Request.Context(), usagedomain.IngestRequest{
		Type:             strings.TrimSpace(req.Type),
		Amount:           req.Amount,
		SubscriptionID:   strings.TrimSpace(req.SubscriptionID),
		NetworkElementID: strings.TrimSpace(req.NetworkElementID),
		Timestamp:        req.Timestamp,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListUsage(c *gin.Context) {
	var query struct {
		SubscriptionID string `form:"subscription_id"`
		Type           string `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.usageSvc.List(c.Request.Context(), usagedomain.ListRequest{
		SubscriptionID: strings.TrimSpace(query.SubscriptionID),
		Type:           strings.TrimSpace(query.Type),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RefreshUsageSnapshots(c *gin.Context) {
	count, err := s.snapshots.RunOnce(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"plans_snapshotted": count}})
}

func (s *Server) LatestUsageSnapshots(c *gin.Context) {
	rows, err := s.snapshots.Latest(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}
