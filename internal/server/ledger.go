package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/telvoralabs/telvora/internal/ledger/domain"
)

type postTransactionRequest struct {
	CustomerID string    `json:"customer_id"`
	Type       string    `json:"type"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

func (r postTransactionRequest) toDomain() ledgerdomain.PostRequest {
	return ledgerdomain.PostRequest{
		CustomerID: strings.TrimSpace(r.CustomerID),
		Type:       strings.TrimSpace(r.Type),
		Amount:     r.Amount,
		Status:     strings.TrimSpace(r.Status),
		Timestamp:  r.Timestamp,
	}
}

func (s *Server) PostTransaction(c *gin.Context) {
	var req postTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledgerSvc.Post(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type postTransactionBatchRequest struct {
	Entries []postTransactionRequest `json:"entries"`
}

func (s *Server) PostTransactionBatch(c *gin.Context) {
	var req postTransactionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	batch := ledgerdomain.BatchRequest{
		Entries: make([]ledgerdomain.PostRequest, 0, len(req.Entries)),
	}
	for _, entry := range req.Entries {
		batch.Entries = append(batch.Entries, entry.toDomain())
	}

	resp, err := s.ledgerSvc.PostBatch(c.Request.Context(), batch)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTransactions(c *gin.Context) {
	var query struct {
		CustomerID string `form:"customer_id"`
		Type       string `form:"type"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledgerSvc.List(c.Request.Context(), ledgerdomain.ListRequest{
		CustomerID: strings.TrimSpace(query.CustomerID),
		Type:       strings.TrimSpace(query.Type),
		Status:     strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
