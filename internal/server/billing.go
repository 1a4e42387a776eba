package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/telvoralabs/telvora/internal/billing/domain"
)

type createBillingRequest struct {
	SubscriptionID string    `json:"subscription_id"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	IssueDate      time.Time `json:"issue_date"`
	DueDate        time.Time `json:"due_date"`
	TotalAmount    int64     `json:"total_amount"`
	DiscountAmount int64     `json:"discount_amount"`
}

func (s *Server) CreateBilling(c *gin.Context) {
	var req createBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.CreateBilling(c.Request.Context(), billingdomain.CreateBillingRequest{
		SubscriptionID: strings.TrimSpace(req.SubscriptionID),
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		IssueDate:      req.IssueDate,
		DueDate:        req.DueDate,
		TotalAmount:    req.TotalAmount,
		DiscountAmount: req.DiscountAmount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBillings(c *gin.Context) {
	var query struct {
		SubscriptionID string `form:"subscription_id"`
		Status         string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.ListBillings(c.Request.Context(), billingdomain.ListBillingsRequest{
		SubscriptionID: strings.TrimSpace(query.SubscriptionID),
		Status:         strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillingByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.billingSvc.GetBilling(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateBillingStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateBillingStatus(c *gin.Context) {
	var req updateBillingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.billingSvc.UpdateBillingStatus(c.Request.Context(), id, strings.TrimSpace(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteBilling(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.billingSvc.DeleteBilling(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": id}})
}

type recordPaymentRequest struct {
	BillingID  string `json:"billing_id"`
	AmountPaid int64  `json:"amount_paid"`
	Status     string `json:"status"`
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.RecordPayment(c.Request.Context(), billingdomain.RecordPaymentRequest{
		BillingID:  strings.TrimSpace(req.BillingID),
		AmountPaid: req.AmountPaid,
		Status:     strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
