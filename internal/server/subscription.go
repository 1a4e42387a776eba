package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
)

type createSubscriptionRequest struct {
	CustomerID string    `json:"customer_id"`
	PlanID     string    `json:"plan_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

func (s *Server) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.Create(c.Request.Context(), subdomain.CreateRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		PlanID:     strings.TrimSpace(req.PlanID),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListSubscriptions(c *gin.Context) {
	var query struct {
		CustomerID string `form:"customer_id"`
		PlanID     string `form:"plan_id"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.List(c.Request.Context(), subdomain.ListRequest{
		CustomerID: strings.TrimSpace(query.CustomerID),
		PlanID:     strings.TrimSpace(query.PlanID),
		Status:     strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSubscriptionByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.subscriptionSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CancelSubscription(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.subscriptionSvc.Cancel(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type applyPromotionRequest struct {
	PromotionID string `json:"promotion_id"`
}

func (s *Server) ApplySubscriptionPromotion(c *gin.Context) {
	var req applyPromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.subscriptionSvc.ApplyPromotion(c.Request.Context(), subdomain.ApplyPromotionRequest{
		SubscriptionID: strings.TrimSpace(c.Param("id")),
		PromotionID:    strings.TrimSpace(req.PromotionID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSubscription(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.subscriptionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": id}})
}
