package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	promodomain "github.com/telvoralabs/telvora/internal/promotion/domain"
)

type createPromotionRequest struct {
	Name          string    `json:"name"`
	DiscountValue int64     `json:"discount_value"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	PlanID        string    `json:"plan_id"`
}

func (s *Server) CreatePromotion(c *gin.Context) {
	var req createPromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.promotionSvc.Create(c.Request.Context(), promodomain.CreateRequest{
		Name:          strings.TrimSpace(req.Name),
		DiscountValue: req.DiscountValue,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		PlanID:        strings.TrimSpace(req.PlanID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPromotions(c *gin.Context) {
	var query struct {
		Status string `form:"status"`
		PlanID string `form:"plan_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.promotionSvc.List(c.Request.Context(), promodomain.ListRequest{
		Status: strings.TrimSpace(query.Status),
		PlanID: strings.TrimSpace(query.PlanID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPromotionByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.promotionSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ExpirePromotion(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.promotionSvc.Expire(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
