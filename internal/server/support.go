package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	supportdomain "github.com/telvoralabs/telvora/internal/support/domain"
)

type createTicketRequest struct {
	Type       string  `json:"type"`
	Priority   *string `json:"priority"`
	CustomerID string  `json:"customer_id"`
	EmployeeID string  `json:"employee_id"`
}

func (s *Server) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.supportSvc.Create(c.Request.Context(), supportdomain.CreateRequest{
		Type:       strings.TrimSpace(req.Type),
		Priority:   req.Priority,
		CustomerID: strings.TrimSpace(req.CustomerID),
		EmployeeID: strings.TrimSpace(req.EmployeeID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTickets(c *gin.Context) {
	var query struct {
		Status     string `form:"status"`
		CustomerID string `form:"customer_id"`
		EmployeeID string `form:"employee_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.supportSvc.List(c.Request.Context(), supportdomain.ListRequest{
		Status:     strings.TrimSpace(query.Status),
		CustomerID: strings.TrimSpace(query.CustomerID),
		EmployeeID: strings.TrimSpace(query.EmployeeID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTicketByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.supportSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateTicketStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateTicketStatus(c *gin.Context) {
	var req updateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.supportSvc.UpdateStatus(c.Request.Context(), supportdomain.UpdateStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
