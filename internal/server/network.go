package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	netdomain "github.com/telvoralabs/telvora/internal/network/domain"
)

type createEmployeeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) CreateEmployee(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.networkSvc.CreateEmployee(c.Request.Context(), netdomain.CreateEmployeeRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Role:  strings.TrimSpace(req.Role),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListEmployees(c *gin.Context) {
	resp, err := s.networkSvc.ListEmployees(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type createElementRequest struct {
	Type       string `json:"type"`
	LocationID string `json:"location_id"`
	EmployeeID string `json:"employee_id"`
}

func (s *Server) CreateNetworkElement(c *gin.Context) {
	var req createElementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.networkSvc.CreateElement(c.Request.Context(), netdomain.CreateElementRequest{
		Type:       strings.TrimSpace(req.Type),
		LocationID: strings.TrimSpace(req.LocationID),
		EmployeeID: strings.TrimSpace(req.EmployeeID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListNetworkElements(c *gin.Context) {
	var query struct {
		Type   string `form:"type"`
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.networkSvc.ListElements(c.Request.Context(), netdomain.ListElementsRequest{
		Type:   strings.TrimSpace(query.Type),
		Status: strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateElementStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateNetworkElementStatus(c *gin.Context) {
	var req updateElementStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.networkSvc.UpdateElementStatus(c.Request.Context(), id, strings.TrimSpace(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
