package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) ReportCustomersPerCity(c *gin.Context) {
	rows, err := s.reports.CustomersPerCity(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportActiveElementsPerCity(c *gin.Context) {
	rows, err := s.reports.ActiveElementsPerCity(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportTicketsPerEmployee(c *gin.Context) {
	rows, err := s.reports.TicketCountsPerEmployee(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportResolutionTime(c *gin.Context) {
	stats, err := s.reports.AverageResolutionHours(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

func (s *Server) ReportAboveAverageBilling(c *gin.Context) {
	rows, err := s.reports.AboveAverageBillingCustomers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportDaysToPay(c *gin.Context) {
	rows, err := s.reports.DaysToPay(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportRevenuePerPlan(c *gin.Context) {
	rows, err := s.reports.RevenuePerPlan(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportLatestBills(c *gin.Context) {
	rows, err := s.reports.LatestBillPerCustomer(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// monthParams reads ?year=&month= query values. Both are required for
// the month-scoped usage reports.
func monthParams(c *gin.Context) (int, time.Month, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 9999 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func (s *Server) ReportMonthlyUsage(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	rows, err := s.reports.MonthlyUsage(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportTopUsageCustomers(c *gin.Context) {
	year, month, ok := monthParams(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	rows, err := s.reports.TopUsageCustomers(c.Request.Context(), year, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportPromotionEffectiveness(c *gin.Context) {
	rows, err := s.reports.PromotionEffectiveness(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportTransactionTotals(c *gin.Context) {
	rows, err := s.reports.TransactionTotalsByType(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportTransactionTrailingQuarter(c *gin.Context) {
	rows, err := s.reports.TransactionTrailingQuarter(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportTopTransactionCustomers(c *gin.Context) {
	rows, err := s.reports.TopTransactionCustomers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) ReportFlaggedCustomers(c *gin.Context) {
	rows, err := s.reports.FlaggedCustomers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
