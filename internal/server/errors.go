package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/telvoralabs/telvora/internal/billing/domain"
	custdomain "github.com/telvoralabs/telvora/internal/customer/domain"
	"github.com/telvoralabs/telvora/internal/integrity"
	ledgerdomain "github.com/telvoralabs/telvora/internal/ledger/domain"
	netdomain "github.com/telvoralabs/telvora/internal/network/domain"
	plandomain "github.com/telvoralabs/telvora/internal/plan/domain"
	promodomain "github.com/telvoralabs/telvora/internal/promotion/domain"
	subdomain "github.com/telvoralabs/telvora/internal/subscription/domain"
	supportdomain "github.com/telvoralabs/telvora/internal/support/domain"
	usagedomain "github.com/telvoralabs/telvora/internal/usage/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware translates domain errors pushed onto the gin
// context into HTTP responses.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

// errInvalidRequest covers malformed request bodies and query strings
// that fail binding before any domain validation runs.
var errInvalidRequest = errors.New("invalid_request")

func invalidRequestError() error { return errInvalidRequest }

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

var notFoundErrors = []error{
	plandomain.ErrNotFound,
	custdomain.ErrNotFound,
	subdomain.ErrNotFound,
	promodomain.ErrNotFound,
	supportdomain.ErrNotFound,
	billingdomain.ErrNotFound,
	netdomain.ErrElementNotFound,
	gorm.ErrRecordNotFound,
}

var conflictErrors = []error{
	plandomain.ErrDuplicateCode,
	custdomain.ErrDuplicatePhone,
	netdomain.ErrDuplicateEmail,
	subdomain.ErrPromotionApplied,
	subdomain.ErrAlreadyCancelled,
	promodomain.ErrAlreadyExpired,
	supportdomain.ErrInvalidTransition,
	gorm.ErrDuplicatedKey,
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}
		}
	}

	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}
		}
	}

	var restricted *integrity.RestrictedError
	if errors.As(err, &restricted) {
		return http.StatusConflict, errorPayload{Type: "restricted_delete", Message: restricted.Error()}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return http.StatusConflict, errorPayload{Type: "restricted_delete", Message: err.Error()}
	}

	if errors.Is(err, usagedomain.ErrRateLimited) {
		return http.StatusTooManyRequests, errorPayload{Type: "rate_limited", Message: err.Error()}
	}

	if isDomainValidation(err) {
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

var validationErrors = []error{
	errInvalidRequest,
	plandomain.ErrInvalidID,
	plandomain.ErrInvalidName,
	plandomain.ErrInvalidPrice,
	plandomain.ErrInvalidAllowance,
	plandomain.ErrInvalidStatus,
	custdomain.ErrInvalidID,
	custdomain.ErrInvalidName,
	custdomain.ErrInvalidPhone,
	custdomain.ErrInvalidEmail,
	custdomain.ErrInvalidStatus,
	custdomain.ErrInvalidLocation,
	netdomain.ErrInvalidID,
	netdomain.ErrInvalidEmployeeName,
	netdomain.ErrInvalidEmployeeEmail,
	netdomain.ErrInvalidEmployeeRole,
	netdomain.ErrInvalidElementType,
	netdomain.ErrInvalidElementStatus,
	netdomain.ErrInvalidLocation,
	netdomain.ErrInvalidEmployee,
	supportdomain.ErrInvalidID,
	supportdomain.ErrInvalidType,
	supportdomain.ErrInvalidStatus,
	supportdomain.ErrInvalidPriority,
	supportdomain.ErrInvalidCustomer,
	supportdomain.ErrInvalidEmployee,
	promodomain.ErrInvalidID,
	promodomain.ErrInvalidName,
	promodomain.ErrInvalidDiscount,
	promodomain.ErrInvalidPeriod,
	promodomain.ErrInvalidPlan,
	subdomain.ErrInvalidID,
	subdomain.ErrInvalidCustomer,
	subdomain.ErrInvalidPlan,
	subdomain.ErrInvalidPeriod,
	subdomain.ErrInvalidPromotion,
	subdomain.ErrPromotionPlanMatch,
	subdomain.ErrPromotionInactive,
	usagedomain.ErrInvalidType,
	usagedomain.ErrInvalidAmount,
	usagedomain.ErrInvalidSubscription,
	usagedomain.ErrInvalidElement,
	billingdomain.ErrInvalidID,
	billingdomain.ErrInvalidSubscription,
	billingdomain.ErrInvalidPeriod,
	billingdomain.ErrInvalidAmount,
	billingdomain.ErrInvalidStatus,
	billingdomain.ErrInvalidCustomer,
	billingdomain.ErrInvalidPayment,
	ledgerdomain.ErrInvalidCustomer,
	ledgerdomain.ErrInvalidType,
	ledgerdomain.ErrInvalidAmount,
	ledgerdomain.ErrInvalidStatus,
	ledgerdomain.ErrEmptyBatch,
	gorm.ErrCheckConstraintViolated,
}

func isDomainValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
