package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"netbull-client-api/internal/domain"
	clientsvc "netbull-client-api/internal/service/client"
)

// respondError translates service errors into HTTP responses. Validation
// errors expose every violation; everything unrecognized is logged and
// reported as an internal error without leaking the cause.
func respondError(c *gin.Context, logger *log.Logger, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"violations": validation.Violations})
		return
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusBadRequest, gin.H{"message": conflict.Message})
		return
	}

	var stock *domain.InsufficientStockError
	if errors.As(err, &stock) {
		c.JSON(http.StatusBadRequest, gin.H{"message": stock.Error()})
		return
	}

	var transition *domain.InvalidTransitionError
	if errors.As(err, &transition) {
		c.JSON(http.StatusBadRequest, gin.H{"message": transition.Reason})
		return
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateProduct), errors.Is(err, domain.ErrAmbiguousAddress):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, clientsvc.ErrInvalidCredentials), errors.Is(err, clientsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	default:
		logger.Printf("http: unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}
