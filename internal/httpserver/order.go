package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"netbull-client-api/internal/domain"
	ordersvc "netbull-client-api/internal/service/order"
)

func createOrderHandler(logger *log.Logger, svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		created, err := svc.Create(c.Request.Context(), requesterEmail(c), in)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func pageOrdersHandler(logger *log.Logger, svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := pageParams(c)
		orders, err := svc.PageByRequester(c.Request.Context(), requesterEmail(c), page, size)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func orderByIDHandler(logger *log.Logger, svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		order, err := svc.GetByID(c.Request.Context(), id, requesterEmail(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type patchOrderRequest struct {
	State domain.OrderState `json:"state"`
}

func patchOrderStateHandler(logger *log.Logger, svc orderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in patchOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		updated, err := svc.SetDelivered(c.Request.Context(), id, requesterEmail(c), in.State)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
