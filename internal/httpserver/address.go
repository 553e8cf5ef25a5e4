package httpserver

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	addresssvc "netbull-client-api/internal/service/address"
)

func createAddressHandler(logger *log.Logger, svc addressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addresssvc.Input
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

func listAddressesHandler(logger *log.Logger, svc addressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := svc.ListByRequester(c.Request.Context(), requesterEmail(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

func listAddressTypesHandler(logger *log.Logger, svc addressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		types, err := svc.ListTypes(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, types)
	}
}

type patchAddressRequest struct {
	TypeID int `json:"typeId"`
}

func patchAddressTypeHandler(logger *log.Logger, svc addressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in patchAddressRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		updated, err := svc.PatchType(c.Request.Context(), id, requesterEmail(c), in.TypeID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func putAddressHandler(logger *log.Logger, svc addressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in addresssvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		updated, err := svc.Put(c.Request.Context(), id, requesterEmail(c), in)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteAddressHandler(logger *log.Logger, svc addressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id, requesterEmail(c)); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// pathID parses the :id parameter, writing the error response itself.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
