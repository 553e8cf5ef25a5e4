package httpserver

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	clientsvc "netbull-client-api/internal/service/client"
)

func createClientHandler(logger *log.Logger, svc clientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in clientsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		created, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(logger *log.Logger, svc clientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		client, token, err := svc.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"accessToken": token,
			"tokenType":   "Bearer",
			"expiresIn":   svc.AccessTTLSeconds(),
			"client":      client,
		})
	}
}

func pageClientsHandler(logger *log.Logger, svc clientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, size := pageParams(c)
		clients, err := svc.Page(c.Request.Context(), page, size)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, clients)
	}
}

func clientByCPFHandler(logger *log.Logger, svc clientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		client, err := svc.GetByCPF(c.Request.Context(), c.Param("cpf"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func updateClientHandler(logger *log.Logger, svc clientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in clientsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		updated, err := svc.Update(c.Request.Context(), requesterEmail(c), in)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteClientHandler(logger *log.Logger, svc clientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), requesterEmail(c)); err != nil {
			respondError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// pageParams reads the page/size query, defaulting to the first page of 10.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size <= 0 {
		size = 10
	}
	return page, size
}
