package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"netbull-client-api/internal/domain"
	addresssvc "netbull-client-api/internal/service/address"
	clientsvc "netbull-client-api/internal/service/client"
	ordersvc "netbull-client-api/internal/service/order"
)

type clientService interface {
	Create(ctx context.Context, in clientsvc.CreateInput) (*domain.Client, error)
	Login(ctx context.Context, email, password string) (*domain.Client, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Client, error)
	AccessTTLSeconds() int
	Page(ctx context.Context, page, size int) (*domain.ClientPage, error)
	GetByCPF(ctx context.Context, cpf string) (*domain.Client, error)
	Update(ctx context.Context, requesterEmail string, in clientsvc.UpdateInput) (*domain.Client, error)
	Delete(ctx context.Context, requesterEmail string) error
}

type addressService interface {
	Create(ctx context.Context, requesterEmail string, in addresssvc.Input) (*domain.Address, error)
	ListByRequester(ctx context.Context, requesterEmail string) ([]domain.Address, error)
	ListTypes(ctx context.Context) ([]domain.AddressType, error)
	PatchType(ctx context.Context, id int64, requesterEmail string, typeID int) (*domain.Address, error)
	Put(ctx context.Context, id int64, requesterEmail string, in addresssvc.Input) (*domain.Address, error)
	Delete(ctx context.Context, id int64, requesterEmail string) error
}

type orderService interface {
	Create(ctx context.Context, requesterEmail string, in ordersvc.CreateInput) (*domain.Order, error)
	SetDelivered(ctx context.Context, id int64, requesterEmail string, requested domain.OrderState) (*domain.Order, error)
	GetByID(ctx context.Context, id int64, requesterEmail string) (*domain.Order, error)
	PageByRequester(ctx context.Context, requesterEmail string, page, size int) (*domain.OrderPage, error)
}

// Deps carries the services the router needs.
type Deps struct {
	ClientSvc  clientService
	AddressSvc addressService
	OrderSvc   orderService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	v1 := router.Group("/v1")
	v1.POST("/clients", createClientHandler(logger, deps.ClientSvc))
	v1.POST("/login", loginHandler(logger, deps.ClientSvc))

	authed := v1.Group("", authRequired(deps.ClientSvc))
	authed.GET("/clients", pageClientsHandler(logger, deps.ClientSvc))
	authed.GET("/clients/cpf/:cpf", clientByCPFHandler(logger, deps.ClientSvc))
	authed.PUT("/clients", updateClientHandler(logger, deps.ClientSvc))
	authed.DELETE("/clients", deleteClientHandler(logger, deps.ClientSvc))

	authed.POST("/clients/addresses", createAddressHandler(logger, deps.AddressSvc))
	authed.GET("/clients/addresses", listAddressesHandler(logger, deps.AddressSvc))
	authed.GET("/clients/addresses/types", listAddressTypesHandler(logger, deps.AddressSvc))
	authed.PATCH("/clients/addresses/:id", patchAddressTypeHandler(logger, deps.AddressSvc))
	authed.PUT("/clients/addresses/:id", putAddressHandler(logger, deps.AddressSvc))
	authed.DELETE("/clients/addresses/:id", deleteAddressHandler(logger, deps.AddressSvc))

	authed.POST("/clients/orders", createOrderHandler(logger, deps.OrderSvc))
	authed.GET("/clients/orders", pageOrdersHandler(logger, deps.OrderSvc))
	authed.GET("/clients/orders/:id", orderByIDHandler(logger, deps.OrderSvc))
	authed.PATCH("/clients/orders/:id", patchOrderStateHandler(logger, deps.OrderSvc))

	return router
}
