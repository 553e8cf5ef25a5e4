package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"netbull-client-api/internal/config"
	"netbull-client-api/internal/db"
	"netbull-client-api/internal/httpserver"
	"netbull-client-api/internal/messaging"
	addressrepo "netbull-client-api/internal/repository/address"
	clientrepo "netbull-client-api/internal/repository/client"
	orderrepo "netbull-client-api/internal/repository/order"
	storerepo "netbull-client-api/internal/repository/store"
	tokenrepo "netbull-client-api/internal/repository/token"
	addresssvc "netbull-client-api/internal/service/address"
	clientsvc "netbull-client-api/internal/service/client"
	ordersvc "netbull-client-api/internal/service/order"
	stocksvc "netbull-client-api/internal/service/stock"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	amqpConn, err := messaging.Connect(cfg.AMQPURL)
	if err != nil {
		logger.Fatalf("connect to broker: %v", err)
	}
	defer amqpConn.Close()

	if err := messaging.DeclareTopology(amqpConn); err != nil {
		logger.Fatalf("declare broker topology: %v", err)
	}

	clientRepo := clientrepo.NewPostgres(dbpool, logger)
	addressRepo := addressrepo.NewPostgres(dbpool, logger)
	storeRepo := storerepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	publisher, err := messaging.NewPublisher(amqpConn, logger)
	if err != nil {
		logger.Fatalf("init publisher: %v", err)
	}
	defer publisher.Close()

	clientService := clientsvc.New(clientRepo, tokenRepo, logger)
	addressService := addresssvc.New(addressRepo, clientService, logger)
	stockEngine := stocksvc.New(storeRepo)
	orderService := ordersvc.New(orderRepo, addressRepo, clientService, stockEngine, publisher, logger)

	productInbox := messaging.NewProductInbox(storeRepo, logger)
	storeInbox := messaging.NewStoreInbox(storeRepo, logger)
	orderInbox := messaging.NewOrderInbox(orderRepo, logger)

	consumer := messaging.NewConsumer(amqpConn, logger)
	consumer.Handle(messaging.QueueProductCreated, productInbox.Created)
	consumer.Handle(messaging.QueueProductUpdated, productInbox.Updated)
	consumer.Handle(messaging.QueueProductDeleted, productInbox.Deleted)
	consumer.Handle(messaging.QueueStoreCreated, storeInbox.Created)
	consumer.Handle(messaging.QueueStoreUpdated, storeInbox.Updated)
	consumer.Handle(messaging.QueueStoreDeleted, storeInbox.Deleted)
	consumer.Handle(messaging.QueueOrderDispatched, orderInbox.Dispatched)
	if err := consumer.Start(ctx); err != nil {
		logger.Fatalf("start consumer: %v", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ClientSvc:  clientService,
		AddressSvc: addressService,
		OrderSvc:   orderService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
