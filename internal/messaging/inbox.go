package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"netbull-client-api/internal/domain"
)

type productMirror interface {
	UpsertProduct(ctx context.Context, product domain.Product) error
	UpdateProductFields(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type storeMirror interface {
	UpsertStore(ctx context.Context, store domain.Store) error
	UpdateStoreCNPJ(ctx context.Context, id int64, cnpj string) error
	DeleteStore(ctx context.Context, id int64) error
}

type orderDispatcher interface {
	MarkDispatched(ctx context.Context, id int64, dispatched time.Time) error
}

// ProductInbox applies product replication events to the local mirror.
// Events are idempotent: creates are upserts, an update for a mirror that
// no longer exists is dropped so it cannot resurrect a deleted product.
type ProductInbox struct {
	mirror productMirror
	logger *log.Logger
}

func NewProductInbox(mirror productMirror, logger *log.Logger) *ProductInbox {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ProductInbox{mirror: mirror, logger: logger}
}

func (i *ProductInbox) Created(ctx context.Context, body []byte) error {
	product, err := decodeProduct(body)
	if err != nil {
		return err
	}
	return i.mirror.UpsertProduct(ctx, *product)
}

func (i *ProductInbox) Updated(ctx context.Context, body []byte) error {
	product, err := decodeProduct(body)
	if err != nil {
		return err
	}
	if err := i.mirror.UpdateProductFields(ctx, *product); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			i.logger.Printf("product inbox: update for missing mirror id=%d, dropped", product.ID)
			return nil
		}
		return err
	}
	return nil
}

func (i *ProductInbox) Deleted(ctx context.Context, body []byte) error {
	product, err := decodeProduct(body)
	if err != nil {
		return err
	}
	return i.mirror.DeleteProduct(ctx, product.ID)
}

// StoreInbox applies store replication events. Deleting a store removes
// every product mirrored under it first.
type StoreInbox struct {
	mirror storeMirror
	logger *log.Logger
}

func NewStoreInbox(mirror storeMirror, logger *log.Logger) *StoreInbox {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &StoreInbox{mirror: mirror, logger: logger}
}

func (i *StoreInbox) Created(ctx context.Context, body []byte) error {
	store, err := decodeStore(body)
	if err != nil {
		return err
	}
	return i.mirror.UpsertStore(ctx, *store)
}

func (i *StoreInbox) Updated(ctx context.Context, body []byte) error {
	store, err := decodeStore(body)
	if err != nil {
		return err
	}
	if err := i.mirror.UpdateStoreCNPJ(ctx, store.ID, store.CNPJ); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			i.logger.Printf("store inbox: update for missing mirror id=%d, dropped", store.ID)
			return nil
		}
		return err
	}
	return nil
}

func (i *StoreInbox) Deleted(ctx context.Context, body []byte) error {
	store, err := decodeStore(body)
	if err != nil {
		return err
	}
	return i.mirror.DeleteStore(ctx, store.ID)
}

// dispatchEvent is the payload of order.client.updated.dispatched.
type dispatchEvent struct {
	ID              int64             `json:"id"`
	State           domain.OrderState `json:"state"`
	OrderDispatched *time.Time        `json:"orderDispatched"`
}

// OrderInbox applies dispatch acknowledgements from the fulfillment
// service. An unknown order id is dropped silently: the order may belong
// to another service instance.
type OrderInbox struct {
	orders orderDispatcher
	logger *log.Logger
}

func NewOrderInbox(orders orderDispatcher, logger *log.Logger) *OrderInbox {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &OrderInbox{orders: orders, logger: logger}
}

func (i *OrderInbox) Dispatched(ctx context.Context, body []byte) error {
	var event dispatchEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode dispatch event: %w", err)
	}
	if event.ID == 0 {
		return errors.New("dispatch event without order id")
	}

	dispatched := time.Now()
	if event.OrderDispatched != nil {
		dispatched = *event.OrderDispatched
	}

	if err := i.orders.MarkDispatched(ctx, event.ID, dispatched); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			i.logger.Printf("order inbox: dispatch for unknown order id=%d, dropped", event.ID)
			return nil
		}
		return err
	}
	i.logger.Printf("order inbox: order id=%d dispatched", event.ID)
	return nil
}

func decodeProduct(body []byte) (*domain.Product, error) {
	var product domain.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("decode product event: %w", err)
	}
	if product.ID == 0 {
		return nil, errors.New("product event without id")
	}
	return &product, nil
}

func decodeStore(body []byte) (*domain.Store, error) {
	var store domain.Store
	if err := json.Unmarshal(body, &store); err != nil {
		return nil, fmt.Errorf("decode store event: %w", err)
	}
	if store.ID == 0 {
		return nil, errors.New("store event without id")
	}
	return &store, nil
}
