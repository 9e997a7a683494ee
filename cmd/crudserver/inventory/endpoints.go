package inventory

import (
	"errors"
	"net/http"
	"runtime"

	"github.com/google/uuid"

	"github.com/dmitrymomot/crudforge"
	"github.com/dmitrymomot/crudforge/di"
	"github.com/dmitrymomot/crudforge/store"
)

// LowStockThreshold is the quantity below which a product is reported by
// the stock summary.
const LowStockThreshold = 5

// StockSummary is the body of GET /api/products/stock.
type StockSummary struct {
	LowStock []int `json:"low_stock"`
	Products int   `json:"products"`
	Units    int   `json:"units"`
}

// StockEndpoint belongs to the products module and is mapped under the
// products controller.
type StockEndpoint struct {
	products store.Store[*Product, int]
}

// NewStockEndpoint is the registry factory of StockEndpoint.
func NewStockEndpoint(s *di.Scope) (*StockEndpoint, error) {
	st, err := di.Resolve[store.Store[*Product, int]](s)
	if err != nil {
		return nil, err
	}
	return &StockEndpoint{products: st}, nil
}

func (e *StockEndpoint) Routes(r crudforge.Router) {
	r.GET("/stock", e.summary).
		WithName("products.stock").
		WithDescription("Summarises units in stock")
}

func (e *StockEndpoint) summary(c crudforge.Context) error {
	items, err := e.products.Session().All(c)
	if err != nil {
		return err
	}

	out := StockSummary{LowStock: []int{}, Products: len(items)}
	for _, p := range items {
		out.Units += p.Quantity
		if p.Quantity < LowStockThreshold {
			out.LowStock = append(out.LowStock, p.ID)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// CancelOrderEndpoint is included by the orders controller.
type CancelOrderEndpoint struct {
	orders store.Store[*Order, uuid.UUID]
}

// NewCancelOrderEndpoint is the registry factory of CancelOrderEndpoint.
func NewCancelOrderEndpoint(s *di.Scope) (*CancelOrderEndpoint, error) {
	st, err := di.Resolve[store.Store[*Order, uuid.UUID]](s)
	if err != nil {
		return nil, err
	}
	return &CancelOrderEndpoint{orders: st}, nil
}

func (e *CancelOrderEndpoint) Routes(r crudforge.Router) {
	r.POST("/{id}/cancel", e.cancel).
		WithName("orders.cancel").
		WithDescription("Cancels a pending order")
}

func (e *CancelOrderEndpoint) cancel(c crudforge.Context) error {
	id, err := store.ParseID[uuid.UUID](c.Param("id"))
	if err != nil {
		return crudforge.ErrBadRequest("invalid order id", crudforge.WithError(err))
	}

	s := e.orders.Session()
	order, err := s.Find(c, id)
	if errors.Is(err, store.ErrNotFound) {
		return crudforge.ErrNotFound("order not found", crudforge.WithError(err))
	}
	if err != nil {
		return err
	}
	if order.Status == StatusCancelled {
		return crudforge.ErrConflict("order already cancelled", crudforge.WithErrorCode("order_cancelled"))
	}

	if err := s.ApplyCurrentValues(order, &Order{
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
		Note:      order.Note,
		Status:    StatusCancelled,
	}); err != nil {
		return err
	}
	if err := s.Commit(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

// NewBuildInfo fills GoVersion from the runtime.
func NewBuildInfo(version, commit string) BuildInfo {
	return BuildInfo{Version: version, Commit: commit, GoVersion: runtime.Version()}
}

// VersionEndpoint is standalone and mapped on the root router.
type VersionEndpoint struct {
	info BuildInfo
}

// NewVersionEndpoint is the registry factory of VersionEndpoint.
func NewVersionEndpoint(s *di.Scope) (*VersionEndpoint, error) {
	info, err := di.Resolve[BuildInfo](s)
	if err != nil {
		return nil, err
	}
	return &VersionEndpoint{info: info}, nil
}

func (e *VersionEndpoint) Routes(r crudforge.Router) {
	r.GET("/version", func(c crudforge.Context) error {
		return c.JSON(http.StatusOK, e.info)
	}).WithName("version")
}

// PingEndpoint is standalone and mapped on the root router.
type PingEndpoint struct{}

// NewPingEndpoint is the registry factory of PingEndpoint.
func NewPingEndpoint(*di.Scope) (*PingEndpoint, error) { return &PingEndpoint{}, nil }

func (*PingEndpoint) Routes(r crudforge.Router) {
	r.GET("/ping", func(c crudforge.Context) error {
		return c.String(http.StatusOK, "pong")
	}).WithName("ping")
}
