package inventory

import "github.com/google/uuid"

// Collection names used by every store driver.
const (
	ProductsCollection = "products"
	OrdersCollection   = "orders"
)

// Product is a stock-keeping unit.
type Product struct {
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	ID       int     `json:"id"`
	Quantity int     `json:"quantity"`
}

func (p *Product) GetID() int   { return p.ID }
func (p *Product) SetID(id int) { p.ID = id }

// Order statuses.
const (
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// Order reserves a quantity of one product.
type Order struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	ID        uuid.UUID `json:"id"`
}

func (o *Order) GetID() uuid.UUID   { return o.ID }
func (o *Order) SetID(id uuid.UUID) { o.ID = id }

// Assign leaves the status alone unless the update names one, so a plain
// edit cannot reopen a cancelled order by omission.
func (o *Order) Assign(src *Order) {
	o.ProductID = src.ProductID
	o.Quantity = src.Quantity
	o.Note = src.Note
	if src.Status != "" {
		o.Status = src.Status
	}
}
