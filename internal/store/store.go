// Package store defines the persistence contract shared by the in-memory
// and SQL-backed backends. Handlers never touch a database directly; they
// depend on Store and receive whichever backend main selected at startup.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Pavanreddy56/BKI-company/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique constraint (tracking number,
	// invoice number, user email) would be violated.
	ErrConflict = errors.New("unique constraint violation")
)

// ProductUpdate enumerates the product fields an admin may patch. Nil
// fields are left untouched.
type ProductUpdate struct {
	Name         *string  `json:"name"`
	HsCode       *string  `json:"hsCode"`
	Category     *string  `json:"category"`
	Description  *string  `json:"description"`
	Unit         *string  `json:"unit"`
	PricePerUnit *float64 `json:"pricePerUnit"`
	Origin       *string  `json:"origin"`
	ImageURL     *string  `json:"imageUrl"`
	InStock      *bool    `json:"inStock"`
}

// QuoteUpdate enumerates the quote fields an admin may patch.
type QuoteUpdate struct {
	Status      *string  `json:"status"`
	QuotedPrice *float64 `json:"quotedPrice"`
	AdminNotes  *string  `json:"adminNotes"`
}

// ShipmentUpdate enumerates the shipment fields an admin may patch.
type ShipmentUpdate struct {
	Status             *string    `json:"status"`
	Origin             *string    `json:"origin"`
	Destination        *string    `json:"destination"`
	Carrier            *string    `json:"carrier"`
	ShippingMethod     *string    `json:"shippingMethod"`
	EstimatedDelivery  *time.Time `json:"estimatedDelivery"`
	ActualDelivery     *time.Time `json:"actualDelivery"`
	Weight             *float64   `json:"weight"`
	ProductDescription *string    `json:"productDescription"`
}

// InvoiceUpdate enumerates the invoice fields an admin may patch.
type InvoiceUpdate struct {
	Status      *string    `json:"status"`
	Amount      *float64   `json:"amount"`
	Currency    *string    `json:"currency"`
	DueDate     *time.Time `json:"dueDate"`
	PaidDate    *time.Time `json:"paidDate"`
	DocumentURL *string    `json:"documentUrl"`
}

// Store is the persistence contract. One method per entity operation,
// identical semantics across backends:
//
//   - every "all"/"by user" list is ordered by creation time descending
//     (events and documents by their timestamp descending)
//   - lookups on absent records return ErrNotFound
//   - Create methods assign the id and stamp timestamps on the passed
//     record in place
//   - Update methods apply only the non-nil fields and refresh updatedAt
//     where the entity has one
//   - DeleteShipment cascades to the shipment's events, documents and
//     invoices
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, u *models.User) error
	GetAllUsers(ctx context.Context) ([]models.User, error)

	CreateSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, id int, upd ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	GetAllQuotes(ctx context.Context) ([]models.Quote, error)
	GetQuotesByUser(ctx context.Context, userID string) ([]models.Quote, error)
	GetQuote(ctx context.Context, id int) (*models.Quote, error)
	CreateQuote(ctx context.Context, q *models.Quote) error
	UpdateQuote(ctx context.Context, id int, upd QuoteUpdate) (*models.Quote, error)

	GetAllShipments(ctx context.Context) ([]models.Shipment, error)
	GetShipmentsByUser(ctx context.Context, userID string) ([]models.Shipment, error)
	GetShipment(ctx context.Context, id int) (*models.Shipment, error)
	// GetShipmentByTracking matches the tracking number case-insensitively.
	GetShipmentByTracking(ctx context.Context, trackingNumber string) (*models.Shipment, error)
	CreateShipment(ctx context.Context, s *models.Shipment) error
	UpdateShipment(ctx context.Context, id int, upd ShipmentUpdate) (*models.Shipment, error)
	DeleteShipment(ctx context.Context, id int) error

	GetShipmentEvents(ctx context.Context, shipmentID int) ([]models.ShipmentEvent, error)
	CreateShipmentEvent(ctx context.Context, e *models.ShipmentEvent) error

	GetAllInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoicesByUser(ctx context.Context, userID string) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id int) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	UpdateInvoice(ctx context.Context, id int, upd InvoiceUpdate) (*models.Invoice, error)
	MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error)

	GetDocumentsByShipment(ctx context.Context, shipmentID int) ([]models.Document, error)
	GetDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error)
	CreateDocument(ctx context.Context, d *models.Document) error
	DeleteDocument(ctx context.Context, id int) error

	GetAllMessages(ctx context.Context) ([]models.ContactMessage, error)
	CreateMessage(ctx context.Context, m *models.ContactMessage) error
	MarkMessageRead(ctx context.Context, id int) error

	GetAllSettings(ctx context.Context) ([]models.AdminSetting, error)
	GetSetting(ctx context.Context, key string) (*models.AdminSetting, error)
	UpsertSetting(ctx context.Context, s *models.AdminSetting) error
}
