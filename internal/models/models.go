package models

import "time"

// User is a portal account. Accounts come in two roles: "admin" for the
// back-office and "client" for customers. Users are upserted by id and
// never hard-deleted.
type User struct {
	ID              string    `json:"id"`
	Email           *string   `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	Role            string    `json:"role"`
	CompanyName     *string   `json:"companyName"`
	Phone           *string   `json:"phone"`
	Address         *string   `json:"address"`
	Country         *string   `json:"country"`
	PasswordHash    string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Session is a login session resolved from the bki_session cookie.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product is a catalog entry shown on the public product pages.
type Product struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	HsCode       *string   `json:"hsCode"`
	Category     string    `json:"category"`
	Description  *string   `json:"description"`
	Unit         string    `json:"unit"`
	PricePerUnit *float64  `json:"pricePerUnit"`
	Origin       *string   `json:"origin"`
	ImageURL     *string   `json:"imageUrl"`
	InStock      bool      `json:"inStock"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Quote is a quote request submitted from the public site, optionally
// attributed to a logged-in user. Status, quotedPrice and adminNotes are
// admin-only mutations.
type Quote struct {
	ID                 int        `json:"id"`
	UserID             *string    `json:"userId"`
	CompanyName        string     `json:"companyName"`
	ContactPerson      string     `json:"contactPerson"`
	Email              string     `json:"email"`
	Phone              *string    `json:"phone"`
	ProductDescription string     `json:"productDescription"`
	Quantity           string     `json:"quantity"`
	Unit               *string    `json:"unit"`
	Incoterms          *string    `json:"incoterms"`
	PickupDate         *time.Time `json:"pickupDate"`
	Destination        *string    `json:"destination"`
	Origin             *string    `json:"origin"`
	AdditionalNotes    *string    `json:"additionalNotes"`
	AttachmentURL      *string    `json:"attachmentUrl"`
	Status             string     `json:"status"`
	QuotedPrice        *float64   `json:"quotedPrice"`
	AdminNotes         *string    `json:"adminNotes"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Shipment is a tracked consignment, created by an admin directly or by
// converting an accepted quote. The current status lives on this row;
// the event timeline is appended separately by the route layer.
type Shipment struct {
	ID                 int        `json:"id"`
	UserID             *string    `json:"userId"`
	QuoteID            *int       `json:"quoteId"`
	TrackingNumber     string     `json:"trackingNumber"`
	Origin             string     `json:"origin"`
	Destination        string     `json:"destination"`
	Carrier            *string    `json:"carrier"`
	ShippingMethod     *string    `json:"shippingMethod"`
	Status             string     `json:"status"`
	EstimatedDelivery  *time.Time `json:"estimatedDelivery"`
	ActualDelivery     *time.Time `json:"actualDelivery"`
	Weight             *float64   `json:"weight"`
	ProductDescription *string    `json:"productDescription"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ShipmentEvent is one append-only entry in a shipment's timeline.
type ShipmentEvent struct {
	ID          int       `json:"id"`
	ShipmentID  int       `json:"shipmentId"`
	Status      string    `json:"status"`
	Location    *string   `json:"location"`
	Description *string   `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// Invoice carries no updatedAt column; partial updates do not stamp one.
type Invoice struct {
	ID            int        `json:"id"`
	UserID        *string    `json:"userId"`
	ShipmentID    *int       `json:"shipmentId"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate"`
	PaidDate      *time.Time `json:"paidDate"`
	DocumentURL   *string    `json:"documentUrl"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Document references a file in external storage by URL only.
type Document struct {
	ID         int       `json:"id"`
	ShipmentID *int      `json:"shipmentId"`
	UserID     *string   `json:"userId"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	FileURL    string    `json:"fileUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ContactMessage is a submission from the public contact form. The only
// mutation is flipping the read flag.
type ContactMessage struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Subject   *string   `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminSetting is one row of the upsert-only key-value site configuration.
type AdminSetting struct {
	ID          int       `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Label       string    `json:"label"`
	Description *string   `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
