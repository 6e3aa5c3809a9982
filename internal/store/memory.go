package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pavanreddy56/BKI-company/internal/models"
)

// MemoryStore is the fallback backend used when no database is
// configured. Records live in process-local maps for the lifetime of the
// process; durability is traded for availability.
//
// The original runtime relied on a single-threaded event loop for
// consistency. Go handlers run concurrently, so every operation takes the
// store lock; multi-step mutations such as the shipment cascade delete
// are atomic under it.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[string]models.User
	sessions  map[string]models.Session
	products  map[int]models.Product
	quotes    map[int]models.Quote
	shipments map[int]models.Shipment
	events    map[int]models.ShipmentEvent
	invoices  map[int]models.Invoice
	documents map[int]models.Document
	messages  map[int]models.ContactMessage
	settings  map[string]models.AdminSetting

	productID  int
	quoteID    int
	shipmentID int
	eventID    int
	invoiceID  int
	documentID int
	messageID  int
	settingID  int
}

// NewMemoryStore creates an empty in-memory backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		sessions:  make(map[string]models.Session),
		products:  make(map[int]models.Product),
		quotes:    make(map[int]models.Quote),
		shipments: make(map[int]models.Shipment),
		events:    make(map[int]models.ShipmentEvent),
		invoices:  make(map[int]models.Invoice),
		documents: make(map[int]models.Document),
		messages:  make(map[int]models.ContactMessage),
		settings:  make(map[string]models.AdminSetting),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close() error { return nil }

// ---- users ----

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email != nil && *u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpsertUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = "client"
	}
	if u.Email != nil {
		for id, existing := range s.users {
			if id != u.ID && existing.Email != nil && *existing.Email == *u.Email {
				return ErrConflict
			}
		}
	}
	now := time.Now().UTC()
	if existing, ok := s.users[u.ID]; ok {
		u.CreatedAt = existing.CreatedAt
		if u.PasswordHash == "" {
			u.PasswordHash = existing.PasswordHash
		}
	} else {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) GetAllUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- sessions ----

func (s *MemoryStore) CreateSession(ctx context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	s.sessions[sess.Token] = *sess
	return nil
}

func (s *MemoryStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.sessions {
		if sess.ExpiresAt.Before(now) {
			delete(s.sessions, token)
			n++
		}
	}
	return n, nil
}

// ---- products ----

func (s *MemoryStore) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productID++
	p.ID = s.productID
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id int, upd ProductUpdate) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.HsCode != nil {
		p.HsCode = upd.HsCode
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Description != nil {
		p.Description = upd.Description
	}
	if upd.Unit != nil {
		p.Unit = *upd.Unit
	}
	if upd.PricePerUnit != nil {
		p.PricePerUnit = upd.PricePerUnit
	}
	if upd.Origin != nil {
		p.Origin = upd.Origin
	}
	if upd.ImageURL != nil {
		p.ImageURL = upd.ImageURL
	}
	if upd.InStock != nil {
		p.InStock = *upd.InStock
	}
	p.UpdatedAt = time.Now().UTC()
	s.products[id] = p
	return &p, nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// ---- quotes ----

func (s *MemoryStore) GetAllQuotes(ctx context.Context) ([]models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}
	sortQuotes(out)
	return out, nil
}

func (s *MemoryStore) GetQuotesByUser(ctx context.Context, userID string) ([]models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Quote, 0)
	for _, q := range s.quotes {
		if q.UserID != nil && *q.UserID == userID {
			out = append(out, q)
		}
	}
	sortQuotes(out)
	return out, nil
}

func sortQuotes(qs []models.Quote) {
	sort.Slice(qs, func(i, j int) bool {
		if qs[i].CreatedAt.Equal(qs[j].CreatedAt) {
			return qs[i].ID > qs[j].ID
		}
		return qs[i].CreatedAt.After(qs[j].CreatedAt)
	})
}

func (s *MemoryStore) GetQuote(ctx context.Context, id int) (*models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}

func (s *MemoryStore) CreateQuote(ctx context.Context, q *models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quoteID++
	q.ID = s.quoteID
	// New quotes always start pending with no price or notes, whatever
	// the caller supplied.
	q.Status = "pending"
	q.QuotedPrice = nil
	q.AdminNotes = nil
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	s.quotes[q.ID] = *q
	return nil
}

func (s *MemoryStore) UpdateQuote(ctx context.Context, id int, upd QuoteUpdate) (*models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Status != nil {
		q.Status = *upd.Status
	}
	if upd.QuotedPrice != nil {
		q.QuotedPrice = upd.QuotedPrice
	}
	if upd.AdminNotes != nil {
		q.AdminNotes = upd.AdminNotes
	}
	q.UpdatedAt = time.Now().UTC()
	s.quotes[id] = q
	return &q, nil
}

// ---- shipments ----

func (s *MemoryStore) GetAllShipments(ctx context.Context) ([]models.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Shipment, 0, len(s.shipments))
	for _, sh := range s.shipments {
		out = append(out, sh)
	}
	sortShipments(out)
	return out, nil
}

func (s *MemoryStore) GetShipmentsByUser(ctx context.Context, userID string) ([]models.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Shipment, 0)
	for _, sh := range s.shipments {
		if sh.UserID != nil && *sh.UserID == userID {
			out = append(out, sh)
		}
	}
	sortShipments(out)
	return out, nil
}

func sortShipments(ss []models.Shipment) {
	sort.Slice(ss, func(i, j int) bool {
		if ss[i].CreatedAt.Equal(ss[j].CreatedAt) {
			return ss[i].ID > ss[j].ID
		}
		return ss[i].CreatedAt.After(ss[j].CreatedAt)
	})
}

func (s *MemoryStore) GetShipment(ctx context.Context, id int) (*models.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shipments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &sh, nil
}

func (s *MemoryStore) GetShipmentByTracking(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sh := range s.shipments {
		if strings.EqualFold(sh.TrackingNumber, trackingNumber) {
			cp := sh
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateShipment(ctx context.Context, sh *models.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.shipments {
		if existing.TrackingNumber == sh.TrackingNumber {
			return ErrConflict
		}
	}
	s.shipmentID++
	sh.ID = s.shipmentID
	if sh.Status == "" {
		sh.Status = "processing"
	}
	now := time.Now().UTC()
	sh.CreatedAt = now
	sh.UpdatedAt = now
	s.shipments[sh.ID] = *sh
	return nil
}

func (s *MemoryStore) UpdateShipment(ctx context.Context, id int, upd ShipmentUpdate) (*models.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shipments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Status != nil {
		sh.Status = *upd.Status
	}
	if upd.Origin != nil {
		sh.Origin = *upd.Origin
	}
	if upd.Destination != nil {
		sh.Destination = *upd.Destination
	}
	if upd.Carrier != nil {
		sh.Carrier = upd.Carrier
	}
	if upd.ShippingMethod != nil {
		sh.ShippingMethod = upd.ShippingMethod
	}
	if upd.EstimatedDelivery != nil {
		sh.EstimatedDelivery = upd.EstimatedDelivery
	}
	if upd.ActualDelivery != nil {
		sh.ActualDelivery = upd.ActualDelivery
	}
	if upd.Weight != nil {
		sh.Weight = upd.Weight
	}
	if upd.ProductDescription != nil {
		sh.ProductDescription = upd.ProductDescription
	}
	sh.UpdatedAt = time.Now().UTC()
	s.shipments[id] = sh
	return &sh, nil
}

// DeleteShipment removes the shipment and sweeps every dependent map for
// rows referencing it. The whole cascade runs under one lock acquisition,
// so readers never observe a partially deleted shipment.
func (s *MemoryStore) DeleteShipment(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shipments[id]; !ok {
		return ErrNotFound
	}
	for eventID, e := range s.events {
		if e.ShipmentID == id {
			delete(s.events, eventID)
		}
	}
	for docID, d := range s.documents {
		if d.ShipmentID != nil && *d.ShipmentID == id {
			delete(s.documents, docID)
		}
	}
	for invID, inv := range s.invoices {
		if inv.ShipmentID != nil && *inv.ShipmentID == id {
			delete(s.invoices, invID)
		}
	}
	delete(s.shipments, id)
	return nil
}

// ---- shipment events ----

func (s *MemoryStore) GetShipmentEvents(ctx context.Context, shipmentID int) ([]models.ShipmentEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ShipmentEvent, 0)
	for _, e := range s.events {
		if e.ShipmentID == shipmentID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (s *MemoryStore) CreateShipmentEvent(ctx context.Context, e *models.ShipmentEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventID++
	e.ID = s.eventID
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	s.events[e.ID] = *e
	return nil
}

// ---- invoices ----

func (s *MemoryStore) GetAllInvoices(ctx context.Context) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, inv)
	}
	sortInvoices(out)
	return out, nil
}

func (s *MemoryStore) GetInvoicesByUser(ctx context.Context, userID string) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.UserID != nil && *inv.UserID == userID {
			out = append(out, inv)
		}
	}
	sortInvoices(out)
	return out, nil
}

func sortInvoices(is []models.Invoice) {
	sort.Slice(is, func(i, j int) bool {
		if is[i].CreatedAt.Equal(is[j].CreatedAt) {
			return is[i].ID > is[j].ID
		}
		return is[i].CreatedAt.After(is[j].CreatedAt)
	})
}

func (s *MemoryStore) GetInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &inv, nil
}

func (s *MemoryStore) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return ErrConflict
		}
	}
	s.invoiceID++
	inv.ID = s.invoiceID
	if inv.Status == "" {
		inv.Status = "unpaid"
	}
	if inv.Currency == "" {
		inv.Currency = "USD"
	}
	inv.CreatedAt = time.Now().UTC()
	s.invoices[inv.ID] = *inv
	return nil
}

func (s *MemoryStore) UpdateInvoice(ctx context.Context, id int, upd InvoiceUpdate) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Status != nil {
		inv.Status = *upd.Status
	}
	if upd.Amount != nil {
		inv.Amount = *upd.Amount
	}
	if upd.Currency != nil {
		inv.Currency = *upd.Currency
	}
	if upd.DueDate != nil {
		inv.DueDate = upd.DueDate
	}
	if upd.PaidDate != nil {
		inv.PaidDate = upd.PaidDate
	}
	if upd.DocumentURL != nil {
		inv.DocumentURL = upd.DocumentURL
	}
	s.invoices[id] = inv
	return &inv, nil
}

func (s *MemoryStore) MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, inv := range s.invoices {
		if inv.Status == "unpaid" && inv.DueDate != nil && inv.DueDate.Before(asOf) {
			inv.Status = "overdue"
			s.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

// ---- documents ----

func (s *MemoryStore) GetDocumentsByShipment(ctx context.Context, shipmentID int) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, 0)
	for _, d := range s.documents {
		if d.ShipmentID != nil && *d.ShipmentID == shipmentID {
			out = append(out, d)
		}
	}
	sortDocuments(out)
	return out, nil
}

func (s *MemoryStore) GetDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, 0)
	for _, d := range s.documents {
		if d.UserID != nil && *d.UserID == userID {
			out = append(out, d)
		}
	}
	sortDocuments(out)
	return out, nil
}

func sortDocuments(ds []models.Document) {
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].UploadedAt.Equal(ds[j].UploadedAt) {
			return ds[i].ID > ds[j].ID
		}
		return ds[i].UploadedAt.After(ds[j].UploadedAt)
	})
}

func (s *MemoryStore) CreateDocument(ctx context.Context, d *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documentID++
	d.ID = s.documentID
	d.UploadedAt = time.Now().UTC()
	s.documents[d.ID] = *d
	return nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

// ---- contact messages ----

func (s *MemoryStore) GetAllMessages(ctx context.Context) ([]models.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ContactMessage, 0, len(s.messages))
	for _, m := range s.messages {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) CreateMessage(ctx context.Context, m *models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messageID++
	m.ID = s.messageID
	m.IsRead = false
	m.CreatedAt = time.Now().UTC()
	s.messages[m.ID] = *m
	return nil
}

func (s *MemoryStore) MarkMessageRead(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return ErrNotFound
	}
	m.IsRead = true
	s.messages[id] = m
	return nil
}

// ---- settings ----

func (s *MemoryStore) GetAllSettings(ctx context.Context) ([]models.AdminSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AdminSetting, 0, len(s.settings))
	for _, st := range s.settings {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStore) GetSetting(ctx context.Context, key string) (*models.AdminSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settings[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &st, nil
}

func (s *MemoryStore) UpsertSetting(ctx context.Context, st *models.AdminSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.settings[st.Key]; ok {
		st.ID = existing.ID
	} else {
		s.settingID++
		st.ID = s.settingID
	}
	st.UpdatedAt = time.Now().UTC()
	s.settings[st.Key] = *st
	return nil
}
