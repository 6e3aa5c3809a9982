package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Pavanreddy56/BKI-company/internal/models"
)

// timeLayout is the fixed format for every timestamp column. The driver
// scans DATETIME columns as text, so we keep a single layout and always
// write UTC.
const timeLayout = time.RFC3339Nano

// SQLiteStore is the durable backend, selected when DATABASE_URL is set.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and runs the
// migrations. The path may already carry query parameters.
func OpenSQLite(path string) (*SQLiteStore, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", path+sep+"_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=1")
	if err != nil {
		return nil, err
	}

	// SQLite handles one writer plus concurrent readers under WAL.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	// Some drivers ignore connection-string pragmas, so set them again.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=30000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE,
			first_name TEXT, last_name TEXT, profile_image_url TEXT,
			role TEXT NOT NULL DEFAULT 'client' CHECK(role IN ('client','admin')),
			company_name TEXT, phone TEXT, address TEXT, country TEXT,
			password_hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL, updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			expires_at TEXT NOT NULL, created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)`,
		`CREATE TABLE IF NOT EXISTS products (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL, hs_code TEXT,
			category TEXT NOT NULL, description TEXT,
			unit TEXT NOT NULL, price_per_unit REAL,
			origin TEXT, image_url TEXT,
			in_stock INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL, updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quotes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT REFERENCES users(id),
			company_name TEXT NOT NULL, contact_person TEXT NOT NULL,
			email TEXT NOT NULL, phone TEXT,
			product_description TEXT NOT NULL, quantity TEXT NOT NULL,
			unit TEXT, incoterms TEXT, pickup_date TEXT,
			destination TEXT, origin TEXT,
			additional_notes TEXT, attachment_url TEXT,
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK(status IN ('pending','reviewed','quoted','accepted','rejected')),
			quoted_price REAL, admin_notes TEXT,
			created_at TEXT NOT NULL, updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shipments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT REFERENCES users(id),
			quote_id INTEGER REFERENCES quotes(id),
			tracking_number TEXT NOT NULL UNIQUE,
			origin TEXT NOT NULL, destination TEXT NOT NULL,
			carrier TEXT, shipping_method TEXT,
			status TEXT NOT NULL DEFAULT 'processing'
				CHECK(status IN ('processing','in_transit','customs','delivered')),
			estimated_delivery TEXT, actual_delivery TEXT,
			weight REAL, product_description TEXT,
			created_at TEXT NOT NULL, updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shipment_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			shipment_id INTEGER NOT NULL REFERENCES shipments(id),
			status TEXT NOT NULL, location TEXT, description TEXT,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_shipment ON shipment_events(shipment_id)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT REFERENCES users(id),
			shipment_id INTEGER REFERENCES shipments(id),
			invoice_number TEXT NOT NULL UNIQUE,
			amount REAL NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			status TEXT NOT NULL DEFAULT 'unpaid' CHECK(status IN ('unpaid','paid','overdue')),
			due_date TEXT, paid_date TEXT, document_url TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			shipment_id INTEGER REFERENCES shipments(id),
			user_id TEXT REFERENCES users(id),
			name TEXT NOT NULL, type TEXT NOT NULL, file_url TEXT NOT NULL,
			uploaded_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS contact_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL, email TEXT NOT NULL,
			phone TEXT, subject TEXT, message TEXT NOT NULL,
			is_read INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admin_settings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			value TEXT NOT NULL, label TEXT NOT NULL, description TEXT,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range tables {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close() error { return s.db.Close() }

// mapErr converts driver-level errors into store sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrConflict
		}
	}
	return err
}

// ---- scan helpers ----

func fmtTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

// ---- users ----

const userCols = `id, email, first_name, last_name, profile_image_url, role,
	company_name, phone, address, country, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var email, first, last, img, company, phone, addr, country sql.NullString
	var created, updated string
	err := row.Scan(&u.ID, &email, &first, &last, &img, &u.Role,
		&company, &phone, &addr, &country, &u.PasswordHash, &created, &updated)
	if err != nil {
		return nil, mapErr(err)
	}
	u.Email = strPtr(email)
	u.FirstName = strPtr(first)
	u.LastName = strPtr(last)
	u.ProfileImageURL = strPtr(img)
	u.CompanyName = strPtr(company)
	u.Phone = strPtr(phone)
	u.Address = strPtr(addr)
	u.Country = strPtr(country)
	u.CreatedAt = parseTime(created)
	u.UpdatedAt = parseTime(updated)
	return &u, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (s *SQLiteStore) UpsertUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = "client"
	}
	now := time.Now().UTC()
	u.UpdatedAt = now
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	// An empty incoming hash means "leave the password alone".
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, role,
			company_name, phone, address, country, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			profile_image_url = excluded.profile_image_url,
			role = excluded.role,
			company_name = excluded.company_name,
			phone = excluded.phone,
			address = excluded.address,
			country = excluded.country,
			password_hash = CASE WHEN excluded.password_hash = ''
				THEN users.password_hash ELSE excluded.password_hash END,
			updated_at = excluded.updated_at`,
		u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL, u.Role,
		u.CompanyName, u.Phone, u.Address, u.Country, u.PasswordHash,
		fmtTime(u.CreatedAt), fmtTime(u.UpdatedAt))
	if err != nil {
		return mapErr(err)
	}
	fresh, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *fresh
	return nil
}

func (s *SQLiteStore) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userCols+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// ---- sessions ----

func (s *SQLiteStore) CreateSession(ctx context.Context, sess *models.Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		sess.Token, sess.UserID, fmtTime(sess.ExpiresAt), fmtTime(sess.CreatedAt))
	return mapErr(err)
}

func (s *SQLiteStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	var expires, created string
	err := s.db.QueryRowContext(ctx,
		`SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`, token).
		Scan(&sess.Token, &sess.UserID, &expires, &created)
	if err != nil {
		return nil, mapErr(err)
	}
	sess.ExpiresAt = parseTime(expires)
	sess.CreatedAt = parseTime(created)
	return &sess, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, fmtTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- products ----

const productCols = `id, name, hs_code, category, description, unit,
	price_per_unit, origin, image_url, in_stock, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	var p models.Product
	var hs, desc, origin, img sql.NullString
	var price sql.NullFloat64
	var inStock int
	var created, updated string
	err := row.Scan(&p.ID, &p.Name, &hs, &p.Category, &desc, &p.Unit,
		&price, &origin, &img, &inStock, &created, &updated)
	if err != nil {
		return nil, mapErr(err)
	}
	p.HsCode = strPtr(hs)
	p.Description = strPtr(desc)
	p.PricePerUnit = floatPtr(price)
	p.Origin = strPtr(origin)
	p.ImageURL = strPtr(img)
	p.InStock = inStock != 0
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

func (s *SQLiteStore) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.queryProducts(ctx,
		`SELECT `+productCols+` FROM products ORDER BY created_at DESC, id DESC`)
}

func (s *SQLiteStore) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (s *SQLiteStore) CreateProduct(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, hs_code, category, description, unit,
			price_per_unit, origin, image_url, in_stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.HsCode, p.Category, p.Description, p.Unit,
		p.PricePerUnit, p.Origin, p.ImageURL, boolInt(p.InStock),
		fmtTime(now), fmtTime(now))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	return nil
}

func (s *SQLiteStore) UpdateProduct(ctx context.Context, id int, upd ProductUpdate) (*models.Product, error) {
	sets := []string{"updated_at = ?"}
	args := []any{fmtTime(time.Now().UTC())}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.HsCode != nil {
		sets = append(sets, "hs_code = ?")
		args = append(args, *upd.HsCode)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Unit != nil {
		sets = append(sets, "unit = ?")
		args = append(args, *upd.Unit)
	}
	if upd.PricePerUnit != nil {
		sets = append(sets, "price_per_unit = ?")
		args = append(args, *upd.PricePerUnit)
	}
	if upd.Origin != nil {
		sets = append(sets, "origin = ?")
		args = append(args, *upd.Origin)
	}
	if upd.ImageURL != nil {
		sets = append(sets, "image_url = ?")
		args = append(args, *upd.ImageURL)
	}
	if upd.InStock != nil {
		sets = append(sets, "in_stock = ?")
		args = append(args, boolInt(*upd.InStock))
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetProduct(ctx, id)
}

func (s *SQLiteStore) DeleteProduct(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ---- quotes ----

const quoteCols = `id, user_id, company_name, contact_person, email, phone,
	product_description, quantity, unit, incoterms, pickup_date, destination,
	origin, additional_notes, attachment_url, status, quoted_price, admin_notes,
	created_at, updated_at`

func scanQuote(row interface{ Scan(...any) error }) (*models.Quote, error) {
	var q models.Quote
	var userID, phone, unit, incoterms, pickup, dest, origin, notes, attach, adminNotes sql.NullString
	var price sql.NullFloat64
	var created, updated string
	err := row.Scan(&q.ID, &userID, &q.CompanyName, &q.ContactPerson, &q.Email, &phone,
		&q.ProductDescription, &q.Quantity, &unit, &incoterms, &pickup, &dest,
		&origin, &notes, &attach, &q.Status, &price, &adminNotes, &created, &updated)
	if err != nil {
		return nil, mapErr(err)
	}
	q.UserID = strPtr(userID)
	q.Phone = strPtr(phone)
	q.Unit = strPtr(unit)
	q.Incoterms = strPtr(incoterms)
	q.PickupDate = parseTimePtr(pickup)
	q.Destination = strPtr(dest)
	q.Origin = strPtr(origin)
	q.AdditionalNotes = strPtr(notes)
	q.AttachmentURL = strPtr(attach)
	q.QuotedPrice = floatPtr(price)
	q.AdminNotes = strPtr(adminNotes)
	q.CreatedAt = parseTime(created)
	q.UpdatedAt = parseTime(updated)
	return &q, nil
}

func (s *SQLiteStore) queryQuotes(ctx context.Context, query string, args ...any) ([]models.Quote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetAllQuotes(ctx context.Context) ([]models.Quote, error) {
	return s.queryQuotes(ctx,
		`SELECT `+quoteCols+` FROM quotes ORDER BY created_at DESC, id DESC`)
}

func (s *SQLiteStore) GetQuotesByUser(ctx context.Context, userID string) ([]models.Quote, error) {
	return s.queryQuotes(ctx,
		`SELECT `+quoteCols+` FROM quotes WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (s *SQLiteStore) GetQuote(ctx context.Context, id int) (*models.Quote, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+quoteCols+` FROM quotes WHERE id = ?`, id)
	return scanQuote(row)
}

func (s *SQLiteStore) CreateQuote(ctx context.Context, q *models.Quote) error {
	// Submissions always open pending with no price or notes.
	q.Status = "pending"
	q.QuotedPrice = nil
	q.AdminNotes = nil
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (user_id, company_name, contact_person, email, phone,
			product_description, quantity, unit, incoterms, pickup_date, destination,
			origin, additional_notes, attachment_url, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?, ?)`,
		q.UserID, q.CompanyName, q.ContactPerson, q.Email, q.Phone,
		q.ProductDescription, q.Quantity, q.Unit, q.Incoterms, fmtTimePtr(q.PickupDate),
		q.Destination, q.Origin, q.AdditionalNotes, q.AttachmentURL,
		fmtTime(now), fmtTime(now))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	q.ID = int(id)
	return nil
}

func (s *SQLiteStore) UpdateQuote(ctx context.Context, id int, upd QuoteUpdate) (*models.Quote, error) {
	sets := []string{"updated_at = ?"}
	args := []any{fmtTime(time.Now().UTC())}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.QuotedPrice != nil {
		sets = append(sets, "quoted_price = ?")
		args = append(args, *upd.QuotedPrice)
	}
	if upd.AdminNotes != nil {
		sets = append(sets, "admin_notes = ?")
		args = append(args, *upd.AdminNotes)
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE quotes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetQuote(ctx, id)
}

// ---- shipments ----

const shipmentCols = `id, user_id, quote_id, tracking_number, origin, destination,
	carrier, shipping_method, status, estimated_delivery, actual_delivery,
	weight, product_description, created_at, updated_at`

func scanShipment(row interface{ Scan(...any) error }) (*models.Shipment, error) {
	var sh models.Shipment
	var userID, carrier, method, est, actual, desc sql.NullString
	var quoteID sql.NullInt64
	var weight sql.NullFloat64
	var created, updated string
	err := row.Scan(&sh.ID, &userID, &quoteID, &sh.TrackingNumber, &sh.Origin, &sh.Destination,
		&carrier, &method, &sh.Status, &est, &actual, &weight, &desc, &created, &updated)
	if err != nil {
		return nil, mapErr(err)
	}
	sh.UserID = strPtr(userID)
	sh.QuoteID = intPtr(quoteID)
	sh.Carrier = strPtr(carrier)
	sh.ShippingMethod = strPtr(method)
	sh.EstimatedDelivery = parseTimePtr(est)
	sh.ActualDelivery = parseTimePtr(actual)
	sh.Weight = floatPtr(weight)
	sh.ProductDescription = strPtr(desc)
	sh.CreatedAt = parseTime(created)
	sh.UpdatedAt = parseTime(updated)
	return &sh, nil
}

func (s *SQLiteStore) queryShipments(ctx context.Context, query string, args ...any) ([]models.Shipment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.Shipment, 0)
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sh)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetAllShipments(ctx context.Context) ([]models.Shipment, error) {
	return s.queryShipments(ctx,
		`SELECT `+shipmentCols+` FROM shipments ORDER BY created_at DESC, id DESC`)
}

func (s *SQLiteStore) GetShipmentsByUser(ctx context.Context, userID string) ([]models.Shipment, error) {
	return s.queryShipments(ctx,
		`SELECT `+shipmentCols+` FROM shipments WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (s *SQLiteStore) GetShipment(ctx context.Context, id int) (*models.Shipment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+shipmentCols+` FROM shipments WHERE id = ?`, id)
	return scanShipment(row)
}

func (s *SQLiteStore) GetShipmentByTracking(ctx context.Context, trackingNumber string) (*models.Shipment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shipmentCols+` FROM shipments WHERE UPPER(tracking_number) = UPPER(?)`, trackingNumber)
	return scanShipment(row)
}

func (s *SQLiteStore) CreateShipment(ctx context.Context, sh *models.Shipment) error {
	if sh.Status == "" {
		sh.Status = "processing"
	}
	now := time.Now().UTC()
	sh.CreatedAt = now
	sh.UpdatedAt = now
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shipments (user_id, quote_id, tracking_number, origin, destination,
			carrier, shipping_method, status, estimated_delivery, actual_delivery,
			weight, product_description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.UserID, sh.QuoteID, sh.TrackingNumber, sh.Origin, sh.Destination,
		sh.Carrier, sh.ShippingMethod, sh.Status,
		fmtTimePtr(sh.EstimatedDelivery), fmtTimePtr(sh.ActualDelivery),
		sh.Weight, sh.ProductDescription, fmtTime(now), fmtTime(now))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sh.ID = int(id)
	return nil
}

func (s *SQLiteStore) UpdateShipment(ctx context.Context, id int, upd ShipmentUpdate) (*models.Shipment, error) {
	sets := []string{"updated_at = ?"}
	args := []any{fmtTime(time.Now().UTC())}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.Origin != nil {
		sets = append(sets, "origin = ?")
		args = append(args, *upd.Origin)
	}
	if upd.Destination != nil {
		sets = append(sets, "destination = ?")
		args = append(args, *upd.Destination)
	}
	if upd.Carrier != nil {
		sets = append(sets, "carrier = ?")
		args = append(args, *upd.Carrier)
	}
	if upd.ShippingMethod != nil {
		sets = append(sets, "shipping_method = ?")
		args = append(args, *upd.ShippingMethod)
	}
	if upd.EstimatedDelivery != nil {
		sets = append(sets, "estimated_delivery = ?")
		args = append(args, fmtTime(*upd.EstimatedDelivery))
	}
	if upd.ActualDelivery != nil {
		sets = append(sets, "actual_delivery = ?")
		args = append(args, fmtTime(*upd.ActualDelivery))
	}
	if upd.Weight != nil {
		sets = append(sets, "weight = ?")
		args = append(args, *upd.Weight)
	}
	if upd.ProductDescription != nil {
		sets = append(sets, "product_description = ?")
		args = append(args, *upd.ProductDescription)
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE shipments SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetShipment(ctx, id)
}

// DeleteShipment removes the shipment and its dependent rows in one
// transaction, children first.
func (s *SQLiteStore) DeleteShipment(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range []string{
		`DELETE FROM shipment_events WHERE shipment_id = ?`,
		`DELETE FROM documents WHERE shipment_id = ?`,
		`DELETE FROM invoices WHERE shipment_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM shipments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ---- shipment events ----

func (s *SQLiteStore) GetShipmentEvents(ctx context.Context, shipmentID int) ([]models.ShipmentEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, shipment_id, status, location, description, timestamp
		FROM shipment_events WHERE shipment_id = ?
		ORDER BY timestamp DESC, id DESC`, shipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.ShipmentEvent, 0)
	for rows.Next() {
		var e models.ShipmentEvent
		var loc, desc sql.NullString
		var ts string
		if err := rows.Scan(&e.ID, &e.ShipmentID, &e.Status, &loc, &desc, &ts); err != nil {
			return nil, err
		}
		e.Location = strPtr(loc)
		e.Description = strPtr(desc)
		e.Timestamp = parseTime(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateShipmentEvent(ctx context.Context, e *models.ShipmentEvent) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO shipment_events (shipment_id, status, location, description, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		e.ShipmentID, e.Status, e.Location, e.Description, fmtTime(e.Timestamp))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = int(id)
	return nil
}

// ---- invoices ----

const invoiceCols = `id, user_id, shipment_id, invoice_number, amount, currency,
	status, due_date, paid_date, document_url, created_at`

func scanInvoice(row interface{ Scan(...any) error }) (*models.Invoice, error) {
	var inv models.Invoice
	var userID, due, paid, doc sql.NullString
	var shipmentID sql.NullInt64
	var created string
	err := row.Scan(&inv.ID, &userID, &shipmentID, &inv.InvoiceNumber, &inv.Amount,
		&inv.Currency, &inv.Status, &due, &paid, &doc, &created)
	if err != nil {
		return nil, mapErr(err)
	}
	inv.UserID = strPtr(userID)
	inv.ShipmentID = intPtr(shipmentID)
	inv.DueDate = parseTimePtr(due)
	inv.PaidDate = parseTimePtr(paid)
	inv.DocumentURL = strPtr(doc)
	inv.CreatedAt = parseTime(created)
	return &inv, nil
}

func (s *SQLiteStore) queryInvoices(ctx context.Context, query string, args ...any) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetAllInvoices(ctx context.Context) ([]models.Invoice, error) {
	return s.queryInvoices(ctx,
		`SELECT `+invoiceCols+` FROM invoices ORDER BY created_at DESC, id DESC`)
}

func (s *SQLiteStore) GetInvoicesByUser(ctx context.Context, userID string) ([]models.Invoice, error) {
	return s.queryInvoices(ctx,
		`SELECT `+invoiceCols+` FROM invoices WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
}

func (s *SQLiteStore) GetInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE id = ?`, id)
	return scanInvoice(row)
}

func (s *SQLiteStore) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if inv.Status == "" {
		inv.Status = "unpaid"
	}
	if inv.Currency == "" {
		inv.Currency = "USD"
	}
	inv.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (user_id, shipment_id, invoice_number, amount, currency,
			status, due_date, paid_date, document_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.UserID, inv.ShipmentID, inv.InvoiceNumber, inv.Amount, inv.Currency,
		inv.Status, fmtTimePtr(inv.DueDate), fmtTimePtr(inv.PaidDate),
		inv.DocumentURL, fmtTime(inv.CreatedAt))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	inv.ID = int(id)
	return nil
}

func (s *SQLiteStore) UpdateInvoice(ctx context.Context, id int, upd InvoiceUpdate) (*models.Invoice, error) {
	sets := []string{}
	args := []any{}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *upd.Status)
	}
	if upd.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *upd.Amount)
	}
	if upd.Currency != nil {
		sets = append(sets, "currency = ?")
		args = append(args, *upd.Currency)
	}
	if upd.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, fmtTime(*upd.DueDate))
	}
	if upd.PaidDate != nil {
		sets = append(sets, "paid_date = ?")
		args = append(args, fmtTime(*upd.PaidDate))
	}
	if upd.DocumentURL != nil {
		sets = append(sets, "document_url = ?")
		args = append(args, *upd.DocumentURL)
	}
	if len(sets) == 0 {
		return s.GetInvoice(ctx, id)
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE invoices SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetInvoice(ctx, id)
}

func (s *SQLiteStore) MarkOverdueInvoices(ctx context.Context, asOf time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE invoices SET status = 'overdue'
		WHERE status = 'unpaid' AND due_date IS NOT NULL AND due_date < ?`,
		fmtTime(asOf))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ---- documents ----

const documentCols = `id, shipment_id, user_id, name, type, file_url, uploaded_at`

func (s *SQLiteStore) queryDocuments(ctx context.Context, query string, args ...any) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		var shipmentID sql.NullInt64
		var userID sql.NullString
		var uploaded string
		if err := rows.Scan(&d.ID, &shipmentID, &userID, &d.Name, &d.Type, &d.FileURL, &uploaded); err != nil {
			return nil, err
		}
		d.ShipmentID = intPtr(shipmentID)
		d.UserID = strPtr(userID)
		d.UploadedAt = parseTime(uploaded)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetDocumentsByShipment(ctx context.Context, shipmentID int) ([]models.Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+documentCols+` FROM documents WHERE shipment_id = ? ORDER BY uploaded_at DESC, id DESC`, shipmentID)
}

func (s *SQLiteStore) GetDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error) {
	return s.queryDocuments(ctx,
		`SELECT `+documentCols+` FROM documents WHERE user_id = ? ORDER BY uploaded_at DESC, id DESC`, userID)
}

func (s *SQLiteStore) CreateDocument(ctx context.Context, d *models.Document) error {
	d.UploadedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (shipment_id, user_id, name, type, file_url, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.ShipmentID, d.UserID, d.Name, d.Type, d.FileURL, fmtTime(d.UploadedAt))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = int(id)
	return nil
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- contact messages ----

func (s *SQLiteStore) GetAllMessages(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, subject, message, is_read, created_at
		FROM contact_messages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.ContactMessage, 0)
	for rows.Next() {
		var m models.ContactMessage
		var phone, subject sql.NullString
		var isRead int
		var created string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &phone, &subject, &m.Message, &isRead, &created); err != nil {
			return nil, err
		}
		m.Phone = strPtr(phone)
		m.Subject = strPtr(subject)
		m.IsRead = isRead != 0
		m.CreatedAt = parseTime(created)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateMessage(ctx context.Context, m *models.ContactMessage) error {
	m.IsRead = false
	m.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_messages (name, email, phone, subject, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)`,
		m.Name, m.Email, m.Phone, m.Subject, m.Message, fmtTime(m.CreatedAt))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = int(id)
	return nil
}

func (s *SQLiteStore) MarkMessageRead(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE contact_messages SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- settings ----

func (s *SQLiteStore) GetAllSettings(ctx context.Context) ([]models.AdminSetting, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key, value, label, description, updated_at
		FROM admin_settings ORDER BY key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]models.AdminSetting, 0)
	for rows.Next() {
		var st models.AdminSetting
		var desc sql.NullString
		var updated string
		if err := rows.Scan(&st.ID, &st.Key, &st.Value, &st.Label, &desc, &updated); err != nil {
			return nil, err
		}
		st.Description = strPtr(desc)
		st.UpdatedAt = parseTime(updated)
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetSetting(ctx context.Context, key string) (*models.AdminSetting, error) {
	var st models.AdminSetting
	var desc sql.NullString
	var updated string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, key, value, label, description, updated_at
		FROM admin_settings WHERE key = ?`, key).
		Scan(&st.ID, &st.Key, &st.Value, &st.Label, &desc, &updated)
	if err != nil {
		return nil, mapErr(err)
	}
	st.Description = strPtr(desc)
	st.UpdatedAt = parseTime(updated)
	return &st, nil
}

func (s *SQLiteStore) UpsertSetting(ctx context.Context, st *models.AdminSetting) error {
	st.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_settings (key, value, label, description, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			label = excluded.label,
			description = excluded.description,
			updated_at = excluded.updated_at`,
		st.Key, st.Value, st.Label, st.Description, fmtTime(st.UpdatedAt))
	if err != nil {
		return mapErr(err)
	}
	fresh, err := s.GetSetting(ctx, st.Key)
	if err != nil {
		return err
	}
	*st = *fresh
	return nil
}
