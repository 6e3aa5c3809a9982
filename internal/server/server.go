// Package server carries the HTTP surface: routing, middleware, session
// handling and the per-entity handlers.
package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Pavanreddy56/BKI-company/internal/config"
	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/store"
	"github.com/Pavanreddy56/BKI-company/internal/websocket"
)

// ContextKey is the type used for request context keys.
type ContextKey string

const (
	CtxUserID ContextKey = "userID"
	CtxRole   ContextKey = "role"
)

// SessionCookie is the name of the login session cookie.
const SessionCookie = "bki_session"

// Server holds shared dependencies for the HTTP layer.
type Server struct {
	store store.Store
	log   *zap.Logger
	hub   *websocket.Hub
	cfg   *config.Config

	// mode is "database" or "memory", fixed at startup.
	mode  string
	start time.Time
}

// New wires a Server. mode labels the storage backend for health reporting.
func New(st store.Store, log *zap.Logger, hub *websocket.Hub, cfg *config.Config, mode string) *Server {
	return &Server{
		store: st,
		log:   log,
		hub:   hub,
		cfg:   cfg,
		mode:  mode,
		start: time.Now(),
	}
}

// Handler builds the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/", s.routeAPI)

	var h http.Handler = mux
	h = s.withSession(h)
	h = SecurityHeaders(h)
	h = s.logRequests(h)
	return h
}

// routeAPI dispatches everything under /api/ by path segments.
func (s *Server) routeAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/")
	path = strings.TrimSuffix(path, "/")
	parts := strings.Split(path, "/")

	if parts[0] == "admin" {
		s.routeAdmin(w, r, parts[1:])
		return
	}

	switch {
	// Auth
	case path == "auth/register" && r.Method == "POST":
		s.handleRegister(w, r)
	case path == "auth/login" && r.Method == "POST":
		s.handleLogin(w, r)
	case path == "auth/logout" && r.Method == "POST":
		s.handleLogout(w, r)
	case path == "auth/user" && r.Method == "GET":
		s.handleCurrentUser(w, r)

	// Products (public catalog)
	case path == "products" && r.Method == "GET":
		s.handleListProducts(w, r)
	case parts[0] == "products" && len(parts) == 2 && r.Method == "GET":
		s.handleGetProduct(w, r, parts[1])

	// Quotes
	case path == "quotes" && r.Method == "POST":
		s.handleCreateQuote(w, r)
	case path == "quotes/my" && r.Method == "GET":
		s.handleMyQuotes(w, r)

	// Shipments
	case parts[0] == "shipments" && len(parts) == 3 && parts[1] == "track" && r.Method == "GET":
		s.handleTrackShipment(w, r, parts[2])
	case path == "shipments/my" && r.Method == "GET":
		s.handleMyShipments(w, r)

	// Invoices and documents (portal views)
	case path == "invoices/my" && r.Method == "GET":
		s.handleMyInvoices(w, r)
	case path == "documents/my" && r.Method == "GET":
		s.handleMyDocuments(w, r)

	// Contact form
	case path == "contact" && r.Method == "POST":
		s.handleCreateMessage(w, r)

	// Public site settings
	case path == "public/settings" && r.Method == "GET":
		s.handlePublicSettings(w, r)

	default:
		response.Err(w, "not found", http.StatusNotFound)
	}
}

// routeAdmin dispatches /api/admin/ routes. parts excludes the "admin"
// segment. Everything here requires an authenticated admin.
func (s *Server) routeAdmin(w http.ResponseWriter, r *http.Request, parts []string) {
	if !s.requireAdmin(w, r) {
		return
	}
	// A bare /api/admin has no route segment to dispatch on.
	if len(parts) == 0 {
		response.Err(w, "not found", http.StatusNotFound)
		return
	}
	path := strings.Join(parts, "/")

	switch {
	case path == "health" && r.Method == "GET":
		s.handleAdminHealth(w, r)

	// Users
	case path == "users" && r.Method == "GET":
		s.handleListUsers(w, r)
	case parts[0] == "users" && len(parts) == 2 && r.Method == "GET":
		s.handleGetUserDetail(w, r, parts[1])

	// Products
	case path == "products" && r.Method == "POST":
		s.handleCreateProduct(w, r)
	case parts[0] == "products" && len(parts) == 2 && r.Method == "PATCH":
		s.handleUpdateProduct(w, r, parts[1])
	case parts[0] == "products" && len(parts) == 2 && r.Method == "DELETE":
		s.handleDeleteProduct(w, r, parts[1])

	// Quotes
	case path == "quotes" && r.Method == "GET":
		s.handleListQuotes(w, r)
	case parts[0] == "quotes" && len(parts) == 2 && r.Method == "PATCH":
		s.handleUpdateQuote(w, r, parts[1])
	case parts[0] == "quotes" && len(parts) == 3 && parts[2] == "convert" && r.Method == "POST":
		s.handleConvertQuote(w, r, parts[1])

	// Shipments
	case path == "shipments" && r.Method == "GET":
		s.handleListShipments(w, r)
	case path == "shipments" && r.Method == "POST":
		s.handleCreateShipment(w, r)
	case path == "shipments/updates" && r.Method == "GET":
		s.handleShipmentUpdates(w, r)
	case parts[0] == "shipments" && len(parts) == 2 && r.Method == "GET":
		s.handleGetShipmentDetail(w, r, parts[1])
	case parts[0] == "shipments" && len(parts) == 2 && r.Method == "PATCH":
		s.handleUpdateShipment(w, r, parts[1])
	case parts[0] == "shipments" && len(parts) == 2 && r.Method == "DELETE":
		s.handleDeleteShipment(w, r, parts[1])
	case parts[0] == "shipments" && len(parts) == 3 && parts[2] == "events" && r.Method == "POST":
		s.handleCreateShipmentEvent(w, r, parts[1])
	case parts[0] == "shipments" && len(parts) == 3 && parts[2] == "documents" && r.Method == "POST":
		s.handleCreateShipmentDocument(w, r, parts[1])

	// Invoices
	case path == "invoices" && r.Method == "GET":
		s.handleListInvoices(w, r)
	case path == "invoices" && r.Method == "POST":
		s.handleCreateInvoice(w, r)
	case parts[0] == "invoices" && len(parts) == 2 && r.Method == "PATCH":
		s.handleUpdateInvoice(w, r, parts[1])

	// Documents
	case parts[0] == "documents" && len(parts) == 2 && r.Method == "DELETE":
		s.handleDeleteDocument(w, r, parts[1])

	// Contact messages
	case path == "messages" && r.Method == "GET":
		s.handleListMessages(w, r)
	case parts[0] == "messages" && len(parts) == 3 && parts[2] == "read" && r.Method == "PATCH":
		s.handleMarkMessageRead(w, r, parts[1])

	// Settings
	case path == "settings" && r.Method == "GET":
		s.handleListSettings(w, r)
	case path == "settings/bulk" && r.Method == "POST":
		s.handleBulkSettings(w, r)
	case parts[0] == "settings" && len(parts) == 2 && r.Method == "PUT":
		s.handleUpsertSetting(w, r, parts[1])

	// Exports
	case parts[0] == "export" && len(parts) == 2 && r.Method == "GET":
		s.handleExport(w, r, parts[1])

	// Change feed
	case path == "ws" && r.Method == "GET":
		s.hub.Serve(w, r)

	default:
		response.Err(w, "not found", http.StatusNotFound)
	}
}

// pathID parses a numeric path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, seg string) (int, bool) {
	id, err := strconv.Atoi(seg)
	if err != nil || id <= 0 {
		response.Err(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// serverError logs the storage failure and surfaces a generic 500.
func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, zap.Error(err))
	response.Err(w, "internal server error", http.StatusInternalServerError)
}
