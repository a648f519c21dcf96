// Package api exposes the storefront over a lightweight HTTP surface. Every
// handler is a thin adapter; validation and state changes live in the
// services.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"resorthub/internal/cart"
	"resorthub/internal/catalog"
	"resorthub/internal/config"
	"resorthub/internal/domain"
	"resorthub/internal/metrics"
	"resorthub/internal/models"
	"resorthub/internal/service"

	"github.com/rs/zerolog"
)

const (
	headerSessionID = "x-session-id"
	headerUserEmail = "x-user-email"
)

// HTTPServer wires the cart registry and services to HTTP endpoints.
type HTTPServer struct {
	cfg           config.APIConfig
	carts         *cart.Registry
	catalog       *catalog.Catalog
	bookings      domain.BookingRepository
	checkouts     *service.CheckoutService
	modifications *service.ModificationService
	server        *http.Server
	auth          *HTTPAuth
	logger        *zerolog.Logger
}

func NewHTTPServer(
	cfg config.APIConfig,
	carts *cart.Registry,
	cat *catalog.Catalog,
	bookings domain.BookingRepository,
	checkouts *service.CheckoutService,
	modifications *service.ModificationService,
	logger *zerolog.Logger,
) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:           cfg,
		carts:         carts,
		catalog:       cat,
		bookings:      bookings,
		checkouts:     checkouts,
		modifications: modifications,
		logger:        logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/catalog", srv.handleCatalog)
	mux.HandleFunc("/api/v1/cart", srv.handleCart)
	mux.HandleFunc("/api/v1/cart/items", srv.handleCartItems)
	mux.HandleFunc("/api/v1/cart/items/", srv.handleCartItem)
	mux.HandleFunc("/api/v1/checkout", srv.handleCheckout)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/modification", srv.handleModification)
	mux.HandleFunc("/api/v1/modification/start", srv.handleModificationStart)
	mux.HandleFunc("/api/v1/modification/cancel", srv.handleModificationCancel)
	mux.HandleFunc("/api/v1/modification/complete", srv.handleModificationComplete)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the configured handler for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) sessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(headerSessionID))
}

func (s *HTTPServer) identity(r *http.Request) models.Identity {
	email := strings.TrimSpace(r.Header.Get(headerUserEmail))
	return models.Identity{SignedIn: email != "", Email: email}
}

func (s *HTTPServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("catalog")
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *HTTPServer) handleCart(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "x-session-id header is required")
		return
	}
	store := s.carts.Get(sessionID)

	switch r.Method {
	case http.MethodGet:
		metrics.IncHTTP("cart_get")
		writeJSON(w, http.StatusOK, store.Snapshot())
	case http.MethodDelete:
		metrics.IncHTTP("cart_clear")
		metrics.IncCartOp("clear")
		store.Clear()
		writeJSON(w, http.StatusOK, store.Snapshot())
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "x-session-id header is required")
		return
	}

	var item models.LineItem
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !item.Type.IsValid() {
		writeError(w, http.StatusBadRequest, "type must be room or activity")
		return
	}
	if item.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if item.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	metrics.IncHTTP("cart_add")
	metrics.IncCartOp("add")
	stored := s.carts.Get(sessionID).AddItem(item)
	writeJSON(w, http.StatusCreated, stored)
}

func (s *HTTPServer) handleCartItem(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "x-session-id header is required")
		return
	}

	const prefix = "/api/v1/cart/items/"
	itemID := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, prefix))
	if itemID == "" || strings.Contains(itemID, "/") {
		writeError(w, http.StatusBadRequest, "item id is required")
		return
	}
	store := s.carts.Get(sessionID)

	switch r.Method {
	case http.MethodDelete:
		metrics.IncHTTP("cart_remove")
		metrics.IncCartOp("remove")
		store.RemoveItem(itemID)
		writeJSON(w, http.StatusOK, store.Snapshot())
	case http.MethodPatch, http.MethodPut:
		var body struct {
			Quantity int `json:"quantity"`
		}
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		metrics.IncHTTP("cart_update")
		metrics.IncCartOp("update")
		store.UpdateQuantity(itemID, body.Quantity)
		writeJSON(w, http.StatusOK, store.Snapshot())
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "x-session-id header is required")
		return
	}

	var body struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "paymentMethod is required")
		return
	}

	metrics.IncHTTP("checkout")
	booking, err := s.checkouts.Checkout(r.Context(), s.identity(r), body.PaymentMethod, s.carts.Get(sessionID))
	if err != nil {
		switch {
		case err == service.ErrNoIdentity:
			writeError(w, http.StatusUnauthorized, "sign in to complete checkout")
		case err == service.ErrEmptyCart:
			writeError(w, http.StatusBadRequest, "cart is empty")
		default:
			s.logger.Error().Err(err).Msg("checkout failed")
			writeError(w, http.StatusInternalServerError, "checkout failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	metrics.IncHTTP("bookings")
	list, err := s.checkouts.History(r.Context(), s.identity(r))
	if err != nil {
		if err == service.ErrNoIdentity {
			writeError(w, http.StatusUnauthorized, "sign in to view bookings")
			return
		}
		s.logger.Error().Err(err).Msg("load bookings failed")
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": list})
}

func (s *HTTPServer) handleModification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "x-session-id header is required")
		return
	}

	metrics.IncHTTP("modification_get")
	active, err := s.modifications.Active(r.Context(), sessionID)
	if err != nil {
		s.logger.Error().Err(err).Msg("read modification session failed")
		writeError(w, http.StatusInternalServerError, "failed to read session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": active != nil, "booking": active})
}

func (s *HTTPServer) handleModificationStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "x-session-id header is required")
		return
	}
	identity := s.identity(r)
	if !identity.Valid() {
		writeError(w, http.StatusUnauthorized, "sign in to modify a booking")
		return
	}

	var body struct {
		ID string `json:"id"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	list, err := s.bookings.LoadAll(r.Context(), identity.Email)
	if err != nil {
		s.logger.Error().Err(err).Msg("load bookings failed")
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	var target *models.Booking
	for i := range list {
		if list[i].ID == body.ID {
			target = &list[i]
			break
		}
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}

	metrics.IncHTTP("modification_start")
	if err := s.modifications.Start(r.Context(), sessionID, *target, s.carts.Get(sessionID)); err != nil {
		s.logger.Error().Err(err).Msg("start modification failed")
		writeError(w, http.StatusInternalServerError, "failed to start modification")
		return
	}
	writeJSON(w, http.StatusOK, target)
}

func (s *HTTPServer) handleModificationCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "x-session-id header is required")
		return
	}

	metrics.IncHTTP("modification_cancel")
	if err := s.modifications.Cancel(r.Context(), sessionID, s.carts.Get(sessionID)); err != nil {
		s.logger.Error().Err(err).Msg("cancel modification failed")
		writeError(w, http.StatusInternalServerError, "failed to cancel modification")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "cancelled"})
}

func (s *HTTPServer) handleModificationComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "x-session-id header is required")
		return
	}
	store := s.carts.Get(sessionID)

	// The modification page edits the session cart; the cart contents are the
	// new item set. An empty cart is rejected here, not in the service.
	state := store.Snapshot()
	if len(state.Items) == 0 {
		writeError(w, http.StatusBadRequest, "cannot save a booking with no items")
		return
	}

	metrics.IncHTTP("modification_complete")
	updated, err := s.modifications.Complete(r.Context(), sessionID, state.Items, store)
	if err != nil {
		s.logger.Error().Err(err).Msg("complete modification failed")
		writeError(w, http.StatusInternalServerError, "failed to save changes")
		return
	}
	if updated == nil {
		writeError(w, http.StatusConflict, "no modification session is active")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
