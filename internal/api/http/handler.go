package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"furniture-rental-backend/internal/config"
	"furniture-rental-backend/internal/domain"
	"furniture-rental-backend/internal/logger"
	"furniture-rental-backend/internal/security"
	"furniture-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

// Handler exposes the cart, checkout and order services over JSON.
type Handler struct {
	carts    service.CartService
	checkout service.CheckoutService
	history  service.OrderHistoryService
	ledger   service.InventoryLedger
}

func NewHandler(carts service.CartService, checkout service.CheckoutService, history service.OrderHistoryService, ledger service.InventoryLedger) *Handler {
	return &Handler{
		carts:    carts,
		checkout: checkout,
		history:  history,
		ledger:   ledger,
	}
}

// NewRouter registers every route by name; the auth middleware looks the
// name up in config.EndpointSecurityConfig.
func NewRouter(h *Handler, tm security.TokenManager) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)
	router.HandleFunc("/healthz", h.Health).Methods("GET").Name(config.RouteHealth)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tm).Handler)

	api.HandleFunc("/inventory/{productID}", h.GetInventory).Methods("GET").Name(config.RouteGetInventory)
	api.HandleFunc("/properties/{propertyID}/cart", h.GetCart).Methods("GET").Name(config.RouteGetCart)
	api.HandleFunc("/properties/{propertyID}/cart/items", h.AddCartItem).Methods("POST").Name(config.RouteAddCartItem)
	api.HandleFunc("/cart/items/{itemID}", h.UpdateCartItem).Methods("PATCH").Name(config.RouteUpdateCartItem)
	api.HandleFunc("/cart/items/{itemID}", h.RemoveCartItem).Methods("DELETE").Name(config.RouteRemoveCartItem)
	api.HandleFunc("/carts/{cartID}", h.CancelCart).Methods("DELETE").Name(config.RouteCancelCart)
	api.HandleFunc("/properties/{propertyID}/checkout", h.Checkout).Methods("POST").Name(config.RouteCheckout)
	api.HandleFunc("/orders", h.ListOrders).Methods("GET").Name(config.RouteListOrders)
	api.HandleFunc("/orders/history/{historyID}", h.UpdateOrderStatus).Methods("PATCH").Name(config.RouteUpdateOrderStatus)

	return router
}

type addCartItemRequest struct {
	ProductID  string `json:"productId"`
	Quantity   int32  `json:"quantity"`
	RentalDays int32  `json:"rentalDays"`
}

type updateCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type checkoutRequest struct {
	CartID           string `json:"cartId"`
	PaymentConfirmed bool   `json:"paymentConfirmed"`
}

type updateOrderStatusRequest struct {
	Status domain.HistoryStatus `json:"status"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	rec, err := h.ledger.Stock(r.Context(), mux.Vars(r)["productID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	memberID, propertyID, ok := memberAndProperty(w, r)
	if !ok {
		return
	}
	summary, err := h.carts.GetCart(r.Context(), memberID, propertyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	memberID, propertyID, ok := memberAndProperty(w, r)
	if !ok {
		return
	}
	var req addCartItemRequest
	if !decode(w, r, &req) {
		return
	}
	cart, err := h.carts.AddItem(r.Context(), memberID, propertyID, req.ProductID, req.Quantity, req.RentalDays)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	memberID, ok := member(w, r)
	if !ok {
		return
	}
	var req updateCartItemRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.carts.UpdateItemQuantity(r.Context(), memberID, mux.Vars(r)["itemID"], req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	memberID, ok := member(w, r)
	if !ok {
		return
	}
	if err := h.carts.RemoveItem(r.Context(), memberID, mux.Vars(r)["itemID"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CancelCart(w http.ResponseWriter, r *http.Request) {
	memberID, ok := member(w, r)
	if !ok {
		return
	}
	if err := h.carts.CancelCart(r.Context(), memberID, mux.Vars(r)["cartID"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	memberID, propertyID, ok := memberAndProperty(w, r)
	if !ok {
		return
	}
	var req checkoutRequest
	if !decode(w, r, &req) {
		return
	}

	log := logger.WithMember(memberID, propertyID)
	res, err := h.checkout.Checkout(r.Context(), domain.CheckoutRequest{
		MemberID:         memberID,
		PropertyID:       propertyID,
		CartID:           req.CartID,
		PaymentConfirmed: req.PaymentConfirmed,
	})
	if err != nil {
		log.Warn("Checkout failed", "error", err)
		writeError(w, err)
		return
	}
	log.Info("Checkout completed", "orderID", res.Order.ID, "totalCents", res.Order.TotalCents)
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	memberID, ok := member(w, r)
	if !ok {
		return
	}
	overview, err := h.history.ListOrders(r.Context(), memberID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	memberID, ok := member(w, r)
	if !ok {
		return
	}
	var req updateOrderStatusRequest
	if !decode(w, r, &req) {
		return
	}
	updated, err := h.history.UpdateItemStatus(r.Context(), memberID, mux.Vars(r)["historyID"], req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func member(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, ok := MemberIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "member is not authenticated")
	}
	return id, ok
}

func memberAndProperty(w http.ResponseWriter, r *http.Request) (int32, int32, bool) {
	memberID, ok := member(w, r)
	if !ok {
		return 0, 0, false
	}
	raw := mux.Vars(r)["propertyID"]
	propertyID, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || propertyID <= 0 {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid property id %q", raw))
		return 0, 0, false
	}
	return memberID, int32(propertyID), true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
