package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tpv-system/auth"
	"tpv-system/config"
	"tpv-system/pos-svc/internal/domain"
	"tpv-system/pos-svc/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	Tables    service.TableServiceInterface
	Menu      service.MenuServiceInterface
	Inventory service.InventoryServiceInterface
	Orders    service.OrderServiceInterface

	jwtSecret    string
	exposeErrors bool
	logger       *logrus.Logger
}

func NewHandler(
	tables service.TableServiceInterface,
	menu service.MenuServiceInterface,
	inventory service.InventoryServiceInterface,
	orders service.OrderServiceInterface,
	cfg *config.Config,
) *Handler {
	return &Handler{
		Tables:       tables,
		Menu:         menu,
		Inventory:    inventory,
		Orders:       orders,
		jwtSecret:    cfg.JWTSecret,
		exposeErrors: cfg.IsDevelopment(),
		logger:       config.GetLogger(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.Use(h.logRequests)

	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/orders/{id:[0-9]+}/qrcode", h.getOrderQRCode).Methods("GET")

	api := r.NewRoute().Subrouter()
	api.Use(auth.Middleware(h.jwtSecret, func(w http.ResponseWriter, err error) {
		status, body := classify(err)
		writeJSON(w, status, errorResponse{Error: body})
	}))

	api.HandleFunc("/tables", h.listTables).Methods("GET")
	api.HandleFunc("/tables/available", h.listAvailableTables).Methods("GET")
	api.HandleFunc("/tables/{id:[0-9]+}/release", h.releaseTable).Methods("PUT")

	api.HandleFunc("/menu/products", h.getMenuProducts).Methods("GET")
	api.HandleFunc("/menu/customizations", h.getCustomizations).Methods("GET")
	api.HandleFunc("/menu/categories", h.getCategories).Methods("GET")
	api.HandleFunc("/menu/especiales", h.getDailySpecials).Methods("GET")

	api.HandleFunc("/users/clientes", h.listCustomers).Methods("GET")

	api.HandleFunc("/orders/manual-create", h.createOrder).Methods("POST")
	api.HandleFunc("/orders/status-board", h.getStatusBoard).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}", h.getOrder).Methods("GET")
	api.HandleFunc("/orders/{id:[0-9]+}/update-status", h.updateStatus).Methods("PUT")
	api.HandleFunc("/orders/{id:[0-9]+}/pay", h.payOrder).Methods("POST")

	api.HandleFunc("/inventory", h.getStock).Methods("GET")
	api.HandleFunc("/inventory", h.provisionStock).Methods("POST")
	api.HandleFunc("/inventory/movements", h.listMovements).Methods("GET")
	api.HandleFunc("/inventory/movements", h.createMovement).Methods("POST")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "pos-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func principal(r *http.Request) domain.Principal {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		return domain.Principal{}
	}
	return domain.Principal{UserID: claims.ID, Role: domain.Role(claims.Role)}
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Invalid(key, "must be a non-negative integer")
	}
	return n, nil
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("body", "invalid JSON: "+err.Error())
	}
	return nil
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	locationID, err := queryInt(r, "locationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tables, err := h.Tables.List(r.Context(), locationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) listAvailableTables(w http.ResponseWriter, r *http.Request) {
	locationID, err := queryInt(r, "locationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tables, err := h.Tables.ListAvailable(r.Context(), locationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) releaseTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.Tables.Release(r.Context(), principal(r), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handler) getMenuProducts(w http.ResponseWriter, r *http.Request) {
	locationID, err := queryInt(r, "locationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	products, err := h.Menu.Products(r.Context(), locationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) getCustomizations(w http.ResponseWriter, r *http.Request) {
	menu, err := h.Menu.Customizations(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Menu.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) getDailySpecials(w http.ResponseWriter, r *http.Request) {
	locationID, err := queryInt(r, "locationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	specials, err := h.Menu.DailySpecials(r.Context(), locationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, specials)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Orders.Customers(r.Context(), principal(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateOrderInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	result, err := h.Orders.Create(r.Context(), principal(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) getStatusBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.Orders.StatusBoard(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qrCode, err := h.Orders.GetQRCode(r.Context(), pathID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(qrCode) == 0 {
		h.writeError(w, r, domain.NotFoundf("qr code for order %d", pathID(r)))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

type statusRequest struct {
	NewStatus string `json:"newStatus"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.NewStatus == "" {
		h.writeError(w, r, domain.Invalid("newStatus", "is required"))
		return
	}
	status, err := h.Orders.AdvanceStatus(r.Context(), principal(r), pathID(r), req.NewStatus)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.OrderStatus{"newStatus": status})
}

type payRequest struct {
	AmountTotal decimal.Decimal `json:"amountTotal"`
	Method      string          `json:"method"`
}

func (h *Handler) payOrder(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	payment, err := h.Orders.Pay(r.Context(), principal(r), pathID(r), req.AmountTotal, req.Method)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"orderId": payment.OrderID,
		"amount":  payment.Amount,
		"method":  payment.Method,
	})
}

func (h *Handler) getStock(w http.ResponseWriter, r *http.Request) {
	locationID, err := queryInt(r, "locationId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	records, err := h.Inventory.Stock(r.Context(), locationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) provisionStock(w http.ResponseWriter, r *http.Request) {
	var in service.ProvisionInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	rec, err := h.Inventory.Provision(r.Context(), principal(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) createMovement(w http.ResponseWriter, r *http.Request) {
	var in service.MovementInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	movement, err := h.Inventory.RecordMovement(r.Context(), principal(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, movement)
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	filter, err := movementFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	movements, err := h.Inventory.Movements(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

func movementFilter(r *http.Request) (domain.MovementFilter, error) {
	var (
		filter domain.MovementFilter
		err    error
	)
	q := r.URL.Query()
	if filter.From, err = parseTime(q.Get("from"), "from", false); err != nil {
		return filter, err
	}
	if filter.To, err = parseTime(q.Get("to"), "to", true); err != nil {
		return filter, err
	}
	filter.Direction = domain.Direction(q.Get("direction"))
	if filter.LocationID, err = queryInt(r, "locationId"); err != nil {
		return filter, err
	}
	if filter.ProductID, err = queryInt(r, "productId"); err != nil {
		return filter, err
	}
	return filter, nil
}

// parseTime accepts RFC 3339 timestamps or plain dates. A plain date used as
// an upper bound covers the whole day.
func parseTime(raw, field string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.Invalid(field, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
