// Package gateway is the single request/response boundary. It routes tagged
// requests to the owning module and shapes the response envelope; no business
// logic lives here.
package gateway

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumenblinds/shades-backend/internal/modules/catalog"
	"github.com/lumenblinds/shades-backend/internal/modules/fulfillment"
	"github.com/lumenblinds/shades-backend/internal/modules/inventory"
	"github.com/lumenblinds/shades-backend/internal/modules/mail"
	"github.com/lumenblinds/shades-backend/internal/modules/order"
	"github.com/lumenblinds/shades-backend/internal/modules/returns"
	"github.com/lumenblinds/shades-backend/internal/platform/apperr"
)

// Handler exposes the action-dispatched gateway endpoint.
type Handler struct {
	catalog    catalog.Service
	orders     order.Service
	ledger     inventory.Service
	factory    fulfillment.Service
	returnsSvc returns.Service
	mailer     mail.Mailer
}

// NewHandler wires the gateway over the module services.
func NewHandler(cat catalog.Service, orders order.Service, ledger inventory.Service, factory fulfillment.Service, rts returns.Service, mailer mail.Mailer) *Handler {
	return &Handler{
		catalog:    cat,
		orders:     orders,
		ledger:     ledger,
		factory:    factory,
		returnsSvc: rts,
		mailer:     mailer,
	}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/gateway", func(r chi.Router) {
		r.Get("/", h.query)     // GET  ?type=product|returns|orders, ?action=get_factory_updates
		r.Post("/", h.dispatch) // POST {action: ...}
	})
}

// query serves the read surface. Reads return bare arrays; failures use the
// same error envelope as writes.
func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if action := r.URL.Query().Get("action"); action != "" {
		if action != "get_factory_updates" {
			h.fail(w, apperr.New(apperr.KindValidation, "Unknown action"))
			return
		}
		updates, err := h.factory.GetFactoryUpdates(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond(w, http.StatusOK, toFactoryUpdateDTOs(updates))
		return
	}

	switch r.URL.Query().Get("type") {
	case "", "product":
		summaries, err := h.catalog.ListSummaries(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond(w, http.StatusOK, summaries)
	case "returns":
		records, err := h.returnsSvc.ListReturns(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond(w, http.StatusOK, toReturnDTOs(records))
	case "orders":
		orders, err := h.orders.ListOrders(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		respond(w, http.StatusOK, toOrderSummaryDTOs(orders))
	default:
		h.fail(w, apperr.New(apperr.KindValidation, "Unknown type"))
	}
}

// actionRequest is the POST envelope. Per-action payloads are decoded from the
// raw order field so each action keeps its own shape.
type actionRequest struct {
	Action string `json:"action"`
	Force  bool   `json:"force,omitempty"`

	Order    json.RawMessage  `json:"order,omitempty"`
	Products []productSyncDTO `json:"products,omitempty"`

	OrderID        string   `json:"orderId,omitempty"`
	OrderIDs       []string `json:"orderIds,omitempty"`
	Status         string   `json:"status,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	Customer       string   `json:"customer,omitempty"`
	RefundAmount   float64  `json:"refundAmount,omitempty"`
	TrackingNumber string   `json:"trackingNumber,omitempty"`
	FactoryStatus  string   `json:"factoryStatus,omitempty"`

	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, apperr.New(apperr.KindValidation, "invalid request body: %v", err))
		return
	}
	log.Printf("[gateway] action=%s", req.Action)

	ctx := r.Context()
	switch req.Action {
	case "create_order":
		var dto checkoutOrderDTO
		if err := decodePayload(req.Order, &dto); err != nil {
			h.fail(w, err)
			return
		}
		result, err := h.orders.CreateOrder(ctx, dto.toModel())
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, map[string]interface{}{
			"orderId":        result.Order.OrderID,
			"total":          result.Order.Total,
			"lowStockAlerts": result.LowStockAlerts,
		})

	case "send_to_factory":
		var dto dispatchOrderDTO
		if err := decodePayload(req.Order, &dto); err != nil {
			h.fail(w, err)
			return
		}
		if _, err := h.factory.SendToFactory(ctx, dto.toModel(), req.Force); err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, nil)

	case "sync_products":
		products := make([]*catalog.Product, 0, len(req.Products))
		for i := range req.Products {
			products = append(products, req.Products[i].toModel())
		}
		result, err := h.ledger.ApplySync(ctx, products)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, map[string]interface{}{"count": result.Count})

	case "update_return":
		_, err := h.returnsSvc.CreateOrUpdateReturn(ctx, returns.UpdateReturnRequest{
			OrderID:      req.OrderID,
			Status:       req.Status,
			Reason:       req.Reason,
			Customer:     req.Customer,
			RefundAmount: req.RefundAmount,
		})
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, nil)

	case "update_status":
		if _, err := h.orders.UpdateStatus(ctx, req.OrderID, req.Status); err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, nil)

	case "batch_update_status":
		result, err := h.orders.BatchUpdateStatus(ctx, req.OrderIDs, req.Status)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, map[string]interface{}{"updated": result.Updated, "failed": result.Failed})

	case "update_tracking":
		if err := h.orders.UpdateTracking(ctx, req.OrderID, req.TrackingNumber); err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, nil)

	case "update_factory_line":
		if err := h.factory.UpdateFactoryLine(ctx, req.OrderID, req.FactoryStatus, req.TrackingNumber); err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, nil)

	case "apply_factory_updates":
		result, err := h.factory.ApplyFactoryUpdates(ctx)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, map[string]interface{}{"applied": result.Applied, "failed": result.Failed})

	case "send_email":
		if err := h.mailer.Send(ctx, req.To, req.Subject, req.Body); err != nil {
			h.fail(w, err)
			return
		}
		h.ok(w, nil)

	default:
		h.fail(w, apperr.New(apperr.KindValidation, "Unknown action"))
	}
}

func decodePayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return apperr.New(apperr.KindValidation, "order payload is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return apperr.New(apperr.KindValidation, "invalid order payload: %v", err)
	}
	return nil
}

// ok writes the success envelope, merging any extra fields.
func (h *Handler) ok(w http.ResponseWriter, extra map[string]interface{}) {
	body := map[string]interface{}{"result": "success"}
	for k, v := range extra {
		body[k] = v
	}
	respond(w, http.StatusOK, body)
}

// fail writes the error envelope. The message stays in-band for callers that
// only look at the body; the status code carries the classification.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	log.Printf("[gateway] error kind=%s msg=%s", apperr.KindOf(err), err.Error())
	respond(w, apperr.HTTPStatus(err), map[string]interface{}{
		"result":  "error",
		"message": err.Error(),
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
