package gateway

import (
	"time"

	"github.com/lumenblinds/shades-backend/internal/modules/catalog"
	"github.com/lumenblinds/shades-backend/internal/modules/fulfillment"
	"github.com/lumenblinds/shades-backend/internal/modules/inventory"
	"github.com/lumenblinds/shades-backend/internal/modules/order"
	"github.com/lumenblinds/shades-backend/internal/modules/pricing"
	"github.com/lumenblinds/shades-backend/internal/modules/returns"
)

// Wire types for the gateway. The public surface speaks camelCase; internal
// models keep their own tags, so every payload is mapped here.

// ── inbound ──────────────────────────────────────────────────────────────────

type colorDTO struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Hex      string `json:"hex,omitempty"`
	ImageRef string `json:"imageRef,omitempty"`
}

type optionDTO struct {
	Name        string  `json:"name"`
	PriceDelta  float64 `json:"priceDelta"`
	Description string  `json:"description,omitempty"`
}

type productSyncDTO struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Category       string      `json:"category"`
	BasePrice      float64     `json:"basePrice"`
	SizeRatio      float64     `json:"sizeRatio"`
	MinWidth       float64     `json:"minWidth"`
	MaxWidth       float64     `json:"maxWidth"`
	MinHeight      float64     `json:"minHeight"`
	MaxHeight      float64     `json:"maxHeight"`
	ShowMotor      bool        `json:"showMotor"`
	ShowColor      bool        `json:"showColor"`
	Colors         []colorDTO  `json:"colors,omitempty"`
	MotorOptions   []optionDTO `json:"motorOptions,omitempty"`
	RemoteOptions  []optionDTO `json:"remoteOptions,omitempty"`
	ControlOptions []optionDTO `json:"controlOptions,omitempty"`
	Accessories    []optionDTO `json:"accessories,omitempty"`
}

func (d *productSyncDTO) toModel() *catalog.Product {
	p := &catalog.Product{
		ID:        d.ID,
		Title:     d.Title,
		Category:  d.Category,
		BasePrice: d.BasePrice,
		SizeRatio: d.SizeRatio,
		MinWidth:  d.MinWidth,
		MaxWidth:  d.MaxWidth,
		MinHeight: d.MinHeight,
		MaxHeight: d.MaxHeight,
		ShowMotor: d.ShowMotor,
		ShowColor: d.ShowColor,
	}
	for _, c := range d.Colors {
		p.Colors = append(p.Colors, catalog.Color(c))
	}
	p.MotorOptions = toOptions(d.MotorOptions)
	p.RemoteOptions = toOptions(d.RemoteOptions)
	p.ControlOptions = toOptions(d.ControlOptions)
	p.Accessories = toOptions(d.Accessories)
	return p
}

func toOptions(dtos []optionDTO) []catalog.Option {
	var opts []catalog.Option
	for _, o := range dtos {
		opts = append(opts, catalog.Option(o))
	}
	return opts
}

type dispatchItemDTO struct {
	FabricCode string  `json:"fabricCode"`
	WidthCm    float64 `json:"widthCm"`
	HeightCm   float64 `json:"heightCm"`
	Mount      string  `json:"mount,omitempty"`
	MotorSpec  string  `json:"motorSpec,omitempty"`
	Quantity   int     `json:"quantity"`
}

type dispatchOrderDTO struct {
	OrderID     string            `json:"orderId"`
	FullAddress string            `json:"fullAddress"`
	Items       []dispatchItemDTO `json:"items"`
}

func (d *dispatchOrderDTO) toModel() fulfillment.DispatchRequest {
	req := fulfillment.DispatchRequest{OrderID: d.OrderID, FullAddress: d.FullAddress}
	for _, it := range d.Items {
		req.Items = append(req.Items, fulfillment.DispatchItem(it))
	}
	return req
}

type checkoutItemDTO struct {
	ProductID   string   `json:"productId"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Quantity    int      `json:"quantity"`
	Color       string   `json:"color,omitempty"`
	Motor       string   `json:"motor,omitempty"`
	Remote      string   `json:"remote,omitempty"`
	Control     string   `json:"control,omitempty"`
	Accessories []string `json:"accessories,omitempty"`
}

type consumedAssetDTO struct {
	ComponentID string `json:"componentId"`
	Quantity    int    `json:"quantity"`
}

type checkoutOrderDTO struct {
	OrderID         string             `json:"orderId"`
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail,omitempty"`
	CustomerPhone   string             `json:"customerPhone,omitempty"`
	ShippingAddress string             `json:"shippingAddress"`
	Items           []checkoutItemDTO  `json:"items"`
	ConsumedAssets  []consumedAssetDTO `json:"consumedAssets,omitempty"`
}

func (d *checkoutOrderDTO) toModel() order.CreateOrderRequest {
	req := order.CreateOrderRequest{
		OrderID:         d.OrderID,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		CustomerPhone:   d.CustomerPhone,
		ShippingAddress: d.ShippingAddress,
	}
	for _, it := range d.Items {
		req.Items = append(req.Items, order.ItemRequest{
			ProductID: it.ProductID,
			Width:     it.Width,
			Height:    it.Height,
			Quantity:  it.Quantity,
			Selection: pricing.Selection{
				Color:       it.Color,
				Motor:       it.Motor,
				Remote:      it.Remote,
				Control:     it.Control,
				Accessories: it.Accessories,
			},
		})
	}
	for _, a := range d.ConsumedAssets {
		req.ConsumedAssets = append(req.ConsumedAssets, inventory.Consumption(a))
	}
	return req
}

// ── outbound ─────────────────────────────────────────────────────────────────

type returnDTO struct {
	Date         string  `json:"date"`
	OrderID      string  `json:"orderId"`
	Customer     string  `json:"customer"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	RefundAmount float64 `json:"refundAmount"`
}

func toReturnDTOs(records []*returns.Return) []returnDTO {
	out := make([]returnDTO, 0, len(records))
	for _, r := range records {
		out = append(out, returnDTO{
			Date:         r.Date.Format(time.RFC3339),
			OrderID:      r.OrderID,
			Customer:     r.Customer,
			Reason:       r.Reason,
			Status:       string(r.Status),
			RefundAmount: r.RefundAmount,
		})
	}
	return out
}

type factoryUpdateDTO struct {
	OrderID        string `json:"orderId"`
	TrackingNumber string `json:"trackingNumber"`
	Status         string `json:"status"`
}

func toFactoryUpdateDTOs(updates []*fulfillment.FactoryUpdate) []factoryUpdateDTO {
	out := make([]factoryUpdateDTO, 0, len(updates))
	for _, u := range updates {
		out = append(out, factoryUpdateDTO{
			OrderID:        u.OrderID,
			TrackingNumber: u.TrackingNumber,
			Status:         u.Status,
		})
	}
	return out
}

type orderSummaryDTO struct {
	OrderID        string  `json:"orderId"`
	Customer       string  `json:"customer"`
	Status         string  `json:"status"`
	TrackingNumber string  `json:"trackingNumber,omitempty"`
	Total          float64 `json:"total"`
	CreatedAt      string  `json:"createdAt"`
}

func toOrderSummaryDTOs(orders []*order.Order) []orderSummaryDTO {
	out := make([]orderSummaryDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderSummaryDTO{
			OrderID:        o.OrderID,
			Customer:       o.CustomerName,
			Status:         string(o.Status),
			TrackingNumber: o.TrackingNumber,
			Total:          o.Total,
			CreatedAt:      o.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
