package rest

import (
	"time"

	"github.com/vladislavdragonenkov/orderlife/internal/domain"
)

// createOrderRequest — тело POST /api/orders. Items без тега required:
// пустой список легален, отсутствующий — нет, это проверяется отдельно.
type createOrderRequest struct {
	CustomerID      string             `json:"customerId" validate:"required"`
	CustomerName    string             `json:"customerName"`
	ShippingAddress string             `json:"shippingAddress"`
	CreatedBy       string             `json:"createdBy"`
	Items           []orderItemRequest `json:"items" validate:"omitempty,dive"`
}

type orderItemRequest struct {
	ProductID      string `json:"productId" validate:"required"`
	ProductName    string `json:"productName"`
	Quantity       int32  `json:"quantity" validate:"gt=0"`
	UnitPriceMinor int64  `json:"unitPriceMinor" validate:"gte=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderItemResponse struct {
	ID              string `json:"id"`
	ProductID       string `json:"productId"`
	ProductName     string `json:"productName"`
	Quantity        int32  `json:"quantity"`
	UnitPriceMinor  int64  `json:"unitPriceMinor"`
	TotalPriceMinor int64  `json:"totalPriceMinor"`
}

type orderResponse struct {
	ID               string              `json:"id"`
	CustomerID       string              `json:"customerId"`
	Status           string              `json:"status"`
	CustomerName     string              `json:"customerName,omitempty"`
	ShippingAddress  string              `json:"shippingAddress,omitempty"`
	CreatedBy        string              `json:"createdBy,omitempty"`
	UpdatedBy        string              `json:"updatedBy,omitempty"`
	TotalAmountMinor int64               `json:"totalAmountMinor"`
	Items            []orderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// pageResponse повторяет структуру domain.OrderPage для JSON-ответа.
type pageResponse struct {
	Content       []orderResponse `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
	First         bool            `json:"first"`
	Last          bool            `json:"last"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			UnitPriceMinor:  item.UnitPriceMinor,
			TotalPriceMinor: item.TotalPriceMinor,
		})
	}
	return orderResponse{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		Status:           string(order.Status),
		CustomerName:     order.CustomerName,
		ShippingAddress:  order.ShippingAddress,
		CreatedBy:        order.CreatedBy,
		UpdatedBy:        order.UpdatedBy,
		TotalAmountMinor: order.TotalAmountMinor,
		Items:            items,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

func toPageResponse(page domain.OrderPage) pageResponse {
	content := make([]orderResponse, 0, len(page.Content))
	for _, order := range page.Content {
		content = append(content, toOrderResponse(order))
	}
	return pageResponse{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	}
}

func toDomainItems(items []orderItemRequest) []domain.OrderItem {
	if items == nil {
		return nil
	}
	converted := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		converted = append(converted, domain.OrderItem{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceMinor: item.UnitPriceMinor,
		})
	}
	return converted
}
