package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orderlife/internal/domain"
)

func validOrder() domain.Order {
	now := time.Now().UTC()
	order := domain.Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		Status:     domain.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	order.SetItems([]domain.OrderItem{
		{ID: "item-1", ProductID: "prod-1", ProductName: "Widget", Quantity: 2, UnitPriceMinor: 250},
		{ID: "item-2", ProductID: "prod-2", ProductName: "Gadget", Quantity: 1, UnitPriceMinor: 1000},
	})
	return order
}

func TestOrderSetItemsRecalculatesTotals(t *testing.T) {
	order := validOrder()

	if order.TotalAmountMinor != 1500 {
		t.Fatalf("expected total 1500, got %d", order.TotalAmountMinor)
	}
	if order.Items[0].TotalPriceMinor != 500 {
		t.Fatalf("expected item total 500, got %d", order.Items[0].TotalPriceMinor)
	}

	order.SetItems([]domain.OrderItem{
		{ProductID: "prod-3", Quantity: 3, UnitPriceMinor: 100},
	})
	if order.TotalAmountMinor != 300 {
		t.Fatalf("expected total 300 after replacing items, got %d", order.TotalAmountMinor)
	}
}

func TestOrderSetItemsEmptyIsZeroTotal(t *testing.T) {
	order := validOrder()
	order.SetItems(nil)

	if order.TotalAmountMinor != 0 {
		t.Fatalf("expected zero total for empty items, got %d", order.TotalAmountMinor)
	}
	if order.Items == nil || len(order.Items) != 0 {
		t.Fatalf("expected empty non-nil items, got %#v", order.Items)
	}
}

func TestOrderCloneIsDeep(t *testing.T) {
	order := validOrder()
	clone := order.Clone()

	clone.Items[0].Quantity = 99
	clone.Status = domain.OrderStatusShipped

	if order.Items[0].Quantity != 2 {
		t.Fatalf("mutating clone items changed the original: %d", order.Items[0].Quantity)
	}
	if order.Status != domain.OrderStatusPending {
		t.Fatalf("mutating clone status changed the original: %s", order.Status)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	terminal := map[domain.OrderStatus]bool{
		domain.OrderStatusPending:    false,
		domain.OrderStatusProcessing: false,
		domain.OrderStatusShipped:    false,
		domain.OrderStatusDelivered:  true,
		domain.OrderStatusCancelled:  true,
	}

	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Fatalf("IsTerminal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestValidateInvariants(t *testing.T) {
	order := validOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}

	order.TotalAmountMinor = 1

	errs := order.ValidateInvariants()
	if len(errs) == 0 {
		t.Fatal("expected amount mismatch violation")
	}
}

func TestValidateInvariantsRejectsBadItems(t *testing.T) {
	order := validOrder()
	order.Items[0].Quantity = 0
	order.Items[1].UnitPriceMinor = -5

	errs := order.ValidateInvariants()
	if len(errs) < 2 {
		t.Fatalf("expected qty and price violations, got %v", errs)
	}
}
