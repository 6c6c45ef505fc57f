package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/orderlife/internal/domain"
	"github.com/vladislavdragonenkov/orderlife/internal/storage/memory"
)

func integrationOrder(id string, createdAt time.Time, status domain.OrderStatus) domain.Order {
	order := domain.Order{
		ID:         id,
		CustomerID: "customer-1",
		Status:     status,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	order.SetItems([]domain.OrderItem{
		{ProductID: "prod-1", ProductName: "Widget", Quantity: 2, UnitPriceMinor: 150},
		{ProductID: "prod-2", ProductName: "Gadget", Quantity: 1, UnitPriceMinor: 700},
	})
	return order
}

func TestOrderRepositoryIntegration_SaveFindRoundTrip(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	order := integrationOrder("order-rt", time.Now().UTC().Truncate(time.Microsecond), domain.OrderStatusPending)

	saved, err := repo.Save(order)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Items[0].ID == "" {
		t.Fatal("expected backend-assigned item id")
	}

	got, err := repo.FindByID(order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.TotalAmountMinor != 1000 {
		t.Fatalf("expected total 1000, got %d", got.TotalAmountMinor)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Items[0].ProductID != "prod-1" || got.Items[1].ProductID != "prod-2" {
		t.Fatalf("item order not preserved: %+v", got.Items)
	}
	if !got.CreatedAt.Equal(order.CreatedAt) {
		t.Fatalf("created_at mismatch: %v vs %v", got.CreatedAt, order.CreatedAt)
	}
}

func TestOrderRepositoryIntegration_SaveReplacesItems(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	order := integrationOrder("order-repl", time.Now().UTC(), domain.OrderStatusPending)
	if _, err := repo.Save(order); err != nil {
		t.Fatalf("save: %v", err)
	}

	order.SetItems([]domain.OrderItem{
		{ProductID: "prod-9", Quantity: 1, UnitPriceMinor: 50},
	})
	if _, err := repo.Save(order); err != nil {
		t.Fatalf("resave: %v", err)
	}

	got, err := repo.FindByID(order.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ProductID != "prod-9" {
		t.Fatalf("items must be replaced wholesale, got %+v", got.Items)
	}
	if got.TotalAmountMinor != 50 {
		t.Fatalf("expected total 50, got %d", got.TotalAmountMinor)
	}
}

func TestOrderRepositoryIntegration_DeleteCascadesAndIsIdempotent(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	order := integrationOrder("order-del", time.Now().UTC(), domain.OrderStatusPending)
	if _, err := repo.Save(order); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("repeated delete must be a no-op: %v", err)
	}

	var orphans int
	if err := store.DB().QueryRow(
		`SELECT COUNT(*) FROM order_items WHERE order_id = $1`, order.ID,
	).Scan(&orphans); err != nil {
		t.Fatalf("count orphans: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected cascade delete of items, found %d", orphans)
	}

	if _, err := repo.FindByID(order.ID); err != domain.ErrOrderNotFound {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

// Парность бэкендов: одинаковые данные, одинаковые запросы — одинаковые
// границы страниц и порядок элементов.
func TestOrderRepositoryIntegration_PagingMatchesMemoryBackend(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	pgRepo := NewOrderRepository(store)
	memRepo := memory.NewOrderRepository()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	statuses := []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusProcessing,
		domain.OrderStatusPending,
		domain.OrderStatusShipped,
		domain.OrderStatusPending,
	}
	for i, status := range statuses {
		order := integrationOrder(fmt.Sprintf("order-%02d", i), base.Add(time.Duration(i)*time.Minute), status)
		order.SetItems([]domain.OrderItem{
			{ProductID: "prod-1", Quantity: int32(5 - i), UnitPriceMinor: 100},
		})
		if _, err := pgRepo.Save(order); err != nil {
			t.Fatalf("pg save: %v", err)
		}
		if _, err := memRepo.Save(order); err != nil {
			t.Fatalf("mem save: %v", err)
		}
	}

	pending := domain.OrderStatusPending
	requests := []struct {
		name   string
		status *domain.OrderStatus
		req    domain.PageRequest
	}{
		{"default first page", nil, domain.PageRequest{Page: 0, Size: 2}},
		{"second page asc", nil, domain.PageRequest{Page: 1, Size: 2, SortField: "createdAt", SortDirection: domain.SortAsc}},
		{"by total amount", nil, domain.PageRequest{Page: 0, Size: 3, SortField: "totalAmount", SortDirection: domain.SortAsc}},
		{"pending only", &pending, domain.PageRequest{Page: 0, Size: 2, SortField: "id", SortDirection: domain.SortAsc}},
		{"past end", nil, domain.PageRequest{Page: 9, Size: 2}},
	}

	for _, tc := range requests {
		t.Run(tc.name, func(t *testing.T) {
			pgPage, err := pgRepo.FindPage(tc.status, tc.req)
			if err != nil {
				t.Fatalf("pg find page: %v", err)
			}
			memPage, err := memRepo.FindPage(tc.status, tc.req)
			if err != nil {
				t.Fatalf("mem find page: %v", err)
			}

			if pgPage.TotalElements != memPage.TotalElements ||
				pgPage.TotalPages != memPage.TotalPages ||
				pgPage.First != memPage.First ||
				pgPage.Last != memPage.Last {
				t.Fatalf("page metadata diverged: pg=%+v mem=%+v", pgPage, memPage)
			}
			if len(pgPage.Content) != len(memPage.Content) {
				t.Fatalf("content length diverged: %d vs %d", len(pgPage.Content), len(memPage.Content))
			}
			for i := range pgPage.Content {
				if pgPage.Content[i].ID != memPage.Content[i].ID {
					t.Fatalf("content order diverged at %d: %s vs %s", i, pgPage.Content[i].ID, memPage.Content[i].ID)
				}
			}
		})
	}
}
