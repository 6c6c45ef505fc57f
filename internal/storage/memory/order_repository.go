package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/orderlife/internal/domain"
	"github.com/vladislavdragonenkov/orderlife/internal/paging"
)

// orderRepositoryInMemory — volatile-реализация OrderRepository поверх map.
// Состояние живёт в процессе и теряется при рестарте; подходит для локальной
// разработки и тестов.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий заказов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Save вставляет или замещает заказ по ID. Внутрь кладётся копия, наружу
// отдаётся копия: ни вход, ни возврат не делят срез позиций с хранилищем.
func (r *orderRepositoryInMemory) Save(order domain.Order) (domain.Order, error) {
	stored := order.Clone()

	r.mu.Lock()
	r.items[stored.ID] = stored
	r.mu.Unlock()

	return stored.Clone(), nil
}

// FindByID возвращает снимок заказа или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) FindByID(id string) (domain.Order, error) {
	r.mu.RLock()
	order, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order.Clone(), nil
}

// FindPage материализует подходящие заказы, сортирует и режет страницу
// через общий пакет paging — тот же контракт, что у durable бэкенда.
func (r *orderRepositoryInMemory) FindPage(status *domain.OrderStatus, req domain.PageRequest) (domain.OrderPage, error) {
	r.mu.RLock()
	matched := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if status != nil && order.Status != *status {
			continue
		}
		matched = append(matched, order.Clone())
	}
	r.mu.RUnlock()

	paging.SortOrders(matched, req)
	return paging.Slice(matched, req), nil
}

// Delete удаляет агрегат целиком; несуществующий ID — тихий no-op.
func (r *orderRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()
	return nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
