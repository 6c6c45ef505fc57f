package domain

import (
	"errors"
	"fmt"
)

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка неизвестного значения статуса.
	ErrStatusUnknown = errors.New("order status is unknown")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("total_amount_minor must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item unit price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order amount does not match items sum")
	// ErrNilItems возвращается, когда в создание заказа передан nil вместо
	// списка позиций; пустой список при этом допустим.
	ErrNilItems = errors.New("items list is required")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
)

// InvalidOrderOperationError сигнализирует о недопустимом переходе статуса.
// Текущий и запрошенный статусы сохраняются для диагностики.
type InvalidOrderOperationError struct {
	Current   OrderStatus
	Attempted OrderStatus
}

func (e *InvalidOrderOperationError) Error() string {
	return fmt.Sprintf("invalid order operation: transition %s -> %s is not allowed", e.Current, e.Attempted)
}

// IsInvalidOrderOperation проверяет, является ли ошибка запретом перехода.
func IsInvalidOrderOperation(err error) bool {
	var target *InvalidOrderOperationError
	return errors.As(err, &target)
}

// RepositoryError оборачивает отказ бэкенда хранения. Движок такие ошибки
// не ретраит; повтор — забота транспортного слоя.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// IsRepositoryError проверяет, является ли ошибка отказом хранилища.
func IsRepositoryError(err error) bool {
	var target *RepositoryError
	return errors.As(err, &target)
}
