package domain

import "time"

// OrderStatus описывает жизненный цикл заказа на закупку.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан и ждёт обработки.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusProcessing — заказ взят в операционную обработку.
	OrderStatusProcessing OrderStatus = "PROCESSING"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "SHIPPED"
	// OrderStatusDelivered — заказ доставлен; терминальный статус.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled — заказ отменён; терминальный статус.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// knownStatuses перечисляет допустимые значения статуса.
var knownStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusProcessing: {},
	OrderStatusShipped:    {},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// IsValid сообщает, входит ли статус в известный набор.
func (s OrderStatus) IsValid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// IsTerminal сообщает, запрещены ли дальнейшие переходы из статуса.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderItem представляет одну позицию заказа. Позиция принадлежит ровно
// одному заказу и заменяется вместе с остальными целиком через SetItems.
type OrderItem struct {
	// ID назначается бэкендом при сохранении; до этого может быть пустым.
	ID string
	// ProductID — внешний идентификатор товара.
	ProductID string
	// ProductName — отображаемое имя товара на момент заказа.
	ProductName string
	// Quantity — количество единиц товара, >= 1.
	Quantity int32
	// UnitPriceMinor — цена за единицу в минимальных денежных единицах.
	UnitPriceMinor int64
	// TotalPriceMinor — производное: Quantity * UnitPriceMinor.
	TotalPriceMinor int64
}

// Order агрегирует заказ и принадлежащие ему позиции.
type Order struct {
	ID         string
	CustomerID string
	Status     OrderStatus
	// Описательные и аудит-поля заполняются коллабораторами; движок их
	// только сохраняет.
	CustomerName    string
	ShippingAddress string
	CreatedBy       string
	UpdatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	// TotalAmountMinor — производное: сумма TotalPriceMinor всех позиций.
	TotalAmountMinor int64
	Items            []OrderItem
}

// SetItems заменяет позиции заказа целиком и пересчитывает суммы.
// Код движка меняет позиции только через этот метод: прямое присваивание
// Items оставило бы сумму устаревшей.
func (o *Order) SetItems(items []OrderItem) {
	copied := make([]OrderItem, len(items))
	copy(copied, items)
	for i := range copied {
		copied[i].TotalPriceMinor = int64(copied[i].Quantity) * copied[i].UnitPriceMinor
	}
	o.Items = copied
	o.TotalAmountMinor = sumItems(copied)
}

// RecalculateTotal выравнивает суммы заказа по текущим позициям.
func (o *Order) RecalculateTotal() {
	for i := range o.Items {
		o.Items[i].TotalPriceMinor = int64(o.Items[i].Quantity) * o.Items[i].UnitPriceMinor
	}
	o.TotalAmountMinor = sumItems(o.Items)
}

// Clone возвращает глубокую копию агрегата. Копия — единственный способ
// выдать заказ наружу, не открывая внутреннее состояние хранилища мутациям.
func (o Order) Clone() Order {
	clone := o
	clone.Items = make([]OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	return clone
}

func sumItems(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.TotalPriceMinor
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if !o.Status.IsValid() {
		errs = append(errs, ErrStatusUnknown)
	}
	if o.TotalAmountMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += int64(item.Quantity) * item.UnitPriceMinor
	}
	if calc != o.TotalAmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
