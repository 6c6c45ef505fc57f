package lifecycle

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderlife/internal/domain"
	"github.com/vladislavdragonenkov/orderlife/internal/metrics"
)

// sweepBatchSize ограничивает размер одной выборки PENDING-заказов при
// проходе sweep; проход повторяет выборку, пока PENDING не исчерпан.
const sweepBatchSize = 100

// Service — единственная точка создания заказов и легальных переходов их
// статуса. Всё хранение делегируется OrderRepository; время и идентификаторы
// приходят через порты, чтобы тесты были детерминированными.
type Service struct {
	repo    domain.OrderRepository
	clock   domain.Clock
	ids     domain.IDGenerator
	logger  *log.Entry
	metrics *metrics.LifecycleMetrics
}

// Option настраивает Service.
type Option func(*Service)

// WithClock задаёт источник времени.
func WithClock(clock domain.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithIDGenerator задаёт генератор идентификаторов.
func WithIDGenerator(ids domain.IDGenerator) Option {
	return func(s *Service) {
		s.ids = ids
	}
}

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics задаёт метрики операций.
func WithMetrics(m *metrics.LifecycleMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService создаёт сервис жизненного цикла поверх репозитория заказов.
func NewService(repo domain.OrderRepository, options ...Option) *Service {
	s := &Service{repo: repo}
	for _, option := range options {
		option(s)
	}

	if s.clock == nil {
		s.clock = domain.ClockFunc(func() time.Time { return time.Now().UTC() })
	}
	if s.ids == nil {
		s.ids = domain.IDGeneratorFunc(uuid.NewString)
	}
	if s.logger == nil {
		s.logger = log.WithField("component", "lifecycle-service")
	}

	return s
}

// CreateOrderParams — вход операции создания. Аудит-поля заполняет
// вызывающий коллаборатор; движок их не проверяет и не выводит.
type CreateOrderParams struct {
	CustomerID      string
	CustomerName    string
	ShippingAddress string
	CreatedBy       string
	Items           []domain.OrderItem
}

// CreateOrder создаёт заказ: новый ID, статус PENDING, производная сумма —
// и сохраняет его. Пустой список позиций допустим, nil — ошибка валидации:
// транспорт обязан был передать хотя бы пустой список.
func (s *Service) CreateOrder(params CreateOrderParams) (domain.Order, error) {
	defer s.observe("create", s.clock.Now())

	if params.Items == nil {
		return domain.Order{}, domain.ErrNilItems
	}

	now := s.clock.Now()
	order := domain.Order{
		ID:              s.ids.NewID(),
		CustomerID:      params.CustomerID,
		Status:          domain.OrderStatusPending,
		CustomerName:    params.CustomerName,
		ShippingAddress: params.ShippingAddress,
		CreatedBy:       params.CreatedBy,
		UpdatedBy:       params.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	items := make([]domain.OrderItem, len(params.Items))
	copy(items, params.Items)
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = s.ids.NewID()
		}
	}
	order.SetItems(items)

	saved, err := s.repo.Save(order)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist new order")
		return domain.Order{}, &domain.RepositoryError{Op: "save", Err: err}
	}

	s.metrics.RecordOrderCreated()
	s.logger.WithFields(log.Fields{
		"order_id":    saved.ID,
		"customer_id": saved.CustomerID,
		"items":       len(saved.Items),
	}).Info("order created")

	return saved, nil
}

// GetOrder возвращает заказ по ID или ErrOrderNotFound.
func (s *Service) GetOrder(id string) (domain.Order, error) {
	order, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, &domain.RepositoryError{Op: "find", Err: err}
	}
	return order, nil
}

// ListOrders возвращает страницу заказов, опционально отфильтрованных по
// статусу. Пагинация и сортировка — контракт пакета paging, одинаковый для
// обоих бэкендов.
func (s *Service) ListOrders(status *domain.OrderStatus, req domain.PageRequest) (domain.OrderPage, error) {
	if status != nil && !status.IsValid() {
		return domain.OrderPage{}, domain.ErrStatusUnknown
	}

	page, err := s.repo.FindPage(status, req)
	if err != nil {
		return domain.OrderPage{}, &domain.RepositoryError{Op: "find page", Err: err}
	}
	return page, nil
}

// UpdateOrderStatus переводит заказ в новый статус. Переход разрешён из
// любого нетерминального статуса в любой известный; из CANCELLED и DELIVERED
// переходов нет. Политика намеренно шире, чем у CancelOrder: смена статуса —
// операционное действие, отмена — клиентское.
func (s *Service) UpdateOrderStatus(id string, newStatus domain.OrderStatus) (domain.Order, error) {
	defer s.observe("update_status", s.clock.Now())

	if !newStatus.IsValid() {
		return domain.Order{}, domain.ErrStatusUnknown
	}

	order, err := s.GetOrder(id)
	if err != nil {
		return domain.Order{}, err
	}

	if order.Status.IsTerminal() {
		s.metrics.RecordInvalidOperation()
		return domain.Order{}, &domain.InvalidOrderOperationError{Current: order.Status, Attempted: newStatus}
	}

	order.Status = newStatus
	order.UpdatedAt = s.clock.Now()

	saved, err := s.repo.Save(order)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("failed to persist status update")
		return domain.Order{}, &domain.RepositoryError{Op: "save", Err: err}
	}

	s.metrics.RecordStatusTransition(string(newStatus))
	s.logger.WithFields(log.Fields{
		"order_id": id,
		"status":   newStatus,
	}).Info("order status updated")

	return saved, nil
}

// CancelOrder отменяет заказ. Строже, чем UpdateOrderStatus: отмена легальна
// только из PENDING.
func (s *Service) CancelOrder(id string) (domain.Order, error) {
	defer s.observe("cancel", s.clock.Now())

	order, err := s.GetOrder(id)
	if err != nil {
		return domain.Order{}, err
	}

	if order.Status != domain.OrderStatusPending {
		s.metrics.RecordInvalidOperation()
		return domain.Order{}, &domain.InvalidOrderOperationError{
			Current:   order.Status,
			Attempted: domain.OrderStatusCancelled,
		}
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = s.clock.Now()

	saved, err := s.repo.Save(order)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("failed to persist cancellation")
		return domain.Order{}, &domain.RepositoryError{Op: "save", Err: err}
	}

	s.metrics.RecordOrderCancelled()
	s.logger.WithField("order_id", id).Info("order cancelled")

	return saved, nil
}

// DeleteOrder удаляет агрегат целиком. Возвращает true, если заказ
// существовал; удаление несуществующего ID — не ошибка.
func (s *Service) DeleteOrder(id string) (bool, error) {
	if _, err := s.repo.FindByID(id); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return false, nil
		}
		return false, &domain.RepositoryError{Op: "find", Err: err}
	}

	if err := s.repo.Delete(id); err != nil {
		return false, &domain.RepositoryError{Op: "delete", Err: err}
	}

	s.metrics.RecordOrderDeleted()
	s.logger.WithField("order_id", id).Info("order deleted")
	return true, nil
}

// ProcessPendingOrders переводит все PENDING-заказы в PROCESSING и
// возвращает число переведённых. Отказ сохранения одного заказа не
// останавливает проход: ошибка логируется, заказ останется PENDING до
// следующего прохода. Повторный запуск сразу после завершения переводит 0.
func (s *Service) ProcessPendingOrders() (int, error) {
	defer s.observe("sweep", s.clock.Now())

	pending := domain.OrderStatusPending
	req := domain.PageRequest{
		Page:          0,
		Size:          sweepBatchSize,
		SortField:     "createdAt",
		SortDirection: domain.SortAsc,
	}

	advanced := 0
	failed := 0
	for {
		// Каждая итерация заново читает первую страницу: переведённые
		// заказы из фильтра уже ушли.
		page, err := s.repo.FindPage(&pending, req)
		if err != nil {
			s.metrics.RecordSweep(advanced, failed+1)
			return advanced, &domain.RepositoryError{Op: "find page", Err: err}
		}
		if len(page.Content) == 0 {
			break
		}

		progressed := false
		for _, order := range page.Content {
			order.Status = domain.OrderStatusProcessing
			order.UpdatedAt = s.clock.Now()

			if _, err := s.repo.Save(order); err != nil {
				failed++
				s.logger.WithError(err).WithField("order_id", order.ID).Warn("sweep failed to advance order")
				continue
			}
			advanced++
			progressed = true
		}

		// Если ни один заказ не сохранился, следующая выборка будет той
		// же — выходим, не зацикливаясь.
		if !progressed {
			break
		}
	}

	s.metrics.RecordSweep(advanced, failed)
	if advanced > 0 {
		s.logger.WithField("advanced", advanced).Info("pending orders moved to processing")
	}

	return advanced, nil
}

func (s *Service) observe(operation string, started time.Time) {
	s.metrics.ObserveOperation(operation, s.clock.Now().Sub(started))
}
