package rest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderlife/internal/domain"
	"github.com/vladislavdragonenkov/orderlife/internal/service/lifecycle"
)

// OrderHandler обслуживает HTTP-маршруты заказов поверх сервиса жизненного
// цикла. Ошибки домена транслируются в коды ответов: NotFound в 404,
// недопустимый переход в 409, ошибки валидации в 400.
type OrderHandler struct {
	service  *lifecycle.Service
	validate *validator.Validate
	logger   *log.Entry
}

// NewOrderHandler создаёт обработчик поверх сервиса.
func NewOrderHandler(service *lifecycle.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   log.WithField("component", "rest"),
	}
}

// RegisterRoutes подключает маршруты заказов к роутеру Fiber.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orders := router.Group("/orders")
	orders.Post("/", h.HandleCreateOrder)
	orders.Get("/", h.HandleListOrders)
	orders.Get("/:id", h.HandleGetOrder)
	orders.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orders.Post("/:id/cancel", h.HandleCancelOrder)
	orders.Delete("/:id", h.HandleDeleteOrder)
}

// HandleCreateOrder принимает новый заказ и отвечает 201 с рассчитанными
// суммами.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}
	if req.Items == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Field 'items' is required; send an empty list for an order without items",
		})
	}

	order, err := h.service.CreateOrder(lifecycle.CreateOrderParams{
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		ShippingAddress: req.ShippingAddress,
		CreatedBy:       req.CreatedBy,
		Items:           toDomainItems(req.Items),
	})
	if err != nil {
		h.logger.WithError(err).Error("create order failed")
		return h.respondDomainError(c, err, "Could not create order")
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

// HandleGetOrder возвращает заказ по идентификатору.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrder(orderID)
	if err != nil {
		return h.respondDomainError(c, err, "Could not retrieve order")
	}
	return c.JSON(toOrderResponse(order))
}

// HandleListOrders возвращает страницу заказов. Параметры запроса: status,
// page, size, sortBy, direction.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	var status *domain.OrderStatus
	if raw := c.Query("status"); raw != "" {
		parsed := domain.OrderStatus(strings.ToUpper(raw))
		status = &parsed
	}

	req := domain.PageRequest{
		Page:      c.QueryInt("page", 0),
		Size:      c.QueryInt("size", 0),
		SortField: c.Query("sortBy"),
	}
	if strings.EqualFold(c.Query("direction"), "asc") {
		req.SortDirection = domain.SortAsc
	} else {
		req.SortDirection = domain.SortDesc
	}

	page, err := h.service.ListOrders(status, req)
	if err != nil {
		return h.respondDomainError(c, err, "Could not retrieve orders")
	}
	return c.JSON(toPageResponse(page))
}

// HandleUpdateOrderStatus переводит заказ в новый статус.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req updateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	order, err := h.service.UpdateOrderStatus(orderID, domain.OrderStatus(strings.ToUpper(req.Status)))
	if err != nil {
		return h.respondDomainError(c, err, "Could not update order status")
	}
	return c.JSON(toOrderResponse(order))
}

// HandleCancelOrder отменяет заказ; допустимо только из статуса PENDING.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.CancelOrder(orderID)
	if err != nil {
		return h.respondDomainError(c, err, "Could not cancel order")
	}
	return c.JSON(toOrderResponse(order))
}

// HandleDeleteOrder удаляет заказ. Отсутствующий заказ — 404, успешное
// удаление — 204 без тела.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	deleted, err := h.service.DeleteOrder(orderID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Error("delete order failed")
		return h.respondDomainError(c, err, "Could not delete order")
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrderHandler) respondDomainError(c *fiber.Ctx, err error, message string) error {
	var opErr *domain.InvalidOrderOperationError
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Order not found",
		})
	case errors.As(err, &opErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   opErr.Error(),
		})
	case errors.Is(err, domain.ErrStatusUnknown),
		errors.Is(err, domain.ErrNilItems),
		errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrItemQtyInvalid),
		errors.Is(err, domain.ErrItemPriceInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		h.logger.WithError(err).Error("unexpected error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
		})
	}
}

func validationMessages(err error) map[string]string {
	messages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			messages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return messages
}
