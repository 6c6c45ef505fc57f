package paging

import (
	"sort"
	"strings"

	"github.com/vladislavdragonenkov/orderlife/internal/domain"
)

const (
	// DefaultPageSize используется, когда размер страницы не задан.
	DefaultPageSize = 10
	// DefaultSortField — общесистемный дефолт: свежие заказы первыми.
	DefaultSortField = "createdAt"
)

// sortField связывает каноническое имя поля сортировки с его SQL-колонкой.
// Оба бэкенда резолвят поле через одну таблицу, иначе их порядок разойдётся.
type sortField struct {
	canonical string
	column    string
}

var sortFields = map[string]sortField{
	"id":          {canonical: "id", column: "id"},
	"customerid":  {canonical: "customerId", column: "customer_id"},
	"createdat":   {canonical: "createdAt", column: "created_at"},
	"status":      {canonical: "status", column: "status"},
	"totalamount": {canonical: "totalAmount", column: "total_amount_minor"},
}

// Normalize приводит запрос страницы к каноническому виду: отрицательная
// страница становится нулевой, пустой размер — DefaultPageSize, неизвестное
// поле сортировки — createdAt, любое направление кроме ASC — DESC.
func Normalize(req domain.PageRequest) domain.PageRequest {
	if req.Page < 0 {
		req.Page = 0
	}
	if req.Size <= 0 {
		req.Size = DefaultPageSize
	}

	field, ok := sortFields[strings.ToLower(strings.TrimSpace(req.SortField))]
	if !ok {
		field = sortFields["createdat"]
	}
	req.SortField = field.canonical

	if strings.EqualFold(string(req.SortDirection), string(domain.SortAsc)) {
		req.SortDirection = domain.SortAsc
	} else {
		req.SortDirection = domain.SortDesc
	}

	return req
}

// SQLOrderBy возвращает ORDER BY-выражение для push-down выборки durable
// бэкенда. Вторичный ключ id в том же направлении повторяет tie-break
// in-memory сортировки, чтобы границы страниц совпадали.
func SQLOrderBy(req domain.PageRequest) string {
	req = Normalize(req)

	column := sortFields[strings.ToLower(req.SortField)].column
	direction := "DESC"
	if req.SortDirection == domain.SortAsc {
		direction = "ASC"
	}

	return column + " " + direction + ", id " + direction
}

// SortOrders сортирует срез на месте по запрошенному полю и направлению.
func SortOrders(orders []domain.Order, req domain.PageRequest) {
	req = Normalize(req)
	asc := req.SortDirection == domain.SortAsc
	field := strings.ToLower(req.SortField)

	sort.SliceStable(orders, func(i, j int) bool {
		cmp := compareByField(orders[i], orders[j], field)
		if cmp == 0 {
			cmp = strings.Compare(orders[i].ID, orders[j].ID)
		}
		if asc {
			return cmp < 0
		}
		return cmp > 0
	})
}

func compareByField(a, b domain.Order, field string) int {
	switch field {
	case "id":
		return strings.Compare(a.ID, b.ID)
	case "customerid":
		return strings.Compare(a.CustomerID, b.CustomerID)
	case "status":
		return strings.Compare(string(a.Status), string(b.Status))
	case "totalamount":
		switch {
		case a.TotalAmountMinor < b.TotalAmountMinor:
			return -1
		case a.TotalAmountMinor > b.TotalAmountMinor:
			return 1
		default:
			return 0
		}
	default:
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		default:
			return 0
		}
	}
}

// Slice вырезает запрошенную страницу из уже отсортированной выборки.
// Запрос за пределами выборки — не ошибка: возвращается пустая страница с
// настоящим TotalElements.
func Slice(sorted []domain.Order, req domain.PageRequest) domain.OrderPage {
	req = Normalize(req)

	total := len(sorted)
	start := req.Page * req.Size
	end := start + req.Size
	if end > total {
		end = total
	}

	var content []domain.Order
	if start >= total {
		content = []domain.Order{}
	} else {
		content = make([]domain.Order, end-start)
		copy(content, sorted[start:end])
	}

	return Build(content, req, int64(total))
}

// Build собирает метаданные страницы вокруг готового содержимого; durable
// бэкенд вызывает его после push-down выборки.
func Build(content []domain.Order, req domain.PageRequest, total int64) domain.OrderPage {
	req = Normalize(req)

	totalPages := int((total + int64(req.Size) - 1) / int64(req.Size))

	return domain.OrderPage{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page >= totalPages-1,
	}
}
