package domain

// SortDirection задаёт направление сортировки выборки.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// PageRequest описывает запрошенную страницу: нулевой индекс страницы,
// размер, поле и направление сортировки. Нормализацию значений выполняет
// пакет paging; репозитории получают запрос уже нормализованным или
// нормализуют его сами.
type PageRequest struct {
	Page          int
	Size          int
	SortField     string
	SortDirection SortDirection
}

// OrderPage — ограниченный срез упорядоченной выборки плюс метаданные.
type OrderPage struct {
	Content       []Order
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
	First         bool
	Last          bool
}
