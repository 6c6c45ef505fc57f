package domain

// OrderRepository описывает требования к хранилищу заказов. Оба бэкенда
// (in-memory и PostgreSQL) обязаны давать наблюдаемо одинаковые результаты
// для сохранения, чтения, фильтрации и постраничной выборки.
type OrderRepository interface {
	// Save вставляет или замещает заказ по ID и возвращает сохранённый
	// снимок. Возвращаемое значение — глубокая копия: мутации снаружи не
	// должны менять состояние хранилища.
	Save(order Order) (Order, error)
	// FindByID возвращает снимок заказа или ErrOrderNotFound, если его нет.
	FindByID(id string) (Order, error)
	// FindPage возвращает страницу заказов, опционально отфильтрованных по
	// статусу, с сортировкой и границами страниц по контракту пакета paging.
	FindPage(status *OrderStatus, req PageRequest) (OrderPage, error)
	// Delete удаляет агрегат целиком. Удаление несуществующего ID — no-op.
	Delete(id string) error
}
