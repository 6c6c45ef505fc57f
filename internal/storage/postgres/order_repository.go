package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/orderlife/internal/domain"
	"github.com/vladislavdragonenkov/orderlife/internal/paging"
)

const (
	opTimeout = 5 * time.Second

	orderColumns = `id, customer_id, status, customer_name, shipping_address,
		created_by, updated_by, total_amount_minor, created_at, updated_at`
)

// orderRepository — durable-реализация OrderRepository поверх PostgreSQL.
// Позиции лежат в дочерней таблице order_items и каскадно следуют за
// родительским заказом; фильтрация и пагинация проталкиваются в запрос.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

// Save вставляет или замещает заказ одной транзакцией: upsert родительской
// строки, полная замена дочерних позиций. Позиции без ID получают его здесь.
func (r *orderRepository) Save(order domain.Order) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	stored := order.Clone()
	for i := range stored.Items {
		if stored.Items[i].ID == "" {
			stored.Items[i].ID = uuid.NewString()
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, status, customer_name, shipping_address,
			created_by, updated_by, total_amount_minor, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			status = EXCLUDED.status,
			customer_name = EXCLUDED.customer_name,
			shipping_address = EXCLUDED.shipping_address,
			created_by = EXCLUDED.created_by,
			updated_by = EXCLUDED.updated_by,
			total_amount_minor = EXCLUDED.total_amount_minor,
			updated_at = EXCLUDED.updated_at
	`,
		stored.ID, stored.CustomerID, string(stored.Status), stored.CustomerName,
		stored.ShippingAddress, stored.CreatedBy, stored.UpdatedBy,
		stored.TotalAmountMinor, stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, fmt.Errorf("upsert order: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, stored.ID); err != nil {
		return domain.Order{}, fmt.Errorf("replace order items: %w", err)
	}

	for i, item := range stored.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, position, product_id, product_name,
				quantity, unit_price_minor, total_price_minor
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			item.ID, stored.ID, i, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPriceMinor, item.TotalPriceMinor,
		); err != nil {
			return domain.Order{}, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit save order: %w", err)
	}

	return stored, nil
}

// FindByID возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepository) FindByID(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

// FindPage отдаёт страницу заказов. Сортировка и границы страниц считаются
// тем же контрактом, что у in-memory бэкенда: общий резолвер колонок и общая
// сборка метаданных.
func (r *orderRepository) FindPage(status *domain.OrderStatus, req domain.PageRequest) (domain.OrderPage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	req = paging.Normalize(req)

	where := ""
	args := []any{}
	if status != nil {
		where = "WHERE status = $1"
		args = append(args, string(*status))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return domain.OrderPage{}, fmt.Errorf("count orders: %w", err)
	}

	limitPos := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, orderColumns, where, paging.SQLOrderBy(req), limitPos, limitPos+1)
	args = append(args, req.Size, req.Page*req.Size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("select orders page: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, req.Size)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return domain.OrderPage{}, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return domain.OrderPage{}, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return domain.OrderPage{}, err
		}
		orders[i].Items = items
	}

	return paging.Build(orders, req, total), nil
}

// Delete удаляет агрегат; позиции уходят каскадом. Отсутствующий ID — no-op.
func (r *orderRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, product_name, quantity, unit_price_minor, total_price_minor
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPriceMinor, &item.TotalPriceMinor,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	var status string
	if err := row.Scan(
		&order.ID, &order.CustomerID, &status, &order.CustomerName,
		&order.ShippingAddress, &order.CreatedBy, &order.UpdatedBy,
		&order.TotalAmountMinor, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

var _ domain.OrderRepository = (*orderRepository)(nil)
