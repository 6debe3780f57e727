package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nativesins/shop-api/internal/models"
)

// OrderEngine owns the 'orders' and 'order_lines' tables and moves the
// catalog stock counters in lockstep with basket edits.
//
// Every mutating operation runs inside one transaction: the availability
// check, the line write, the stock write and the total recompute either all
// land or none do, so an accepted operation can never drive a counter
// negative and a rejected one is a strict no-op.
type OrderEngine struct {
	DB *sql.DB
}

// BasketLine is an order line joined with the catalog fields a basket view
// needs. LineTotal uses the product's current price, not a snapshot taken
// when the line was added.
type BasketLine struct {
	models.OrderLine
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// FindCurrentOrder returns the user's single open order, or ErrNotFound
// when the basket is empty. The engine only ever creates an order when no
// open one exists, so at most one can be live per user.
func (e *OrderEngine) FindCurrentOrder(ctx context.Context, userID int64) (*models.Order, error) {
	return findCurrentOrder(ctx, e.DB, userID)
}

// GetOrder fetches one of the user's orders by id.
func (e *OrderEngine) GetOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	return scanOrder(e.DB.QueryRowContext(ctx, selectOrder+" WHERE id = ? AND user_id = ?", orderID, userID))
}

// ListOrders returns the user's order history, newest first.
func (e *OrderEngine) ListOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := e.DB.QueryContext(ctx, selectOrder+" WHERE user_id = ? ORDER BY created_at DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrderRows(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// Basket returns the user's open order together with its lines. ErrNotFound
// means the user has no open order at all.
func (e *OrderEngine) Basket(ctx context.Context, userID int64) (*models.Order, []BasketLine, error) {
	order, err := findCurrentOrder(ctx, e.DB, userID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := e.Lines(ctx, userID, order.ID)
	if err != nil {
		return nil, nil, err
	}
	return order, lines, nil
}

// Lines returns the joined line detail for one of the user's orders.
func (e *OrderEngine) Lines(ctx context.Context, userID, orderID int64) ([]BasketLine, error) {
	rows, err := e.DB.QueryContext(ctx, `
		SELECT ol.id, ol.order_id, ol.product_id, ol.size, ol.quantity, ol.created_at, p.name, p.price
		FROM order_lines ol
		JOIN products p ON ol.product_id = p.id
		JOIN orders o ON ol.order_id = o.id
		WHERE ol.order_id = ? AND o.user_id = ?
		ORDER BY ol.id`, orderID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []BasketLine{}
	for rows.Next() {
		var l BasketLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Size, &l.Quantity, &l.CreatedAt, &l.ProductName, &l.UnitPrice); err != nil {
			return nil, err
		}
		l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// AddOrUpdateLine adds quantity of a product to the user's basket.
//
// The open order is created lazily on the first add, binding the user's
// default shipping address when one is set. The target line is resolved by
// (product, size); a second add of the same pair grows the existing line
// instead of creating a duplicate. The requested quantity is checked
// against the live stock counter before anything is written; on
// ErrInsufficientStock nothing has changed.
func (e *OrderEngine) AddOrUpdateLine(ctx context.Context, userID, productID int64, quantity int, size string) (*models.Order, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := findCurrentOrder(ctx, tx, userID)
	if errors.Is(err, ErrNotFound) {
		order, err = createOrder(ctx, tx, userID)
	}
	if err != nil {
		return nil, err
	}

	product, err := getProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	size = product.NormalizeSize(size)
	if product.Sized() && !models.ValidApparelSize(size) {
		return nil, ErrInvalidSize
	}

	stock := product.StockFor(size)
	if quantity > stock {
		return nil, ErrInsufficientStock
	}

	var lineID int64
	var existing int
	err = tx.QueryRowContext(ctx,
		"SELECT id, quantity FROM order_lines WHERE order_id = ? AND product_id = ? AND size = ?",
		order.ID, productID, size).Scan(&lineID, &existing)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, "UPDATE order_lines SET quantity = ? WHERE id = ?", existing+quantity, lineID); err != nil {
			return nil, err
		}
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_lines (order_id, product_id, size, quantity, created_at) VALUES (?, ?, ?, ?, ?)",
			order.ID, productID, size, quantity, time.Now()); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := writeStock(ctx, tx, product, size, stock-quantity); err != nil {
		return nil, err
	}
	if err := recomputeTotal(ctx, tx, order.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return findCurrentOrder(ctx, e.DB, userID)
}

// RemoveLine deletes a line from the user's open order, returning its
// quantity to the matching stock counter.
func (e *OrderEngine) RemoveLine(ctx context.Context, userID, lineID int64) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	line, err := getOpenLine(ctx, tx, userID, lineID)
	if err != nil {
		return err
	}

	product, err := getProduct(ctx, tx, line.ProductID)
	if err != nil {
		return err
	}
	if err := writeStock(ctx, tx, product, line.Size, product.StockFor(line.Size)+line.Quantity); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM order_lines WHERE id = ?", line.ID); err != nil {
		return err
	}
	if err := recomputeTotal(ctx, tx, line.OrderID); err != nil {
		return err
	}
	return tx.Commit()
}

// EditLineQuantity rewrites a line's quantity. Growth is treated as a fresh
// reservation of the delta (availability-checked against live stock);
// shrinkage returns the delta to stock; no change is a no-op.
func (e *OrderEngine) EditLineQuantity(ctx context.Context, userID, lineID int64, newQuantity int) error {
	if newQuantity < 1 {
		return ErrInvalidQuantity
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	line, err := getOpenLine(ctx, tx, userID, lineID)
	if err != nil {
		return err
	}
	delta := newQuantity - line.Quantity
	if delta == 0 {
		return nil
	}

	product, err := getProduct(ctx, tx, line.ProductID)
	if err != nil {
		return err
	}
	stock := product.StockFor(line.Size)
	if delta > 0 && delta > stock {
		return ErrInsufficientStock
	}

	if err := writeStock(ctx, tx, product, line.Size, stock-delta); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE order_lines SET quantity = ? WHERE id = ?", newQuantity, line.ID); err != nil {
		return err
	}
	if err := recomputeTotal(ctx, tx, line.OrderID); err != nil {
		return err
	}
	return tx.Commit()
}

// RecomputeTotal re-derives and persists the order total from the current
// catalog prices. Calling it twice without intervening mutation yields the
// same total.
func (e *OrderEngine) RecomputeTotal(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	if err := recomputeTotal(ctx, e.DB, orderID); err != nil {
		return decimal.Zero, err
	}
	var total decimal.Decimal
	err := e.DB.QueryRowContext(ctx, "SELECT order_total FROM orders WHERE id = ?", orderID).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}
	return total, nil
}

// BindAddress sets the shipping destination of the user's open order. The
// address must belong to the same user.
func (e *OrderEngine) BindAddress(ctx context.Context, userID, orderID, addressID int64) error {
	var ownedID int64
	err := e.DB.QueryRowContext(ctx, "SELECT id FROM addresses WHERE id = ? AND user_id = ?", addressID, userID).Scan(&ownedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return e.updateOpenOrder(ctx, userID, orderID, "address_id", ownedID)
}

// SetShippingMethod records the chosen delivery option on the user's open
// order. Its cost is added at checkout time, not folded into order_total.
func (e *OrderEngine) SetShippingMethod(ctx context.Context, userID, orderID int64, code string) error {
	if _, ok := models.ShippingOptionByCode(code); !ok {
		return ErrInvalidShipping
	}
	return e.updateOpenOrder(ctx, userID, orderID, "shipping_method", code)
}

// AdvanceFulfilment walks placed orders forward on elapsed time:
// placed -> dispatched after dispatchAfter, dispatched -> complete after
// completeAfter. It returns how many orders moved.
func (e *OrderEngine) AdvanceFulfilment(ctx context.Context, dispatchAfter, completeAfter time.Duration) (int64, error) {
	now := time.Now()

	// Complete first so an order never jumps two stages in one sweep.
	completed, err := e.DB.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE status = ? AND updated_at <= ?",
		models.OrderComplete, now, models.OrderDispatched, now.Add(-completeAfter))
	if err != nil {
		return 0, err
	}
	dispatched, err := e.DB.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE status = ? AND updated_at <= ?",
		models.OrderDispatched, now, models.OrderPlaced, now.Add(-dispatchAfter))
	if err != nil {
		return 0, err
	}

	c, _ := completed.RowsAffected()
	d, _ := dispatched.RowsAffected()
	return c + d, nil
}

func (e *OrderEngine) updateOpenOrder(ctx context.Context, userID, orderID int64, column string, value any) error {
	result, err := e.DB.ExecContext(ctx,
		"UPDATE orders SET "+column+" = ?, updated_at = ? WHERE id = ? AND user_id = ? AND status = ?",
		value, time.Now(), orderID, userID, models.OrderOpen)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

const selectOrder = `
	SELECT id, user_id, reference, address_id, shipping_method, status, order_total, created_at, updated_at
	FROM orders`

func findCurrentOrder(ctx context.Context, q querier, userID int64) (*models.Order, error) {
	return scanOrder(q.QueryRowContext(ctx, selectOrder+" WHERE user_id = ? AND status = ?", userID, models.OrderOpen))
}

// createOrder opens a fresh basket for the user, binding their default
// shipping address when one exists.
func createOrder(ctx context.Context, q querier, userID int64) (*models.Order, error) {
	var addressID *int64
	var defaultID int64
	err := q.QueryRowContext(ctx,
		"SELECT id FROM addresses WHERE user_id = ? AND is_default = ?", userID, true).Scan(&defaultID)
	switch {
	case err == nil:
		addressID = &defaultID
	case errors.Is(err, sql.ErrNoRows):
		// No default address yet, checkout will ask for one.
	default:
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		UserID:    userID,
		Reference: uuid.NewString(),
		AddressID: addressID,
		Status:    models.OrderOpen,
		Total:     decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO orders (user_id, reference, address_id, shipping_method, status, order_total, created_at, updated_at)
		VALUES (?, ?, ?, NULL, ?, ?, ?, ?)`,
		order.UserID, order.Reference, order.AddressID, order.Status, order.Total, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	order.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return order, nil
}

// getOpenLine loads a line together with its order, scoped to the owning
// user and to open orders only. Lines of placed orders (and other users'
// lines) read as ErrNotFound.
func getOpenLine(ctx context.Context, q querier, userID, lineID int64) (*models.OrderLine, error) {
	var l models.OrderLine
	err := q.QueryRowContext(ctx, `
		SELECT ol.id, ol.order_id, ol.product_id, ol.size, ol.quantity, ol.created_at
		FROM order_lines ol
		JOIN orders o ON ol.order_id = o.id
		WHERE ol.id = ? AND o.user_id = ? AND o.status = ?`,
		lineID, userID, models.OrderOpen).Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Size, &l.Quantity, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// recomputeTotal sums quantity x current catalog price over the order's
// lines and persists the result. A later price change therefore shifts the
// total of a still-open basket.
func recomputeTotal(ctx context.Context, q querier, orderID int64) error {
	rows, err := q.QueryContext(ctx, `
		SELECT ol.quantity, p.price
		FROM order_lines ol
		JOIN products p ON ol.product_id = p.id
		WHERE ol.order_id = ?`, orderID)
	if err != nil {
		return err
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var quantity int
		var price decimal.Decimal
		if err := rows.Scan(&quantity, &price); err != nil {
			return err
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(quantity))))
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = q.ExecContext(ctx,
		"UPDATE orders SET order_total = ?, updated_at = ? WHERE id = ?",
		total, time.Now(), orderID)
	return err
}

func scanOrder(row *sql.Row) (*models.Order, error) {
	var o models.Order
	var addressID sql.NullInt64
	var shipping sql.NullString
	err := row.Scan(&o.ID, &o.UserID, &o.Reference, &addressID, &shipping, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if addressID.Valid {
		o.AddressID = &addressID.Int64
	}
	if shipping.Valid {
		o.ShippingMethod = &shipping.String
	}
	return &o, nil
}

func scanOrderRows(rows *sql.Rows) (*models.Order, error) {
	var o models.Order
	var addressID sql.NullInt64
	var shipping sql.NullString
	if err := rows.Scan(&o.ID, &o.UserID, &o.Reference, &addressID, &shipping, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if addressID.Valid {
		o.AddressID = &addressID.Int64
	}
	if shipping.Valid {
		o.ShippingMethod = &shipping.String
	}
	return &o, nil
}
