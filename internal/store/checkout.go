package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nativesins/shop-api/internal/models"
	"github.com/nativesins/shop-api/internal/payment"
)

// Mailer sends the post-payment confirmation. Failures are logged, never
// surfaced: a sent parcel beats a bounced email.
type Mailer interface {
	SendOrderConfirmation(toEmail, reference string, grandTotal decimal.Decimal) error
}

// Checkout finalises open orders: precondition checks, the one-shot
// "resume checkout after adding an address" token, and payment capture.
type Checkout struct {
	DB       *sql.DB
	Orders   *OrderEngine
	Accounts *AccountStore
	Gateway  payment.Gateway
	Mailer   Mailer
}

// Preconditions returns the user's open order when it is ready for payment.
// No open order or no lines reports ErrEmptyOrder; a missing shipping
// address reports ErrNoAddress so the caller can divert to the address flow.
func (c *Checkout) Preconditions(ctx context.Context, userID int64) (*models.Order, error) {
	order, err := c.Orders.FindCurrentOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrEmptyOrder
		}
		return nil, err
	}

	var lines int
	if err := c.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM order_lines WHERE order_id = ?", order.ID).Scan(&lines); err != nil {
		return nil, err
	}
	if lines == 0 {
		return nil, ErrEmptyOrder
	}
	if order.AddressID == nil {
		return order, ErrNoAddress
	}
	return order, nil
}

// IssueResumeToken mints a one-shot marker meaning "return to checkout
// after this step" for the user.
func (c *Checkout) IssueResumeToken(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	_, err := c.DB.ExecContext(ctx,
		"INSERT INTO checkout_resume_tokens (token, user_id, created_at) VALUES (?, ?, ?)",
		token, userID, time.Now())
	if err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeResumeToken reads and clears a resume token in one shot. A token
// can be consumed exactly once and only by the user it was issued to.
func (c *Checkout) ConsumeResumeToken(ctx context.Context, userID int64, token string) error {
	result, err := c.DB.ExecContext(ctx,
		"DELETE FROM checkout_resume_tokens WHERE token = ? AND user_id = ?", token, userID)
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

// GrandTotal is order_total plus the cost of the chosen shipping option.
// An order with no shipping method selected ships free of charge.
func GrandTotal(order *models.Order) decimal.Decimal {
	total := order.Total
	if order.ShippingMethod != nil {
		if opt, ok := models.ShippingOptionByCode(*order.ShippingMethod); ok {
			total = total.Add(opt.Cost)
		}
	}
	return total
}

// PlaceOrder charges the card token for the order's grand total and flips
// the order from open to placed.
//
// The gateway is charged in minor units: the grand total in pounds times
// 100, computed with decimal arithmetic so 20.00 + 2.00 always becomes
// exactly 2200. A gateway failure comes back wrapped in ErrPaymentFailed
// with the order still open and stock untouched, so the user may retry.
func (c *Checkout) PlaceOrder(ctx context.Context, userID int64, cardToken string) (*models.Order, error) {
	order, err := c.Preconditions(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := c.Accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	grand := GrandTotal(order)
	amountMinor := grand.Mul(decimal.NewFromInt(100)).IntPart()

	customerID, err := c.Gateway.CreateCustomer(ctx, user.Email, cardToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if _, err := c.Gateway.Charge(ctx, customerID, amountMinor, "gbp", "Native Sins order "+order.Reference); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	result, err := c.DB.ExecContext(ctx,
		"UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		models.OrderPlaced, time.Now(), order.ID, models.OrderOpen)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	if c.Mailer != nil {
		if err := c.Mailer.SendOrderConfirmation(user.Email, order.Reference, grand); err != nil {
			log.Printf("order %s: confirmation email failed: %v", order.Reference, err)
		}
	}

	return c.Orders.GetOrder(ctx, userID, order.ID)
}
