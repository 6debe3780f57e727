package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativesins/shop-api/internal/models"
)

// fakeGateway records what checkout asked it to charge.
type fakeGateway struct {
	failCustomer bool
	failCharge   bool

	customerEmail string
	cardToken     string
	amountMinor   int64
	currency      string
}

func (g *fakeGateway) CreateCustomer(ctx context.Context, email, cardToken string) (string, error) {
	if g.failCustomer {
		return "", errors.New("card declined")
	}
	g.customerEmail = email
	g.cardToken = cardToken
	return "cus_test", nil
}

func (g *fakeGateway) Charge(ctx context.Context, customerID string, amountMinor int64, currency, description string) (string, error) {
	if g.failCharge {
		return "", errors.New("charge declined")
	}
	g.amountMinor = amountMinor
	g.currency = currency
	return "ch_test", nil
}

type fakeMailer struct {
	toEmail   string
	reference string
	total     decimal.Decimal
	err       error
}

func (m *fakeMailer) SendOrderConfirmation(toEmail, reference string, grandTotal decimal.Decimal) error {
	m.toEmail = toEmail
	m.reference = reference
	m.total = grandTotal
	return m.err
}

func checkoutFixture(t *testing.T) (*Checkout, *OrderEngine, *fakeGateway, *fakeMailer, *models.User) {
	t.Helper()
	db := newTestDB(t)
	engine := &OrderEngine{DB: db}
	accounts := &AccountStore{DB: db}
	gateway := &fakeGateway{}
	mailer := &fakeMailer{}
	checkout := &Checkout{DB: db, Orders: engine, Accounts: accounts, Gateway: gateway, Mailer: mailer}
	user := seedUser(t, db, "joe@example.com")
	return checkout, engine, gateway, mailer, user
}

func TestCheckoutPreconditions(t *testing.T) {
	checkout, engine, _, _, user := checkoutFixture(t)
	db := checkout.DB
	ctx := context.Background()

	// No open order at all.
	_, err := checkout.Preconditions(ctx, user.ID)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	tee := seedProduct(t, db, tshirtParams("Skull Logo Tee"))
	order, err := engine.AddOrUpdateLine(ctx, user.ID, tee.ID, 1, models.SizeSmall)
	require.NoError(t, err)

	// Lines but no shipping address.
	got, err := checkout.Preconditions(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNoAddress)
	require.NotNil(t, got)
	assert.Equal(t, order.ID, got.ID)

	address := seedAddress(t, db, user.ID)
	require.NoError(t, engine.BindAddress(ctx, user.ID, order.ID, address.ID))

	ready, err := checkout.Preconditions(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, ready.ID)

	// An open order whose lines were all removed is empty again.
	lines, err := engine.Lines(ctx, user.ID, order.ID)
	require.NoError(t, err)
	require.NoError(t, engine.RemoveLine(ctx, user.ID, lines[0].ID))
	_, err = checkout.Preconditions(ctx, user.ID)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestResumeTokenIsOneShot(t *testing.T) {
	checkout, _, _, _, user := checkoutFixture(t)
	ctx := context.Background()

	token, err := checkout.IssueResumeToken(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, checkout.ConsumeResumeToken(ctx, user.ID, token))
	assert.ErrorIs(t, checkout.ConsumeResumeToken(ctx, user.ID, token), ErrNotFound)
}

func TestResumeTokenIsUserBound(t *testing.T) {
	checkout, _, _, _, user := checkoutFixture(t)
	ctx := context.Background()

	stranger := seedUser(t, checkout.DB, "stranger@example.com")

	token, err := checkout.IssueResumeToken(ctx, user.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, checkout.ConsumeResumeToken(ctx, stranger.ID, token), ErrNotFound)
	// Still usable by its owner afterwards.
	require.NoError(t, checkout.ConsumeResumeToken(ctx, user.ID, token))
}

func TestGrandTotalAddsShipping(t *testing.T) {
	standard := "standard"
	order := &models.Order{Total: decimal.RequireFromString("20.00")}

	requireDecimalEqual(t, "20.00", GrandTotal(order))

	order.ShippingMethod = &standard
	requireDecimalEqual(t, "22.00", GrandTotal(order))

	express := "express"
	order.ShippingMethod = &express
	requireDecimalEqual(t, "24.50", GrandTotal(order))
}

func TestPlaceOrderChargesMinorUnits(t *testing.T) {
	checkout, engine, gateway, mailer, user := checkoutFixture(t)
	db := checkout.DB
	ctx := context.Background()

	tee := seedProduct(t, db, tshirtParams("Skull Logo Tee")) // 20.00
	address := seedAddress(t, db, user.ID)

	order, err := engine.AddOrUpdateLine(ctx, user.ID, tee.ID, 1, models.SizeSmall)
	require.NoError(t, err)
	require.NoError(t, engine.BindAddress(ctx, user.ID, order.ID, address.ID))
	require.NoError(t, engine.SetShippingMethod(ctx, user.ID, order.ID, "standard"))

	placed, err := checkout.PlaceOrder(ctx, user.ID, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPlaced, placed.Status)

	// 20.00 + 2.00 shipping, in pence, exactly.
	assert.Equal(t, int64(2200), gateway.amountMinor)
	assert.Equal(t, "gbp", gateway.currency)
	assert.Equal(t, "joe@example.com", gateway.customerEmail)
	assert.Equal(t, "tok_visa", gateway.cardToken)

	// Confirmation went to the buyer with the charged total.
	assert.Equal(t, "joe@example.com", mailer.toEmail)
	assert.Equal(t, placed.Reference, mailer.reference)
	requireDecimalEqual(t, "22.00", mailer.total)

	// The basket is gone; a new add opens a fresh order.
	_, err = engine.FindCurrentOrder(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceOrderGatewayFailureLeavesOrderOpen(t *testing.T) {
	checkout, engine, gateway, _, user := checkoutFixture(t)
	db := checkout.DB
	catalog := &CatalogStore{DB: db}
	ctx := context.Background()

	tee := seedProduct(t, db, tshirtParams("Skull Logo Tee"))
	address := seedAddress(t, db, user.ID)

	order, err := engine.AddOrUpdateLine(ctx, user.ID, tee.ID, 2, models.SizeSmall)
	require.NoError(t, err)
	require.NoError(t, engine.BindAddress(ctx, user.ID, order.ID, address.ID))

	gateway.failCharge = true
	_, err = checkout.PlaceOrder(ctx, user.ID, "tok_visa")
	assert.ErrorIs(t, err, ErrPaymentFailed)

	// The order is still the user's open basket and stock is unchanged.
	still, err := engine.FindCurrentOrder(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, still.ID)
	assert.Equal(t, models.OrderOpen, still.Status)

	reloaded, err := catalog.GetProduct(ctx, tee.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.SmallStock)

	// The user can retry once the gateway recovers.
	gateway.failCharge = false
	placed, err := checkout.PlaceOrder(ctx, user.ID, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPlaced, placed.Status)
}

func TestPlaceOrderWithoutAddress(t *testing.T) {
	checkout, engine, gateway, _, user := checkoutFixture(t)
	ctx := context.Background()

	tee := seedProduct(t, checkout.DB, tshirtParams("Skull Logo Tee"))
	_, err := engine.AddOrUpdateLine(ctx, user.ID, tee.ID, 1, models.SizeSmall)
	require.NoError(t, err)

	_, err = checkout.PlaceOrder(ctx, user.ID, "tok_visa")
	assert.ErrorIs(t, err, ErrNoAddress)
	// The gateway was never touched.
	assert.Empty(t, gateway.cardToken)
}

func TestPlaceOrderMailFailureDoesNotBlock(t *testing.T) {
	checkout, engine, _, mailer, user := checkoutFixture(t)
	ctx := context.Background()

	tee := seedProduct(t, checkout.DB, tshirtParams("Skull Logo Tee"))
	address := seedAddress(t, checkout.DB, user.ID)

	order, err := engine.AddOrUpdateLine(ctx, user.ID, tee.ID, 1, models.SizeSmall)
	require.NoError(t, err)
	require.NoError(t, engine.BindAddress(ctx, user.ID, order.ID, address.ID))

	mailer.err = errors.New("smtp down")
	placed, err := checkout.PlaceOrder(ctx, user.ID, "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPlaced, placed.Status)
}
