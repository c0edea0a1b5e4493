package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chairup/chairup-backend/internal/eventbus"
	"github.com/chairup/chairup-backend/internal/product"
	"github.com/chairup/chairup-backend/internal/promotion"
)

func newTestService(t *testing.T, seed []product.Product) (*Service, *product.InMemoryRepository) {
	t.Helper()
	products := product.NewInMemoryRepository(seed)
	promos := promotion.NewService(promotion.NewInMemoryRepository([]promotion.Promotion{
		{
			ID:              1,
			Code:            "SAVE10",
			DiscountPercent: 10,
			ExpiryDate:      time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		},
	}))
	svc := NewService(NewInMemoryRepository(products), promos, eventbus.NoopPublisher{}, 10)
	return svc, products
}

func testInput(items ...OrderItem) CreateInput {
	return CreateInput{
		Items: items,
		ShippingAddress: ShippingAddress{
			Address:    "12 Elm St",
			City:       "Springfield",
			PostalCode: "62704",
			Country:    "US",
		},
		PhoneNumber: "555-0101",
	}
}

func TestCreate_ReservesStockAndComputesPrices(t *testing.T) {
	svc, products := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 120.50, StockQuantity: 5},
		{ID: 2, Name: "Stool", Price: 19.99, StockQuantity: 2},
	})

	ord, err := svc.Create(7, testInput(
		OrderItem{ProductID: 1, Quantity: 2},
		OrderItem{ProductID: 2, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, ord.Status)
	assert.Equal(t, PaymentCreditCard, ord.PaymentMethod)
	assert.Equal(t, 260.99, ord.ItemsPrice)
	assert.Equal(t, 10.0, ord.ShippingPrice)
	assert.Equal(t, 270.99, ord.TotalPrice)
	assert.Equal(t, "Aeron", ord.Items[0].Name)
	assert.Equal(t, 120.50, ord.Items[0].UnitPrice)

	p1, _ := products.GetByID(1)
	p2, _ := products.GetByID(2)
	assert.Equal(t, 3, p1.StockQuantity)
	assert.Equal(t, 1, p2.StockQuantity)
}

func TestCreate_AppliesPromotionDiscount(t *testing.T) {
	svc, _ := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
	})

	in := testInput(OrderItem{ProductID: 1, Quantity: 1})
	in.PromoCode = "SAVE10"

	ord, err := svc.Create(7, in)
	require.NoError(t, err)
	assert.Equal(t, 100.0, ord.ItemsPrice)
	assert.Equal(t, 10.0, ord.Discount)
	assert.Equal(t, 100.0, ord.TotalPrice) // 100 + 10 shipping - 10 discount
}

func TestCreate_InsufficientStockIsAllOrNothing(t *testing.T) {
	svc, products := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
		{ID: 2, Name: "Stool", Price: 20, StockQuantity: 3},
	})

	// Second line asks for more than is available, so the first line's
	// reservation must be rolled back.
	_, err := svc.Create(7, testInput(
		OrderItem{ProductID: 1, Quantity: 2},
		OrderItem{ProductID: 2, Quantity: 4},
	))
	require.Error(t, err)

	stockErr, ok := err.(*product.InsufficientStockError)
	require.True(t, ok, "expected *product.InsufficientStockError, got %T", err)
	assert.Equal(t, 2, stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Available)

	p1, _ := products.GetByID(1)
	p2, _ := products.GetByID(2)
	assert.Equal(t, 5, p1.StockQuantity)
	assert.Equal(t, 3, p2.StockQuantity)
}

func TestCreate_ExactStockSucceedsThenBlocks(t *testing.T) {
	svc, products := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 3},
	})

	_, err := svc.Create(7, testInput(OrderItem{ProductID: 1, Quantity: 3}))
	require.NoError(t, err)

	p, _ := products.GetByID(1)
	assert.Equal(t, 0, p.StockQuantity)

	_, err = svc.Create(8, testInput(OrderItem{ProductID: 1, Quantity: 1}))
	require.Error(t, err)
	stockErr, ok := err.(*product.InsufficientStockError)
	require.True(t, ok)
	assert.Equal(t, 0, stockErr.Available)
}

func TestCreate_UnknownProduct(t *testing.T) {
	svc, _ := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
	})

	_, err := svc.Create(7, testInput(OrderItem{ProductID: 99, Quantity: 1}))
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
	})

	_, err := svc.Create(7, testInput())
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.Create(7, testInput(OrderItem{ProductID: 1, Quantity: 0}))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	in := testInput(OrderItem{ProductID: 1, Quantity: 1})
	in.PaymentMethod = "barter"
	_, err = svc.Create(7, in)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestCancel_RestocksExactlyOnce(t *testing.T) {
	svc, products := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
	})

	ord, err := svc.Create(7, testInput(OrderItem{ProductID: 1, Quantity: 2}))
	require.NoError(t, err)

	p, _ := products.GetByID(1)
	require.Equal(t, 3, p.StockQuantity)

	cancelled, err := svc.Cancel(ord.ID, 7, false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	p, _ = products.GetByID(1)
	assert.Equal(t, 5, p.StockQuantity)

	// A second cancellation finds the order already cancelled and must
	// not restock again.
	_, err = svc.Cancel(ord.ID, 7, false)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	p, _ = products.GetByID(1)
	assert.Equal(t, 5, p.StockQuantity)
}

func TestUpdateStatus_OwnerMayOnlyCancel(t *testing.T) {
	svc, _ := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
	})

	ord, err := svc.Create(7, testInput(OrderItem{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ord.ID, 7, false, StatusShipped)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateStatus(ord.ID, 99, false, StatusCancelled)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatus_ForwardOnly(t *testing.T) {
	svc, products := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
	})

	ord, err := svc.Create(7, testInput(OrderItem{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)

	shipped, err := svc.UpdateStatus(ord.ID, 1, true, StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, shipped.Status)

	// No way back, and no cancellation once shipped.
	_, err = svc.UpdateStatus(ord.ID, 1, true, StatusProcessing)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.UpdateStatus(ord.ID, 1, true, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Cancelling a shipped order is rejected, so its stock stays
	// reserved.
	p, _ := products.GetByID(1)
	assert.Equal(t, 4, p.StockQuantity)

	delivered, err := svc.UpdateStatus(ord.ID, 1, true, StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	_, err = svc.UpdateStatus(ord.ID, 1, true, StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_RejectsUnknownTarget(t *testing.T) {
	svc, _ := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
	})

	ord, err := svc.Create(7, testInput(OrderItem{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ord.ID, 1, true, "pending")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = svc.UpdateStatus(ord.ID, 1, true, "returned")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetByID_Authorization(t *testing.T) {
	svc, _ := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
	})

	ord, err := svc.Create(7, testInput(OrderItem{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.GetByID(ord.ID, 7, false)
	assert.NoError(t, err)

	_, err = svc.GetByID(ord.ID, 8, false)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.GetByID(ord.ID, 8, true)
	assert.NoError(t, err)
}

func TestHasPurchased_RequiresShippedOrDelivered(t *testing.T) {
	svc, _ := newTestService(t, []product.Product{
		{ID: 1, Name: "Aeron", Price: 100, StockQuantity: 5},
	})

	ord, err := svc.Create(7, testInput(OrderItem{ProductID: 1, Quantity: 1}))
	require.NoError(t, err)

	got, err := svc.HasPurchased(7, 1)
	require.NoError(t, err)
	assert.False(t, got, "pending order must not count as a purchase")

	_, err = svc.UpdateStatus(ord.ID, 1, true, StatusShipped)
	require.NoError(t, err)

	got, err = svc.HasPurchased(7, 1)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = svc.HasPurchased(8, 1)
	require.NoError(t, err)
	assert.False(t, got)
}
