package service

import (
	"context"
	"testing"
	"time"

	"contest-entry/internal/domain"
	"contest-entry/internal/infrastructure/payment"
	"contest-entry/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateOrderUsesFixedFee(t *testing.T) {
	gw := payment.NewMockGateway(testSecret)
	m := metrics.New(prometheus.NewRegistry())
	svc := NewOrderService(gw, "rzp_test_key", m, zap.NewNop()).(*orderService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }

	order, err := svc.CreateOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &CheckoutOrder{
		OrderID:   "order_1",
		Amount:    10000,
		Currency:  "INR",
		ClientKey: "rzp_test_key",
	}, order)
	assert.Equal(t, 1, gw.Orders())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("created")))
}

func TestCreateOrderSendsReceipt(t *testing.T) {
	var got string
	gw := gatewayFunc(func(_ context.Context, amount int64, currency, receipt string) (*domain.Order, error) {
		got = receipt
		return &domain.Order{ID: "order_x", Amount: amount, Currency: currency, Receipt: receipt}, nil
	})
	svc := NewOrderService(gw, "k", metrics.New(prometheus.NewRegistry()), zap.NewNop()).(*orderService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }

	_, err := svc.CreateOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "receipt_order_1700000000123", got)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	gw := payment.NewMockGateway(testSecret)
	gw.FailWith = errBoom
	m := metrics.New(prometheus.NewRegistry())

	order, err := NewOrderService(gw, "k", m, zap.NewNop()).CreateOrder(context.Background())
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("error")))
}

type gatewayFunc func(ctx context.Context, amount int64, currency, receipt string) (*domain.Order, error)

func (f gatewayFunc) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.Order, error) {
	return f(ctx, amount, currency, receipt)
}
