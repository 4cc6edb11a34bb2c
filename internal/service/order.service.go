package service

import (
	"context"
	"fmt"
	"time"

	"contest-entry/internal/domain"
	"contest-entry/internal/infrastructure/payment"
	"contest-entry/internal/metrics"

	"go.uber.org/zap"
)

// CheckoutOrder is what the client needs to open the gateway checkout.
type CheckoutOrder struct {
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	ClientKey string `json:"keyId"`
}

type OrderService interface {
	CreateOrder(ctx context.Context) (*CheckoutOrder, error)
}

type orderService struct {
	paymentGtw payment.Gateway
	keyID      string
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

func NewOrderService(
	paymentGtw payment.Gateway,
	keyID string,
	m *metrics.Metrics,
	log *zap.Logger,
) OrderService {
	return &orderService{
		paymentGtw: paymentGtw,
		keyID:      keyID,
		metrics:    m,
		log:        log,
		now:        time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context) (*CheckoutOrder, error) {
	receipt := fmt.Sprintf("receipt_order_%d", s.now().UnixMilli())

	order, err := s.paymentGtw.CreateOrder(ctx, domain.EntryFeeAmount, domain.EntryFeeCurrency, receipt)
	if err != nil {
		s.metrics.Orders.WithLabelValues("error").Inc()
		s.log.Error("create payment order failed", zap.String("receipt", receipt), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}

	s.metrics.Orders.WithLabelValues("created").Inc()
	s.log.Info("payment order created",
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.Amount),
		zap.String("currency", order.Currency),
	)
	return &CheckoutOrder{
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		ClientKey: s.keyID,
	}, nil
}
