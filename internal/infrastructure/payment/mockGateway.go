package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"contest-entry/internal/domain"
)

type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.Order, error)
}

// MockGateway is an in-memory gateway used for local runs (PAYMENT_GATEWAY=mock)
// and tests. It issues sequential order ids and can simulate a checkout by
// signing a payment with the configured secret.
type MockGateway struct {
	mu     sync.RWMutex
	secret string
	seq    int
	orders map[string]*domain.Order

	// FailWith, when set, is returned from every CreateOrder call.
	FailWith error
}

func NewMockGateway(secret string) *MockGateway {
	return &MockGateway{secret: secret, orders: make(map[string]*domain.Order)}
}

func (g *MockGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.FailWith != nil {
		return nil, g.FailWith
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	order := &domain.Order{
		ID:       fmt.Sprintf("order_%d", g.seq),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}
	g.orders[order.ID] = order
	return order, nil
}

// Pay simulates a successful checkout for orderID and returns the payment id
// and signature the client would post back.
func (g *MockGateway) Pay(orderID string) (paymentID, signature string, err error) {
	g.mu.RLock()
	_, ok := g.orders[orderID]
	g.mu.RUnlock()
	if !ok {
		return "", "", errors.New("unknown order")
	}
	paymentID = fmt.Sprintf("pay_%d", rand.IntN(1e9))
	return paymentID, Sign(orderID, paymentID, g.secret), nil
}

func (g *MockGateway) Orders() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.orders)
}
