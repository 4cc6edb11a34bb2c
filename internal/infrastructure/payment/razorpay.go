package payment

import (
	"context"
	"errors"
	"fmt"

	"contest-entry/internal/domain"

	razorpay "github.com/razorpay/razorpay-go"
)

type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type razorpayGateway struct {
	orders orderAPI
}

func NewRazorpayGateway(keyID, keySecret string) Gateway {
	client := razorpay.NewClient(keyID, keySecret)
	return &razorpayGateway{orders: client.Order}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	resp, err := g.orders.Create(map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}, nil)
	if err != nil {
		return nil, err
	}
	return orderFromResponse(resp)
}

func orderFromResponse(resp map[string]interface{}) (*domain.Order, error) {
	id, _ := resp["id"].(string)
	if id == "" {
		return nil, errors.New("gateway response has no order id")
	}
	order := &domain.Order{ID: id}
	order.Currency, _ = resp["currency"].(string)
	order.Receipt, _ = resp["receipt"].(string)

	switch v := resp["amount"].(type) {
	case float64:
		order.Amount = int64(v)
	case int64:
		order.Amount = v
	case int:
		order.Amount = int64(v)
	default:
		return nil, fmt.Errorf("gateway response amount has type %T", v)
	}
	return order, nil
}
