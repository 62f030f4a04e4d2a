package domain

import (
	"github.com/Ah-Riz/mythra-program/internal/errors"
)

// MaxOrderIDLength bounds caller-supplied order identifiers.
const MaxOrderIDLength = 64

// Order is an immutable purchase receipt keyed by (buyer, order_id).
type Order struct {
	Address    Address
	Buyer      Address
	Event      Address
	Tier       Address
	Mint       Address
	OrderID    string
	AmountPaid uint64
	Timestamp  int64
}

// NewOrder builds a purchase receipt.
func NewOrder(buyer, event, tier, mint Address, orderID string, amountPaid uint64, nowUnix int64) (Order, error) {
	if len(orderID) > MaxOrderIDLength {
		return Order{}, errors.Newf(errors.CodeOrderIDTooLong, "order id is %d chars, max %d", len(orderID), MaxOrderIDLength)
	}
	return Order{
		Address:    OrderAddress(buyer, orderID),
		Buyer:      buyer,
		Event:      event,
		Tier:       tier,
		Mint:       mint,
		OrderID:    orderID,
		AmountPaid: amountPaid,
		Timestamp:  nowUnix,
	}, nil
}
