package domain

import (
	"errors"
	"time"
)

// OrderStatus is the closed set of lifecycle states an order moves through.
// The progression is strictly linear with two exits: CANCELLED from any
// non-terminal state, and OUT_FOR_DELIVERY back to STORED when a delivery
// is returned.
type OrderStatus string

const (
	StatusNew              OrderStatus = "NEW"
	StatusOrdered          OrderStatus = "ORDERED"
	StatusShippedFromStore OrderStatus = "SHIPPED_FROM_STORE"
	StatusArrivedAtOffice  OrderStatus = "ARRIVED_AT_OFFICE"
	StatusStored           OrderStatus = "STORED"
	StatusOutForDelivery   OrderStatus = "OUT_FOR_DELIVERY"
	StatusCompleted        OrderStatus = "COMPLETED"
	StatusCancelled        OrderStatus = "CANCELLED"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrWeightRequired    = errors.New("order weight must be recorded before dispatch or completion")
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusOrdered, StatusShippedFromStore, StatusArrivedAtOffice,
		StatusStored, StatusOutForDelivery, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() || next == s {
		return false
	}
	if next == StatusCancelled {
		return s != StatusCompleted && s != StatusCancelled
	}
	switch s {
	case StatusNew:
		return next == StatusOrdered
	case StatusOrdered:
		return next == StatusShippedFromStore
	case StatusShippedFromStore:
		return next == StatusArrivedAtOffice
	case StatusArrivedAtOffice:
		return next == StatusStored
	case StatusStored:
		return next == StatusOutForDelivery
	case StatusOutForDelivery:
		return next == StatusCompleted || next == StatusStored
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

type Order struct {
	ID                 string
	ClientID           string
	ShipmentID         *string
	StoreID            string
	Status             OrderStatus
	PriceMRU           float64
	Commission         float64
	ShippingCost       float64
	LocalDeliveryCost  float64
	AmountPaid         float64
	DeliveryFeePrepaid bool
	Weight             *float64
	StorageLocation    *string
	DeliveryRunID      *string
	DriverID           *string
	WithdrawalDate     *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (o Order) HasWeight() bool {
	return o.Weight != nil && *o.Weight > 0
}

// ValidateTransition checks both the lifecycle rules and the weight
// invariant: an order without a recorded weight may not be dispatched
// or completed.
func (o Order) ValidateTransition(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	if (next == StatusOutForDelivery || next == StatusCompleted) && !o.HasWeight() {
		return ErrWeightRequired
	}
	return nil
}
