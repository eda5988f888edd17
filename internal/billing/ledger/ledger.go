// Package ledger computes what clients owe, what drivers collect, and how
// a driver's cash is reconciled at the end of a delivery run. Every
// function is a total, pure function of the orders it is given: missing
// financial data flows through as zero, and no input combination faults.
package ledger

import (
	"math"

	"entrepot/internal/domain"
	"entrepot/internal/money"
)

// PaymentState classifies an order for display and filtering.
type PaymentState string

const (
	PaymentPaid    PaymentState = "paid"
	PaymentPartial PaymentState = "partial"
	PaymentUnpaid  PaymentState = "unpaid"
)

// OrderBaseValue is product price plus commission plus international
// shipping, excluding the local delivery fee.
func OrderBaseValue(o domain.Order) float64 {
	productTotal := money.Round(o.PriceMRU + o.Commission)
	shippingTotal := money.Round(o.ShippingCost)
	return productTotal + shippingTotal
}

// BaseDebt is what the client still owes on the base value.
func BaseDebt(o domain.Order) float64 {
	return money.ClampNonNegative(OrderBaseValue(o) - money.Round(o.AmountPaid))
}

// DeliveryFee is the rounded last-mile fee.
func DeliveryFee(o domain.Order) float64 {
	return money.Round(o.LocalDeliveryCost)
}

// GrandTotal is the full cost of the order including the delivery fee.
func GrandTotal(o domain.Order) float64 {
	return OrderBaseValue(o) + DeliveryFee(o)
}

// CashToCollect is what the delivery driver must chase at the door. When
// the client already paid the delivery fee to the office, the driver only
// collects the base balance.
func CashToCollect(o domain.Order) float64 {
	if o.DeliveryFeePrepaid {
		return BaseDebt(o)
	}
	return BaseDebt(o) + DeliveryFee(o)
}

// Classify reports the payment state of an order against its grand total.
func Classify(o domain.Order) PaymentState {
	total := GrandTotal(o)
	paid := money.Round(o.AmountPaid)
	remaining := total - paid
	switch {
	case remaining <= 0 && total > 0:
		return PaymentPaid
	case paid > 0 && remaining > 0:
		return PaymentPartial
	default:
		return PaymentUnpaid
	}
}

// Allocation records how much of a payment pool went to one order.
type Allocation struct {
	OrderID       string
	Due           float64
	Allocated     float64
	NewAmountPaid float64
}

// Allocate spreads a single payment across orders in the sequence given:
// each order absorbs up to its outstanding due before the pool moves on.
// The unallocated remainder is returned so the caller can surface it; the
// ledger itself does not track refunds or credit.
func Allocate(pool float64, orders []domain.Order) ([]Allocation, float64) {
	remaining := money.ClampNonNegative(pool)
	allocations := make([]Allocation, 0, len(orders))
	for _, o := range orders {
		prior := money.Round(o.AmountPaid)
		due := money.ClampNonNegative(GrandTotal(o) - prior)
		allocated := math.Min(remaining, due)
		remaining -= allocated
		allocations = append(allocations, Allocation{
			OrderID:       o.ID,
			Due:           due,
			Allocated:     allocated,
			NewAmountPaid: prior + allocated,
		})
	}
	return allocations, remaining
}

// Settlement is the cash reconciliation for one driver's run.
type Settlement struct {
	BaseDebtCollected       float64
	DeliveryFeesFromClients float64
	DriverEarnings          float64
	CashInHand              float64
	Net                     float64
	OrdersSettled           int
}

// DriverOwesOffice reports the direction of the net transfer.
func (s Settlement) DriverOwesOffice() bool {
	return s.Net >= 0
}

// AmountOwed is the magnitude of the net transfer, whichever way it flows.
func (s Settlement) AmountOwed() float64 {
	return math.Abs(s.Net)
}

// Settle reconciles a delivery run. Only COMPLETED orders count: the
// driver collected their base debt plus any non-prepaid delivery fee, and
// earns the delivery fee of every completed order regardless of who paid
// it. Returned or still-outstanding orders are excluded and reconciled by
// putting them back into storage.
func Settle(orders []domain.Order) Settlement {
	var s Settlement
	for _, o := range orders {
		switch o.Status {
		case domain.StatusCompleted:
			s.BaseDebtCollected += BaseDebt(o)
			if !o.DeliveryFeePrepaid {
				s.DeliveryFeesFromClients += DeliveryFee(o)
			}
			s.DriverEarnings += DeliveryFee(o)
			s.OrdersSettled++
		case domain.StatusNew, domain.StatusOrdered, domain.StatusShippedFromStore,
			domain.StatusArrivedAtOffice, domain.StatusStored,
			domain.StatusOutForDelivery, domain.StatusCancelled:
			// excluded from the cash count
		}
	}
	s.CashInHand = s.BaseDebtCollected + s.DeliveryFeesFromClients
	s.Net = s.CashInHand - s.DriverEarnings
	return s
}
