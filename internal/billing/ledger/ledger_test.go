package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"entrepot/internal/domain"
)

func order(price, commission, shipping, paid, fee float64, prepaid bool) domain.Order {
	return domain.Order{
		ID:                 "o-1",
		Status:             domain.StatusStored,
		PriceMRU:           price,
		Commission:         commission,
		ShippingCost:       shipping,
		AmountPaid:         paid,
		LocalDeliveryCost:  fee,
		DeliveryFeePrepaid: prepaid,
	}
}

func TestBaseDebt(t *testing.T) {
	o := order(1000, 100, 200, 500, 150, false)
	assert.Equal(t, 800.0, BaseDebt(o))
}

func TestBaseDebt_ClampedAtZero(t *testing.T) {
	o := order(1000, 100, 200, 5000, 0, false)
	assert.Equal(t, 0.0, BaseDebt(o))
}

func TestBaseDebt_AllZero(t *testing.T) {
	assert.Equal(t, 0.0, BaseDebt(domain.Order{}))
	assert.Equal(t, 0.0, CashToCollect(domain.Order{}))
	assert.Equal(t, 0.0, GrandTotal(domain.Order{}))
}

func TestCashToCollect(t *testing.T) {
	o := order(1000, 100, 200, 500, 150, false)
	assert.Equal(t, 950.0, CashToCollect(o))
}

func TestCashToCollect_PrepaidExcludesFee(t *testing.T) {
	o := order(1000, 100, 200, 500, 150, true)
	assert.Equal(t, 800.0, CashToCollect(o))
	assert.Equal(t, BaseDebt(o), CashToCollect(o))

	// prepaid exclusion holds for any fee value
	o.LocalDeliveryCost = 99999
	assert.Equal(t, BaseDebt(o), CashToCollect(o))
}

func TestCashToCollect_Idempotent(t *testing.T) {
	o := order(1234, 56, 789, 300, 150, false)
	assert.Equal(t, CashToCollect(o), CashToCollect(o))
}

func TestCashToCollect_MonotonicInAmountPaid(t *testing.T) {
	prev := CashToCollect(order(1000, 100, 200, 0, 150, false))
	for paid := 100.0; paid <= 1600; paid += 100 {
		cur := CashToCollect(order(1000, 100, 200, paid, 150, false))
		assert.LessOrEqual(t, cur, prev, "paid=%v", paid)
		prev = cur
	}
}

func TestBaseDebt_RoundsComponents(t *testing.T) {
	o := order(999.6, 100.2, 199.4, 500.5, 0, false)
	// round(999.6+100.2)=1100, round(199.4)=199, round(500.5)=501
	assert.Equal(t, 798.0, BaseDebt(o))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		o    domain.Order
		want PaymentState
	}{
		{"fully paid", order(1000, 0, 0, 1000, 0, false), PaymentPaid},
		{"overpaid", order(1000, 0, 0, 1500, 0, false), PaymentPaid},
		{"partial", order(1000, 0, 0, 400, 0, false), PaymentPartial},
		{"unpaid", order(1000, 0, 0, 0, 0, false), PaymentUnpaid},
		{"zero total zero paid", order(0, 0, 0, 0, 0, false), PaymentUnpaid},
		{"fee counts toward total", order(1000, 0, 0, 1000, 150, false), PaymentPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.o))
		})
	}
}

func TestAllocate(t *testing.T) {
	orders := []domain.Order{
		{ID: "a", PriceMRU: 600},
		{ID: "b", PriceMRU: 300},
		{ID: "c", PriceMRU: 500},
	}

	allocations, leftover := Allocate(1000, orders)

	assert.Len(t, allocations, 3)
	assert.Equal(t, 600.0, allocations[0].Allocated)
	assert.Equal(t, 300.0, allocations[1].Allocated)
	assert.Equal(t, 100.0, allocations[2].Allocated)
	assert.Equal(t, 0.0, leftover)

	// third order keeps its shortfall, not flagged as an error
	assert.Equal(t, 500.0, allocations[2].Due)
	assert.Equal(t, 100.0, allocations[2].NewAmountPaid)
}

func TestAllocate_LeftoverReported(t *testing.T) {
	orders := []domain.Order{{ID: "a", PriceMRU: 600}}

	allocations, leftover := Allocate(1000, orders)

	assert.Equal(t, 600.0, allocations[0].Allocated)
	assert.Equal(t, 400.0, leftover)
}

func TestAllocate_RespectsPriorPayments(t *testing.T) {
	orders := []domain.Order{
		{ID: "a", PriceMRU: 600, AmountPaid: 200},
		{ID: "b", PriceMRU: 300, AmountPaid: 300},
	}

	allocations, leftover := Allocate(500, orders)

	assert.Equal(t, 400.0, allocations[0].Allocated)
	assert.Equal(t, 600.0, allocations[0].NewAmountPaid)
	assert.Equal(t, 0.0, allocations[1].Due)
	assert.Equal(t, 0.0, allocations[1].Allocated)
	assert.Equal(t, 100.0, leftover)
}

func TestAllocate_IncludesDeliveryFeeInDue(t *testing.T) {
	orders := []domain.Order{{ID: "a", PriceMRU: 600, LocalDeliveryCost: 150}}

	allocations, _ := Allocate(1000, orders)

	assert.Equal(t, 750.0, allocations[0].Due)
}

func TestSettle(t *testing.T) {
	completed := func(o domain.Order) domain.Order {
		o.Status = domain.StatusCompleted
		return o
	}
	orders := []domain.Order{
		completed(order(700, 0, 0, 0, 100, true)),
		completed(order(300, 0, 0, 100, 50, false)),
	}

	s := Settle(orders)

	assert.Equal(t, 900.0, s.BaseDebtCollected)
	assert.Equal(t, 50.0, s.DeliveryFeesFromClients)
	assert.Equal(t, 150.0, s.DriverEarnings)
	assert.Equal(t, 950.0, s.CashInHand)
	assert.Equal(t, 800.0, s.Net)
	assert.True(t, s.DriverOwesOffice())
	assert.Equal(t, 800.0, s.AmountOwed())
	assert.Equal(t, 2, s.OrdersSettled)
}

func TestSettle_OfficeOwesDriver(t *testing.T) {
	o := order(0, 0, 0, 0, 200, true)
	o.Status = domain.StatusCompleted

	s := Settle([]domain.Order{o})

	assert.Equal(t, -200.0, s.Net)
	assert.False(t, s.DriverOwesOffice())
	assert.Equal(t, 200.0, s.AmountOwed())
}

func TestSettle_ExcludesNonCompleted(t *testing.T) {
	stillOut := order(500, 0, 0, 0, 100, false)
	stillOut.Status = domain.StatusOutForDelivery
	returned := order(400, 0, 0, 0, 100, false)
	returned.Status = domain.StatusStored
	done := order(300, 0, 0, 0, 50, false)
	done.Status = domain.StatusCompleted

	s := Settle([]domain.Order{stillOut, returned, done})

	assert.Equal(t, 300.0, s.BaseDebtCollected)
	assert.Equal(t, 50.0, s.DriverEarnings)
	assert.Equal(t, 1, s.OrdersSettled)
}

func TestSettle_Conservation(t *testing.T) {
	orders := []domain.Order{}
	for i := 0; i < 20; i++ {
		o := order(float64(100*i), float64(10*i), float64(5*i), float64(30*i), float64(25*i), i%2 == 0)
		o.Status = domain.StatusCompleted
		orders = append(orders, o)
	}

	s := Settle(orders)

	assert.Equal(t, s.Net, s.CashInHand-s.DriverEarnings)
	assert.Equal(t, s.CashInHand, s.BaseDebtCollected+s.DeliveryFeesFromClients)
}

func TestSettle_Empty(t *testing.T) {
	s := Settle(nil)
	assert.Equal(t, 0.0, s.Net)
	assert.True(t, s.DriverOwesOffice())
	assert.Equal(t, 0, s.OrdersSettled)
}
