package dto

import "time"

type CollectionResponse struct {
	TraceID       string    `json:"traceId"`
	OrderID       string    `json:"orderId"`
	BaseDebt      float64   `json:"baseDebt"`
	DeliveryFee   float64   `json:"deliveryFee"`
	GrandTotal    float64   `json:"grandTotal"`
	CashToCollect float64   `json:"cashToCollect"`
	PaymentState  string    `json:"paymentState"`
	Timestamp     time.Time `json:"timestamp"`
}

type BulkPaymentRequest struct {
	Pool     float64  `json:"pool"`
	OrderIDs []string `json:"orderIds"`
}

type AllocationDTO struct {
	OrderID       string  `json:"orderId"`
	Due           float64 `json:"due"`
	Allocated     float64 `json:"allocated"`
	NewAmountPaid float64 `json:"newAmountPaid"`
}

type BulkPaymentResponse struct {
	TraceID     string          `json:"traceId"`
	PaymentID   string          `json:"paymentId"`
	Allocations []AllocationDTO `json:"allocations"`
	Leftover    float64         `json:"leftover"`
	Timestamp   time.Time       `json:"timestamp"`
}

const (
	DirectionDriverOwesOffice = "driver_owes_office"
	DirectionOfficeOwesDriver = "office_owes_driver"
)

type SettlementResponse struct {
	TraceID                 string    `json:"traceId"`
	RunID                   string    `json:"runId"`
	BaseDebtCollected       float64   `json:"baseDebtCollected"`
	DeliveryFeesFromClients float64   `json:"deliveryFeesFromClients"`
	DriverEarnings          float64   `json:"driverEarnings"`
	CashInHand              float64   `json:"cashInHand"`
	NetTotal                float64   `json:"netTotal"`
	Direction               string    `json:"direction"`
	AmountOwed              float64   `json:"amountOwed"`
	OrdersSettled           int       `json:"ordersSettled"`
	Timestamp               time.Time `json:"timestamp"`
}
