package dto

import "time"

type TransitionStatusRequest struct {
	Status string `json:"status"`
}

type OrderStatusResponse struct {
	TraceID         string    `json:"traceId"`
	OrderID         string    `json:"orderId"`
	Status          string    `json:"status"`
	StorageLocation string    `json:"storageLocation,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}
