package dto

import "time"

type SuggestSlotResponse struct {
	TraceID   string    `json:"traceId"`
	OrderID   string    `json:"orderId"`
	Location  string    `json:"location,omitempty"`
	Score     int       `json:"score"`
	Reasons   []string  `json:"reasons"`
	Timestamp time.Time `json:"timestamp"`
}

type AssignSlotRequest struct {
	// Location pins an explicit slot or the "Floor" pseudo-location.
	// Empty means: commit whatever the advisor recommends.
	Location string `json:"location,omitempty"`
}

type AssignSlotResponse struct {
	TraceID   string    `json:"traceId"`
	OrderID   string    `json:"orderId"`
	Location  string    `json:"location"`
	Score     int       `json:"score"`
	Reasons   []string  `json:"reasons"`
	Attempts  int       `json:"attempts"`
	Timestamp time.Time `json:"timestamp"`
}
