package dto

import "time"

type LaunchRunResponse struct {
	TraceID   string    `json:"traceId"`
	RunID     string    `json:"runId"`
	Launched  int       `json:"launched"`
	OrderIDs  []string  `json:"orderIds"`
	Timestamp time.Time `json:"timestamp"`
}

type RunStatusResponse struct {
	TraceID   string    `json:"traceId"`
	RunID     string    `json:"runId"`
	Phase     string    `json:"phase"`
	Orders    int       `json:"orders"`
	Timestamp time.Time `json:"timestamp"`
}
