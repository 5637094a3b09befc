package dto

import "encoding/json"

// ExecuteQueryRequest is what clients send to /api/execute-query.
type ExecuteQueryRequest struct {
	Query      string         `json:"query"`
	Parameters map[string]any `json:"parameters"`
}

// RawExecuteQueryRequest is the server side view of the same body. Both
// fields stay raw because the endpoint tolerates (and reports) wrong types.
type RawExecuteQueryRequest struct {
	Query      json.RawMessage `json:"query"`
	Parameters json.RawMessage `json:"parameters"`
}
