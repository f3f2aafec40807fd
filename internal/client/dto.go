package client

import "encoding/json"

type LogsTailResponse struct {
	Cursor int64    `json:"cursor"`
	Lines  []string `json:"lines"`
	// Reset means the server rotated its buffer and the caller should drop
	// what it has.
	Reset bool `json:"reset"`
}

// DebugStatusResponse carries the gateway's debug snapshot untouched.
type DebugStatusResponse struct {
	Status json.RawMessage
}
