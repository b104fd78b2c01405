package types

// ResolveRequest is the payload for POST /v1/resolve.
type ResolveRequest struct {
	// Base model the adapter is applied to; source of the fallback chat template.
	// example: meta-llama/Llama-3.2-1B-Instruct
	BaseModel string `json:"base_model" example:"meta-llama/Llama-3.2-1B-Instruct"`
	// Adapter reference to resolve.
	// example: acme/helper-v1
	Adapter string `json:"adapter" example:"acme/helper-v1"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall probe state (initializing, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Model identifier the engine was launched with.
	// example: meta-llama/Llama-3.2-1B-Instruct
	ModelID string `json:"model_id" example:"meta-llama/Llama-3.2-1B-Instruct"`
	// Process ID of the managed engine (0 before launch).
	// example: 12345
	EnginePID int `json:"engine_pid,omitempty" example:"12345"`
	// TCP port the engine listens on.
	// example: 8000
	EnginePort int `json:"engine_port,omitempty" example:"8000"`
	// Last error observed by the probe (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the supervisor in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
