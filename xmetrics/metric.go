package xmetrics

// Metric names used by semaphore and gate instrumentation.
const (
	// HeldTokens is the gauge of tokens currently held through an instrumented semaphore
	HeldTokens = "held_tokens"

	// FailedOperations counts semaphore operations that returned an error
	FailedOperations = "failed_operations"

	// AcquireWaitSeconds observes how long acquirers blocked
	AcquireWaitSeconds = "acquire_wait_seconds"

	// GateClosed is 1 while a starting gate is closed
	GateClosed = "gate_closed"

	// GateOpenings counts how many times a starting gate was raised
	GateOpenings = "gate_openings"
)
