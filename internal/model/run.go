package model

import "time"

// RunStatus is the lifecycle state of a recorded evaluation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one recorded Monte Carlo evaluation run.
type Run struct {
	ID         string
	Samples    int
	Parameters int
	Dataset    string // path of the persisted dataset
	Status     RunStatus
	Error      string
	CostMin    float64
	CostMax    float64
	Duration   time.Duration
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
