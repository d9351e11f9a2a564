package core

import "time"

// LoadStore defines the interface for persisting dataset load history.
type LoadStore interface {
	Open(path string) error
	Close() error
	InitSchema() error

	// Load run operations
	CreateLoadRun(source string) (*LoadRun, error)
	CompleteLoadRun(id string, status LoadRunStatus, matches, deliveries int, errMsg string) error
	GetLoadRun(id string) (*LoadRun, error)
	GetLatestLoadRun(source string) (*LoadRun, error)
	ListLoadRuns(limit int) ([]*LoadRun, error)

	// Source file hashes for change detection
	GetSourceFile(path string) (*SourceFile, error)
	SetSourceFile(file *SourceFile) error
}

// LoadRunStatus represents the status of a dataset load.
type LoadRunStatus string

// Load run status constants.
const (
	LoadRunStatusRunning   LoadRunStatus = "running"
	LoadRunStatusCompleted LoadRunStatus = "completed"
	LoadRunStatusFailed    LoadRunStatus = "failed"
)

// LoadRun represents one attempt to load the dataset.
type LoadRun struct {
	ID          string
	Source      string
	Status      LoadRunStatus
	Matches     int
	Deliveries  int
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// Duration returns how long the run took, or zero while it is still running.
func (r *LoadRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// SourceFile records the content hash of a source file seen by a load run.
type SourceFile struct {
	Path        string
	Table       string // "matches" or "deliveries"
	ContentHash string
	SizeBytes   int64
	RunID       string
	SeenAt      time.Time
}
