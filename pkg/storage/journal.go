package storage

import (
	"time"

	"github.com/coraldb/maintd/pkg/types"
)

// PassRecord captures what one reconciliation pass consulted and decided.
type PassRecord struct {
	Time           time.Time      `json:"time"`
	PlanVersion    int64          `json:"planVersion"`
	CurrentVersion int64          `json:"currentVersion"`
	Actions        int            `json:"actions"`
	ReportOps      int            `json:"reportOps"`
	Report         types.Document `json:"report"`
}

// Journal persists reconciliation pass outcomes for operator inspection.
type Journal interface {
	// RecordPass appends one pass record and remembers the versions it
	// consulted.
	RecordPass(rec *PassRecord) error

	// LastPass returns the most recent pass record, or nil when no pass
	// has been recorded yet.
	LastPass() (*PassRecord, error)

	// Versions returns the Plan and Current versions consulted by the
	// most recent pass.
	Versions() (plan, current int64, err error)

	Close() error
}
