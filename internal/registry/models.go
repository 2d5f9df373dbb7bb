package registry

import (
	"strings"
	"time"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusCreated    Status = "created"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// ActionType identifies how a job's input arrives.
type ActionType string

const (
	ActionMediaUpload    ActionType = "media_upload"
	ActionMediaURL       ActionType = "media_url"
	ActionDocumentUpload ActionType = "document_upload"
)

var allStatuses = []Status{
	StatusCreated,
	StatusProcessing,
	StatusCompleted,
	StatusError,
}

// statusRank orders the lifecycle; both terminal states share the top rank
// so neither can replace the other.
var statusRank = map[Status]int{
	StatusCreated:    0,
	StatusProcessing: 1,
	StatusCompleted:  2,
	StatusError:      2,
}

var actionSet = map[ActionType]struct{}{
	ActionMediaUpload:    {},
	ActionMediaURL:       {},
	ActionDocumentUpload: {},
}

// Job is one persisted pipeline job. Input is the source reference the
// orchestrator processes: a staged file path for uploads, a URL for
// media_url jobs. Plan names the owner's entitlement tier at submission
// time; it is empty for anonymous jobs.
type Job struct {
	ID              string
	Status          Status
	Progress        string
	Owner           string
	Plan            string
	ActionType      ActionType
	Input           string
	CreditsDeducted bool
	ErrorMessage    string
	Result          map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal reports whether the job has reached a final state.
func (j Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusRank[normalized]
	return normalized, ok
}

// ParseAction converts a string into a known ActionType.
func ParseAction(value string) (ActionType, bool) {
	normalized := ActionType(strings.ToLower(strings.TrimSpace(value)))
	_, ok := actionSet[normalized]
	return normalized, ok
}

// DatabaseHealth captures diagnostic information about the registry database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TableExists      bool
	IntegrityCheck   bool
	TotalJobs        int
	Error            string
}

// HealthSummary aggregates job counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Created    int
	Processing int
	Completed  int
	Errored    int
}
