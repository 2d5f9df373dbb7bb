package ipc

import "lectern/internal/api"

// Job mirrors the HTTP API job DTO for internal IPC callers.
type Job = api.Job

// DependencyStatus describes availability of an external dependency.
type DependencyStatus = api.DependencyStatus

// PingRequest checks daemon liveness.
type PingRequest struct{}

// PingResponse acknowledges a ping.
type PingResponse struct {
	Pong bool `json:"pong"`
}

// StartRequest triggers pipeline startup inside a running daemon process.
type StartRequest struct{}

// StartResponse indicates whether the pipeline was started.
type StartResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// StopRequest stops the pipeline without terminating the daemon process.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// ShutdownRequest asks the daemon process to exit.
type ShutdownRequest struct{}

// ShutdownResponse reports whether shutdown was initiated.
type ShutdownResponse struct {
	Stopping bool   `json:"stopping"`
	Message  string `json:"message"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents combined daemon and pipeline status information.
type StatusResponse struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	Workers      int                `json:"workers"`
	QueueDepth   int                `json:"queue_depth"`
	JobStats     map[string]int     `json:"job_stats"`
	LastError    string             `json:"last_error"`
	LastJob      *Job               `json:"last_job"`
	DatabasePath string             `json:"database_path"`
	LockPath     string             `json:"lock_path"`
	SocketPath   string             `json:"socket_path"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// SubmitRequest registers new work with the daemon.
type SubmitRequest struct {
	Input  string `json:"input"`
	Action string `json:"action"`
	Owner  string `json:"owner"`
	Plan   string `json:"plan"`
}

// SubmitResponse returns the created job.
type SubmitResponse struct {
	Job Job `json:"job"`
}

// JobListRequest filters job listing by status.
type JobListRequest struct {
	Statuses []string `json:"statuses"`
}

// JobListResponse contains registry entries.
type JobListResponse struct {
	Jobs []Job `json:"jobs"`
}

// JobDescribeRequest fetches a single job by id.
type JobDescribeRequest struct {
	ID string `json:"id"`
}

// JobDescribeResponse contains a single job.
type JobDescribeResponse struct {
	Job Job `json:"job"`
}

// ClearCompletedRequest removes completed jobs.
type ClearCompletedRequest struct{}

// ClearCompletedResponse reports number of removed entries.
type ClearCompletedResponse struct {
	Removed int64 `json:"removed"`
}

// RegistryHealthRequest fetches aggregate job counts.
type RegistryHealthRequest struct{}

// RegistryHealthResponse reports registry health information.
type RegistryHealthResponse struct {
	Total      int `json:"total"`
	Created    int `json:"created"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Errored    int `json:"errored"`
}

// DatabaseHealthRequest fetches detailed database diagnostics.
type DatabaseHealthRequest struct{}

// DatabaseHealthResponse reports database health information.
type DatabaseHealthResponse struct {
	DBPath           string `json:"db_path"`
	DatabaseExists   bool   `json:"database_exists"`
	DatabaseReadable bool   `json:"database_readable"`
	TableExists      bool   `json:"table_exists"`
	IntegrityCheck   bool   `json:"integrity_check"`
	TotalJobs        int    `json:"total_jobs"`
	Error            string `json:"error"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

// LogTailRequest fetches daemon log lines based on offset and follow
// semantics. A negative offset tails the last Limit lines.
type LogTailRequest struct {
	Offset     int64 `json:"offset"`
	Limit      int   `json:"limit"`
	Follow     bool  `json:"follow"`
	WaitMillis int64 `json:"wait_millis"`
}

// LogTailResponse returns log lines and the offset to resume from.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}
