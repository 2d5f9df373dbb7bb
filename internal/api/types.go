package api

import "encoding/json"

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Job describes a registry job in a transport-friendly format.
type Job struct {
	ID              string          `json:"id"`
	ActionType      string          `json:"actionType"`
	Status          string          `json:"status"`
	Progress        string          `json:"progress"`
	Owner           string          `json:"owner,omitempty"`
	Plan            string          `json:"plan,omitempty"`
	Input           string          `json:"input,omitempty"`
	ErrorMessage    string          `json:"errorMessage,omitempty"`
	CreditsDeducted bool            `json:"creditsDeducted"`
	Result          json.RawMessage `json:"result,omitempty"`
	CreatedAt       string          `json:"createdAt,omitempty"`
	UpdatedAt       string          `json:"updatedAt,omitempty"`
}

// PipelineStatus summarizes orchestrator execution state.
type PipelineStatus struct {
	Running    bool           `json:"running"`
	Workers    int            `json:"workers"`
	QueueDepth int            `json:"queueDepth"`
	JobStats   map[string]int `json:"jobStats"`
	LastError  string         `json:"lastError,omitempty"`
	LastJob    *Job           `json:"lastJob,omitempty"`
}

// DependencyStatus captures availability of an external tool or service.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	DatabasePath string             `json:"databasePath"`
	LockFilePath string             `json:"lockFilePath"`
	SocketPath   string             `json:"socketPath"`
	Pipeline     PipelineStatus     `json:"pipeline"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// JobStatsResponse provides a normalized job stats payload.
type JobStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// JobListResponse wraps a collection of jobs for API responses.
type JobListResponse struct {
	Jobs []Job `json:"jobs"`
}

// JobResponse wraps a single job.
type JobResponse struct {
	Job Job `json:"job"`
}
