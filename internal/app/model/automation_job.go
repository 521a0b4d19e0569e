package model

import "time"

type JobKind string

const (
	JobKindRefresh  JobKind = "refresh"
	JobKindPurge    JobKind = "purge"
	JobKindEnrich   JobKind = "enrich"
	JobKindGenerate JobKind = "generate"
	JobKindUpload   JobKind = "upload"
	JobKindImport   JobKind = "import"
)

// JobKinds lists the kinds that can be started from the admin dashboard directly.
// Import needs uploaded files and goes through its own endpoint.
var JobKinds = []JobKind{JobKindRefresh, JobKindPurge, JobKindEnrich, JobKindGenerate, JobKindUpload}

type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusSuccess JobStatus = "success"
	JobStatusFailure JobStatus = "failure"
)

// AutomationJob records one run of an admin automation.
type AutomationJob struct {
	ID         string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Kind       JobKind    `gorm:"type:varchar(20);not null;index" json:"kind"`
	Status     JobStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	Message    string     `gorm:"type:text" json:"message"`
	Processed  int        `gorm:"default:0" json:"processed"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (AutomationJob) TableName() string {
	return "automation_jobs"
}

func (j *AutomationJob) Done() bool {
	return j.Status == JobStatusSuccess || j.Status == JobStatusFailure
}
