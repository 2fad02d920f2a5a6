package models

import "time"

// GenerationStatus is the lifecycle state of a delegated bulk run.
type GenerationStatus string

const (
	GenerationPending GenerationStatus = "PENDING"
	GenerationRunning GenerationStatus = "RUNNING"
	GenerationSuccess GenerationStatus = "SUCCESS"
	GenerationFailed  GenerationStatus = "FAILED"
)

// GenerationRun records one execution of the external timetable
// generator. The service never computes timetables itself; it records
// the request, hands it to the generator and stores the outcome.
type GenerationRun struct {
	ID             string           `db:"id" json:"id"`
	ExecutedBy     string           `db:"executed_by" json:"executedBy"`
	Status         GenerationStatus `db:"status" json:"status"`
	TotalGenerated int              `db:"total_generated" json:"totalGenerated"`
	Message        string           `db:"message" json:"message"`
	PeriodStart    *time.Time       `db:"period_start" json:"periodStart,omitempty"`
	PeriodEnd      *time.Time       `db:"period_end" json:"periodEnd,omitempty"`
	DryRun         bool             `db:"dry_run" json:"dryRun"`
	Force          bool             `db:"force" json:"force"`
	ExecutedAt     time.Time        `db:"executed_at" json:"executedAt"`
	FinishedAt     *time.Time       `db:"finished_at" json:"finishedAt,omitempty"`
}

// GenerationRequest is the payload for POST /schedules/generate.
type GenerationRequest struct {
	PeriodStart *time.Time `json:"periodStart,omitempty"`
	PeriodEnd   *time.Time `json:"periodEnd,omitempty"`
	DryRun      bool       `json:"dryRun"`
	Force       bool       `json:"force"`
}
