package models

import (
	"time"

	"gorm.io/datatypes"
)

// Status eines Ingest-Laufs.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// IngestRun protokolliert einen Abruf bei einem Provider und dessen Ergebnis.
type IngestRun struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time      `json:"created_at"`
	Provider       string         `json:"provider" gorm:"index;not null"`
	Query          string         `json:"query"`
	RequestedCount int            `json:"requested_count"`
	Status         string         `json:"status" gorm:"index;not null;default:'running'"`
	PapersCreated  int            `json:"papers_created"`
	Error          string         `json:"error,omitempty" gorm:"type:text"`
	Params         datatypes.JSON `json:"params,omitempty"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
}

func (IngestRun) TableName() string {
	return "ingest_runs"
}
