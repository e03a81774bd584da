package domain

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// StageReport - статистика одной стадии пайплайна
type StageReport struct {
	Stage    string        `json:"stage"`
	RowsIn   int           `json:"rows_in"`
	RowsOut  int           `json:"rows_out"`
	Duration time.Duration `json:"duration_ns"`
}

// RunReport - отчёт о запуске пайплайна слияния
type RunReport struct {
	RunID            uuid.UUID     `json:"run_id" db:"run_id"`
	Status           RunStatus     `json:"status" db:"status"`
	NullPolicy       NullPolicy    `json:"null_policy" db:"null_policy"`
	StartedAt        time.Time     `json:"started_at" db:"started_at"`
	FinishedAt       time.Time     `json:"finished_at" db:"finished_at"`
	SegmentCount     int           `json:"segment_count" db:"segment_count"`
	StationYearCount int           `json:"station_year_count" db:"station_year_count"`
	Stages           []StageReport `json:"stages" db:"-"`
	Warnings         []string      `json:"warnings,omitempty" db:"-"`
	FailedStage      string        `json:"failed_stage,omitempty" db:"failed_stage"`
	Error            string        `json:"error,omitempty" db:"error"`
}

// Stage возвращает отчёт стадии по имени
func (r *RunReport) Stage(name string) (StageReport, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageReport{}, false
}
