package types

import "time"

const (
	ReclaimTriggerSchedule = "schedule"
	ReclaimTriggerManual   = "manual"
	ReclaimTriggerCLI      = "cli"
)

type ReclaimReport struct {
	Trigger string `json:"trigger"`
	Skipped bool   `json:"skipped"`

	// Candidates are orphaned resource rows past the grace window.
	Candidates int `json:"candidates"`
	Reclaimed  int `json:"reclaimed"`

	// StrayBlobs are stored blobs past the grace window without any resource row.
	StrayBlobs          int `json:"stray_blobs"`
	StrayBlobsReclaimed int `json:"stray_blobs_reclaimed"`

	Failed int `json:"failed"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
