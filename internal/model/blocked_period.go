package model

import "time"

// BlockedPeriod is an administrator-defined date range during which no
// booking may be made. It has no status column: existence alone blocks.
// Rows live in the `blocked_periods` table and are created or deleted
// only through the admin API.
//
// Fields:
//  ID        – primary key identifier.
//  StartDate – first blocked day (YYYY-MM-DD).
//  EndDate   – last blocked day (YYYY-MM-DD); always after StartDate.
//  Reason    – optional human-readable explanation (nullable).
//  CreatedAt – creation timestamp.
type BlockedPeriod struct {
	ID        uint64    `json:"id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
