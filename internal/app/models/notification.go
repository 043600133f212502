package models

import (
	"fmt"
	"time"

	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

// Priority of a notification.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Rank orders priorities; anything unknown sorts below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

const NotificationSchemaVersion = 1

// Notification is a time-boxed announcement shown on the home page.
// Expiry is a query-time concept; expired records are never deleted.
type Notification struct {
	Base
	Title     string     `json:"title" validate:"required,max=200" example:"Internal assessment schedule"`
	Message   string     `json:"message" validate:"required,max=2000"`
	Active    bool       `json:"active"`
	StartDate *time.Time `json:"startDate,omitempty" validate:"required"`
	EndDate   *time.Time `json:"endDate,omitempty" validate:"required"`
	Priority  Priority   `json:"priority,omitempty" validate:"omitempty,oneof=high normal low" example:"high"`
	Type      string     `json:"type,omitempty" validate:"omitempty,oneof=info warning success" example:"info"`
	Link      string     `json:"link,omitempty" validate:"omitempty,url"`
}

func (n *Notification) CurrentSchema() int { return NotificationSchemaVersion }
func (n *Notification) Upgrade()           {}

// Check rejects windows that end before they start.
func (n *Notification) Check() error {
	if n.StartDate != nil && n.EndDate != nil && n.EndDate.Before(*n.StartDate) {
		return apperrors.NewValidationError(
			fmt.Sprintf("endDate %s is before startDate %s", n.EndDate.Format(time.RFC3339), n.StartDate.Format(time.RFC3339)),
			map[string]string{"endDate": "endDate must not be before startDate"},
		)
	}
	return nil
}

// InWindow reports whether the notification is displayable at now. A missing
// start counts as the epoch and a missing end as now.
func (n *Notification) InWindow(now time.Time) bool {
	if !n.Active {
		return false
	}
	start := time.Unix(0, 0)
	if n.StartDate != nil {
		start = *n.StartDate
	}
	end := now
	if n.EndDate != nil {
		end = *n.EndDate
	}
	return !start.After(now) && !end.Before(now)
}
