package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

func TestFaculty_UpgradeFillsAliases(t *testing.T) {
	legacy := Faculty{Name: "Mr. Harish M", Position: "Assistant Professor", Education: "M.Tech"}
	legacy.Upgrade()
	assert.Equal(t, "Assistant Professor", legacy.Designation)
	assert.Equal(t, "M.Tech", legacy.Qualification)

	current := Faculty{Name: "Dr. Pramod", Designation: "Professor and HOD", Qualification: "Ph.D."}
	current.Upgrade()
	assert.Equal(t, "Professor and HOD", current.Position)
	assert.Equal(t, "Ph.D.", current.Education)
}

func TestFaculty_DisplayImage(t *testing.T) {
	f := Faculty{}
	assert.Equal(t, DefaultFacultyImage, f.DisplayImage())
	f.ImageURL = "  "
	assert.Equal(t, DefaultFacultyImage, f.DisplayImage())
	f.ImageURL = "/faculty/images/dr-pramod.jpg"
	assert.Equal(t, "/faculty/images/dr-pramod.jpg", f.DisplayImage())
}

func TestPriority_Rank(t *testing.T) {
	assert.Greater(t, PriorityHigh.Rank(), PriorityNormal.Rank())
	assert.Greater(t, PriorityNormal.Rank(), PriorityLow.Rank())
	assert.Greater(t, PriorityLow.Rank(), Priority("urgent").Rank())
	assert.Equal(t, 0, Priority("").Rank())
}

func TestNotification_InWindow(t *testing.T) {
	now := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	before, after := now.Add(-time.Hour), now.Add(time.Hour)

	tests := []struct {
		name string
		n    Notification
		want bool
	}{
		{"inside", Notification{Active: true, StartDate: &before, EndDate: &after}, true},
		{"inactive", Notification{Active: false, StartDate: &before, EndDate: &after}, false},
		{"not started", Notification{Active: true, StartDate: &after}, false},
		{"expired", Notification{Active: true, EndDate: &before}, false},
		{"open ended", Notification{Active: true}, true},
		{"ends exactly now", Notification{Active: true, EndDate: &now}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.n.InWindow(now))
		})
	}
}

func TestNotification_Check(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-time.Minute)
	n := Notification{StartDate: &now, EndDate: &earlier}
	assert.ErrorIs(t, n.Check(), apperrors.ErrValidationFailed)

	n.EndDate = &now
	assert.NoError(t, n.Check())
}

func TestStudent_PlacementLabel(t *testing.T) {
	assert.Equal(t, "Placed", (&Student{PlacementStatus: PlacementPlaced}).PlacementLabel())
	assert.Equal(t, "Eligible", (&Student{PlacementEligible: true}).PlacementLabel())
	assert.Equal(t, "Not Eligible", (&Student{}).PlacementLabel())
	assert.Len(t, (&Student{}).TermScores(), 10)
}

func TestTouch(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &Faculty{}
	Touch(f, now, true)
	assert.Equal(t, now, f.CreatedAt)
	assert.Equal(t, FacultySchemaVersion, f.SchemaVersion)

	later := now.Add(time.Hour)
	Touch(f, later, false)
	assert.Equal(t, now, f.CreatedAt)
	assert.Equal(t, later, f.UpdatedAt)
}

func TestSession_Valid(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, s.Valid(now))
	s.RevokedAt = &now
	assert.False(t, s.Valid(now))
	assert.False(t, (&Session{ExpiresAt: now}).Valid(now))
}
