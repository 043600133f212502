package models

// Placement statuses
const (
	PlacementPlaced    = "Placed"
	PlacementNotPlaced = "Not Placed"
)

const StudentSchemaVersion = 1

// Student is an enrolled student with per-term scores. Score field names
// follow the records already stored by the department.
type Student struct {
	Base
	USN               string   `json:"usn" validate:"required,usn" example:"4PM21CS001"`
	Name              string   `json:"name" validate:"required,min=2,max=120" example:"Ananya R"`
	Email             string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone             string   `json:"phone,omitempty" validate:"max=40"`
	Batch             string   `json:"batch,omitempty" validate:"max=20" example:"2021-2025"`
	Tenth             *float64 `json:"tenth,omitempty" validate:"omitempty,gte=0,lte=100"`
	PUC               *float64 `json:"puc,omitempty" validate:"omitempty,gte=0,lte=100"`
	Sem1              *float64 `json:"sem1,omitempty" validate:"omitempty,gte=0,lte=100"`
	Sem2              *float64 `json:"sem2,omitempty" validate:"omitempty,gte=0,lte=100"`
	Sem3              *float64 `json:"sem3,omitempty" validate:"omitempty,gte=0,lte=100"`
	Sem4              *float64 `json:"sem4,omitempty" validate:"omitempty,gte=0,lte=100"`
	Sem5              *float64 `json:"sem5,omitempty" validate:"omitempty,gte=0,lte=100"`
	Sem6              *float64 `json:"sem6,omitempty" validate:"omitempty,gte=0,lte=100"`
	Sem7              *float64 `json:"sem7,omitempty" validate:"omitempty,gte=0,lte=100"`
	Sem8              *float64 `json:"sem8,omitempty" validate:"omitempty,gte=0,lte=100"`
	PlacementStatus   string   `json:"placement_status,omitempty" validate:"omitempty,oneof=Placed 'Not Placed'"`
	PlacementEligible bool     `json:"placement_eligible"`
}

func (s *Student) CurrentSchema() int { return StudentSchemaVersion }
func (s *Student) Upgrade()           {}

// TermScore is one point of the score series.
type TermScore struct {
	Term  string
	Score *float64
}

// TermScores returns the series in display order: tenth, PUC, then semesters.
func (s *Student) TermScores() []TermScore {
	return []TermScore{
		{"10th", s.Tenth}, {"PUC", s.PUC},
		{"Sem 1", s.Sem1}, {"Sem 2", s.Sem2}, {"Sem 3", s.Sem3}, {"Sem 4", s.Sem4},
		{"Sem 5", s.Sem5}, {"Sem 6", s.Sem6}, {"Sem 7", s.Sem7}, {"Sem 8", s.Sem8},
	}
}

// PlacementLabel is the status column of the dashboard table.
func (s *Student) PlacementLabel() string {
	if s.PlacementStatus != "" {
		return s.PlacementStatus
	}
	if s.PlacementEligible {
		return "Eligible"
	}
	return "Not Eligible"
}
