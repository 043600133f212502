package models

import "time"

const (
	ResearchSchemaVersion    = 1
	AchievementSchemaVersion = 1
	EventSchemaVersion       = 1

	CertificationSchemaVersion = 1
)

// Research is a publication or project. FacultyID is a loose reference.
type Research struct {
	Base
	Title       string     `json:"title" validate:"required,max=300" example:"Federated learning for campus networks"`
	Description string     `json:"description,omitempty" validate:"max=4000"`
	Link        string     `json:"link,omitempty" validate:"omitempty,url"`
	Date        *time.Time `json:"date,omitempty"`
	FacultyID   string     `json:"facultyId,omitempty"`
	Category    string     `json:"category,omitempty" validate:"max=80" example:"journal"`
}

func (r *Research) CurrentSchema() int { return ResearchSchemaVersion }
func (r *Research) Upgrade()           {}

// Achievement is an award or recognition. FacultyID is a loose reference.
type Achievement struct {
	Base
	Title       string     `json:"title" validate:"required,max=300"`
	Description string     `json:"description,omitempty" validate:"max=4000"`
	Link        string     `json:"link,omitempty" validate:"omitempty,url"`
	Date        *time.Time `json:"date,omitempty"`
	FacultyID   string     `json:"facultyId,omitempty"`
	Type        string     `json:"type,omitempty" validate:"max=80" example:"award"`
}

func (a *Achievement) CurrentSchema() int { return AchievementSchemaVersion }
func (a *Achievement) Upgrade()           {}

// Event is a department event listed on /events.
type Event struct {
	Base
	Title       string     `json:"title" validate:"required,max=200" example:"AI Workshop"`
	Description string     `json:"description,omitempty" validate:"max=4000"`
	Type        string     `json:"type" validate:"required,max=40,lowercase" example:"workshop"`
	Location    string     `json:"location,omitempty" validate:"max=200"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty" validate:"omitempty,imageurl"`
}

func (e *Event) CurrentSchema() int { return EventSchemaVersion }
func (e *Event) Upgrade()           {}

// Certification is a course or credential earned by a student or a faculty
// member. Type groups the public listing and is stored lowercase.
type Certification struct {
	Base
	Title       string     `json:"title" validate:"required,max=300" example:"AWS Certified Cloud Practitioner"`
	Description string     `json:"description,omitempty" validate:"max=4000"`
	Type        string     `json:"type" validate:"required,max=40,lowercase" example:"student"`
	Issuer      string     `json:"issuer,omitempty" validate:"max=200" example:"Amazon Web Services"`
	Recipient   string     `json:"recipient,omitempty" validate:"max=200"`
	FacultyID   string     `json:"facultyId,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Link        string     `json:"link,omitempty" validate:"omitempty,url"`
}

func (c *Certification) CurrentSchema() int { return CertificationSchemaVersion }
func (c *Certification) Upgrade()           {}
