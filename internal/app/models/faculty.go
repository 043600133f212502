package models

import "strings"

// DefaultFacultyImage is rendered for faculty without an image.
const DefaultFacultyImage = "/static/faculty/default-profile.svg"

// FacultySchemaVersion 2 introduced designation/qualification; version 1
// records only carry position/education.
const FacultySchemaVersion = 2

// Faculty is a member of the department's teaching staff.
type Faculty struct {
	Base
	Name            string   `json:"name" validate:"required,min=2,max=120" example:"Dr. Pramod"`
	Designation     string   `json:"designation,omitempty" validate:"max=120" example:"Professor and HOD"`
	Position        string   `json:"position,omitempty" validate:"max=120"`
	Email           string   `json:"email,omitempty" validate:"omitempty,email" example:"hodcsd@pestrust.edu.in"`
	Qualification   string   `json:"qualification,omitempty" validate:"max=200" example:"Ph.D."`
	Education       string   `json:"education,omitempty" validate:"max=200"`
	Experience      string   `json:"experience,omitempty" validate:"max=100" example:"23 Years"`
	Department      string   `json:"department,omitempty" validate:"max=120"`
	IsActive        bool     `json:"isActive"`
	Order           int      `json:"order" validate:"gte=0"`
	ImageURL        string   `json:"imageUrl,omitempty" validate:"omitempty,imageurl" example:"/faculty/images/dr-pramod.jpg"`
	ImageBase64     string   `json:"imageBase64,omitempty"`
	Bio             string   `json:"bio,omitempty" validate:"max=4000"`
	Specializations []string `json:"specializations,omitempty" validate:"dive,min=1,max=120"`
	Office          string   `json:"office,omitempty" validate:"max=120"`
	Phone           string   `json:"phone,omitempty" validate:"max=40"`
}

func (f *Faculty) CurrentSchema() int { return FacultySchemaVersion }

// Upgrade back-fills the legacy aliases in both directions.
func (f *Faculty) Upgrade() {
	f.SyncAliases()
}

// SyncAliases keeps position/designation and education/qualification equal
// when only one side is set.
func (f *Faculty) SyncAliases() {
	if f.Designation == "" {
		f.Designation = f.Position
	}
	if f.Position == "" {
		f.Position = f.Designation
	}
	if f.Qualification == "" {
		f.Qualification = f.Education
	}
	if f.Education == "" {
		f.Education = f.Qualification
	}
}

// DisplayImage returns the image URL or the placeholder.
func (f *Faculty) DisplayImage() string {
	if strings.TrimSpace(f.ImageURL) == "" {
		return DefaultFacultyImage
	}
	return f.ImageURL
}

// Title is the designation shown on cards.
func (f *Faculty) Title() string {
	if f.Designation != "" {
		return f.Designation
	}
	return f.Position
}
