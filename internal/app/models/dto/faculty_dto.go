package dto

import "github.com/yigit/deptportal/internal/app/models"

// FacultyProfile is a faculty member with the records that reference them.
type FacultyProfile struct {
	Faculty      *models.Faculty       `json:"faculty"`
	Research     []*models.Research    `json:"research"`
	Achievements []*models.Achievement `json:"achievements"`
}

// ImageUploadResponse reports a stored faculty image.
type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl" example:"/uploads/faculty/6f1c2a4e/photo.jpg"`
	Width    int    `json:"width" example:"800"`
	Height   int    `json:"height" example:"600"`
	Resized  bool   `json:"resized"`
}
