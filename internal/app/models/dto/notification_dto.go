package dto

import "github.com/yigit/deptportal/internal/app/models"

// ActiveNotificationsResponse lists what the home page rotates through.
type ActiveNotificationsResponse struct {
	Notifications   []*models.Notification `json:"notifications"`
	Current         int                    `json:"current" example:"0"`
	RotationSeconds float64                `json:"rotationSeconds" example:"5"`
}
