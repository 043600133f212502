package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/middleware"
	"github.com/yigit/deptportal/internal/pkg/websocket"
)

// NotificationController handles notifications
type NotificationController struct {
	notificationService services.NotificationService
	now                 func() time.Time
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService, now: time.Now}
}

// GetActive lists the notifications currently displayed on the home page
// @Summary Active notifications
// @Description Notifications with active=true whose window contains now, highest priority first, plus the index the rotation shows right now.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ActiveNotificationsResponse}
// @Failure 503 {object} dto.ErrorResponse "Document store unavailable"
// @Router /notifications/active [get]
func (c *NotificationController) GetActive(ctx *gin.Context) {
	list, current, err := c.notificationService.Current(ctx.Request.Context(), c.now())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ActiveNotificationsResponse{
		Notifications:   list,
		Current:         current,
		RotationSeconds: c.notificationService.RotationInterval().Seconds(),
	}))
}

// GetAllNotifications lists every notification, newest first
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse{items=[]models.Notification}}
// @Router /notifications [get]
func (c *NotificationController) GetAllNotifications(ctx *gin.Context) {
	list, err := c.notificationService.ListNotifications(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Items: list, Total: len(list)}))
}

// GetNotificationByID retrieves one notification
// @Summary Get a notification
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=models.Notification}
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [get]
func (c *NotificationController) GetNotificationByID(ctx *gin.Context) {
	n, err := c.notificationService.GetNotification(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(n))
}

// CreateNotification adds a notification
// @Summary Create a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Notification true "Notification"
// @Success 201 {object} dto.APIResponse{data=models.Notification}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /notifications [post]
func (c *NotificationController) CreateNotification(ctx *gin.Context) {
	var n models.Notification
	if !middleware.BindJSON(ctx, &n) {
		return
	}
	n.ID = ""
	if _, err := c.notificationService.CreateNotification(ctx.Request.Context(), &n); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(n))
}

// UpdateNotification merges fields into a notification
// @Summary Update a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Param request body object true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Notification}
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [patch]
// @Router /notifications/{id} [put]
func (c *NotificationController) UpdateNotification(ctx *gin.Context) {
	partial, ok := middleware.BindPartial(ctx)
	if !ok {
		return
	}
	n, err := c.notificationService.UpdateNotification(ctx.Request.Context(), ctx.Param("id"), partial)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(n))
}

// DeleteNotification removes a notification
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [delete]
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	if err := c.notificationService.DeleteNotification(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Notification deleted"}))
}

// Snapshot describes the notification displayed at now for the websocket feed.
func (c *NotificationController) Snapshot(ctx context.Context, now time.Time) (*websocket.Message, error) {
	list, current, err := c.notificationService.Current(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return &websocket.Message{Type: websocket.TypeEmpty, Timestamp: now}, nil
	}
	return &websocket.Message{
		Type:      websocket.TypeNotification,
		Index:     current,
		Total:     len(list),
		Payload:   list[current],
		Timestamp: now,
	}, nil
}
