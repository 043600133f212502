package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/middleware"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

// FacultyController handles faculty-related operations
type FacultyController struct {
	facultyService services.FacultyService
	logger         zerolog.Logger
}

// NewFacultyController creates a new FacultyController
func NewFacultyController(facultyService services.FacultyService, logger zerolog.Logger) *FacultyController {
	return &FacultyController{
		facultyService: facultyService,
		logger:         logger,
	}
}

// GetAllFaculty lists faculty in display order
// @Summary List faculty
// @Description Lists faculty in display order. active=true limits the list to active members.
// @Tags faculty
// @Produce json
// @Param active query bool false "Only active faculty"
// @Success 200 {object} dto.APIResponse{data=dto.ListResponse{items=[]models.Faculty}}
// @Failure 503 {object} dto.ErrorResponse "Document store unavailable"
// @Router /faculty [get]
func (c *FacultyController) GetAllFaculty(ctx *gin.Context) {
	var (
		list []*models.Faculty
		err  error
	)
	if ctx.Query("active") == "true" {
		list, err = c.facultyService.ListActiveFaculty(ctx.Request.Context())
	} else {
		list, err = c.facultyService.ListFaculty(ctx.Request.Context())
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Items: list, Total: len(list)}))
}

// GetFacultyByID retrieves a faculty member with research and achievements
// @Summary Get faculty details
// @Tags faculty
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} dto.APIResponse{data=dto.FacultyProfile}
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculty/{id} [get]
func (c *FacultyController) GetFacultyByID(ctx *gin.Context) {
	profile, err := c.facultyService.GetFacultyProfile(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// CreateFaculty handles faculty creation
// @Summary Create a faculty member
// @Tags faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Faculty true "Faculty information"
// @Success 201 {object} dto.APIResponse{data=models.Faculty} "Faculty created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User is not an admin"
// @Router /faculty [post]
func (c *FacultyController) CreateFaculty(ctx *gin.Context) {
	var faculty models.Faculty
	if !middleware.BindJSON(ctx, &faculty) {
		return
	}
	faculty.ID = ""

	if _, err := c.facultyService.CreateFaculty(ctx.Request.Context(), &faculty); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(faculty))
}

// UpdateFaculty merges the given fields into a faculty record
// @Summary Update a faculty member
// @Description Merges the given fields; PUT and PATCH behave the same.
// @Tags faculty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Faculty ID"
// @Param request body object true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Faculty}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculty/{id} [patch]
// @Router /faculty/{id} [put]
func (c *FacultyController) UpdateFaculty(ctx *gin.Context) {
	partial, ok := middleware.BindPartial(ctx)
	if !ok {
		return
	}
	faculty, err := c.facultyService.UpdateFaculty(ctx.Request.Context(), ctx.Param("id"), partial)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(faculty))
}

// DeleteFaculty removes a faculty record and its uploaded image
// @Summary Delete a faculty member
// @Tags faculty
// @Produce json
// @Security BearerAuth
// @Param id path string true "Faculty ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Router /faculty/{id} [delete]
func (c *FacultyController) DeleteFaculty(ctx *gin.Context) {
	if err := c.facultyService.DeleteFaculty(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Faculty deleted"}))
}

// UploadImage stores a faculty photo
// @Summary Upload a faculty image
// @Description Stores the image (downscaled when larger than the configured bounds) and links it from the faculty record.
// @Tags faculty
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Faculty ID"
// @Param image formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.ImageUploadResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or unsupported image"
// @Failure 404 {object} dto.ErrorResponse "Faculty not found"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /faculty/{id}/image [post]
func (c *FacultyController) UploadImage(ctx *gin.Context) {
	id := ctx.Param("id")
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("image file is required", map[string]string{"image": "image is required"}))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("could not read uploaded file"))
		return
	}
	defer file.Close()

	res, err := c.facultyService.UploadImage(ctx.Request.Context(), id, file, fileHeader.Size, func(percent int) {
		c.logger.Debug().Str("facultyId", id).Int("percent", percent).Msg("Image upload progress")
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(res))
}
