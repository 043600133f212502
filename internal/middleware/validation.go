package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/pkg/validation"
)

// BindJSON binds the body into obj and answers 400 on failure. It
// returns false when the request was aborted.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(bindingErrorDetail(err)))
		return false
	}
	return true
}

// BindPartial decodes a JSON object for partial updates.
func BindPartial(c *gin.Context) (map[string]any, bool) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil || len(partial) == 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Request body must be a non-empty JSON object")
		if err != nil {
			detail = detail.WithDetails(err.Error())
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return nil, false
	}
	return partial, true
}

func bindingErrorDetail(err error) *dto.ErrorDetail {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid request format").WithDetails(err.Error())
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = validation.FormatFieldError(fe)
	}
	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(fields)
}
