package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/deptportal/internal/app/models/dto"
	"github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/middleware"
)

// ContentController serves the research, achievements, events and certifications
// collections, which share one shape of endpoints:
//
//	GET    /{collection}       list
//	GET    /{collection}/{id}  get
//	POST   /{collection}       create (admin)
//	PATCH  /{collection}/{id}  update (admin)
//	DELETE /{collection}/{id}  delete (admin)
type ContentController[T any] struct {
	service services.CRUDService[T]
	// setID clears a client supplied id before create and reads the new one.
	setID func(rec *T, id string)
	// list overrides the default listing, e.g. to filter by query params.
	list func(ctx *gin.Context) ([]*T, error)
}

// NewContentController creates a controller over one collection service.
func NewContentController[T any](service services.CRUDService[T], setID func(*T, string)) *ContentController[T] {
	return &ContentController[T]{service: service, setID: setID}
}

// WithList replaces the listing used by List.
func (c *ContentController[T]) WithList(list func(ctx *gin.Context) ([]*T, error)) *ContentController[T] {
	c.list = list
	return c
}

func (c *ContentController[T]) List(ctx *gin.Context) {
	var (
		list []*T
		err  error
	)
	if c.list != nil {
		list, err = c.list(ctx)
	} else {
		list, err = c.service.List(ctx.Request.Context())
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ListResponse{Items: list, Total: len(list)}))
}

func (c *ContentController[T]) Get(ctx *gin.Context) {
	rec, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rec))
}

func (c *ContentController[T]) Create(ctx *gin.Context) {
	rec := new(T)
	if !middleware.BindJSON(ctx, rec) {
		return
	}
	c.setID(rec, "")
	if _, err := c.service.Create(ctx.Request.Context(), rec); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(rec))
}

func (c *ContentController[T]) Update(ctx *gin.Context) {
	partial, ok := middleware.BindPartial(ctx)
	if !ok {
		return
	}
	rec, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), partial)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(rec))
}

func (c *ContentController[T]) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Deleted"}))
}
