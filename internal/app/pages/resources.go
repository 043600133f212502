package pages

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/middleware"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

type fieldKind string

const (
	kindText     fieldKind = "text"
	kindTextarea fieldKind = "textarea"
	kindEmail    fieldKind = "email"
	kindNumber   fieldKind = "number"
	kindCheckbox fieldKind = "checkbox"
	kindDate     fieldKind = "date"
	kindDateTime fieldKind = "datetime-local"
	kindList     fieldKind = "list"
	kindSelect   fieldKind = "select"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// field is one input of an admin form.
type field struct {
	Name     string
	Label    string
	Kind     fieldKind
	Options  []string
	Required bool
}

// row is a record flattened for templates.
type row struct {
	ID     string
	Values map[string]any
}

// resource is a collection editable from the admin panel.
type resource struct {
	Name    string
	Title   string
	Fields  []field
	Columns []string

	list   func(ctx context.Context) ([]row, error)
	get    func(ctx context.Context, id string) (row, error)
	create func(ctx context.Context, values map[string]any) error
	update func(ctx context.Context, id string, values map[string]any) error
	remove func(ctx context.Context, id string) error
}

func toRow(rec models.Record) (row, error) {
	values, err := docstore.Encode(rec)
	if err != nil {
		return row{}, err
	}
	return row{ID: rec.Meta().ID, Values: values}, nil
}

func newResource[T any](name, title string, svc services.CRUDService[T], fields []field, columns []string) *resource {
	asRow := func(rec *T) (row, error) {
		r, ok := any(rec).(models.Record)
		if !ok {
			return row{}, fmt.Errorf("%T is not a record", rec)
		}
		return toRow(r)
	}
	return &resource{
		Name:    name,
		Title:   title,
		Fields:  fields,
		Columns: columns,
		list: func(ctx context.Context) ([]row, error) {
			recs, err := svc.List(ctx)
			if err != nil {
				return nil, err
			}
			rows := make([]row, 0, len(recs))
			for _, rec := range recs {
				r, err := asRow(rec)
				if err != nil {
					return nil, err
				}
				rows = append(rows, r)
			}
			return rows, nil
		},
		get: func(ctx context.Context, id string) (row, error) {
			rec, err := svc.Get(ctx, id)
			if err != nil {
				return row{}, err
			}
			return asRow(rec)
		},
		create: func(ctx context.Context, values map[string]any) error {
			rec := new(T)
			if err := docstore.Decode(docstore.Document{Data: values}, rec); err != nil {
				return apperrors.NewValidationError(err.Error(), nil)
			}
			_, err := svc.Create(ctx, rec)
			return err
		},
		update: func(ctx context.Context, id string, values map[string]any) error {
			_, err := svc.Update(ctx, id, values)
			return err
		},
		remove: svc.Delete,
	}
}

// parseForm converts posted strings into typed document values. Unchecked
// checkboxes are absent from a form post and become false.
func parseForm(c *gin.Context, fields []field) (map[string]any, error) {
	values := make(map[string]any, len(fields))
	invalid := map[string]string{}
	for _, f := range fields {
		raw := strings.TrimSpace(c.PostForm(f.Name))
		switch f.Kind {
		case kindCheckbox:
			values[f.Name] = raw != ""
		case kindNumber:
			if raw == "" {
				values[f.Name] = nil
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				invalid[f.Name] = f.Label + " must be a number"
				continue
			}
			values[f.Name] = n
		case kindDate, kindDateTime:
			if raw == "" {
				values[f.Name] = nil
				continue
			}
			t, err := parseFormTime(raw)
			if err != nil {
				invalid[f.Name] = f.Label + " must be a date"
				continue
			}
			values[f.Name] = t
		case kindList:
			items := []any{}
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, part)
				}
			}
			values[f.Name] = items
		default:
			values[f.Name] = raw
		}
	}
	if len(invalid) > 0 {
		msgs := make([]string, 0, len(invalid))
		for _, f := range fields {
			if m, ok := invalid[f.Name]; ok {
				msgs = append(msgs, m)
			}
		}
		return nil, apperrors.NewValidationError(strings.Join(msgs, "; "), invalid)
	}
	return values, nil
}

func parseFormTime(raw string) (time.Time, error) {
	for _, layout := range []string{dateTimeLayout, dateLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", raw)
}

// postedValues keeps what the user typed for re-rendering a failed form.
func postedValues(c *gin.Context, fields []field) map[string]any {
	values := make(map[string]any, len(fields))
	for _, f := range fields {
		if f.Kind == kindCheckbox {
			values[f.Name] = c.PostForm(f.Name) != ""
			continue
		}
		values[f.Name] = c.PostForm(f.Name)
	}
	return values
}

func (p *Pages) renderList(c *gin.Context, status int, r *resource, form map[string]any, formErr string) {
	rows, err := r.list(c.Request.Context())
	data := gin.H{
		"Title":    r.Title,
		"Resource": r,
		"Rows":     rows,
		"Form":     form,
		"Notice":   c.Query("notice"),
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("collection", r.Name).Msg("Admin list failed")
		data["ListError"] = userMessage(err)
	}
	if formErr != "" {
		data["Error"] = formErr
	}
	p.render(c, status, "admin_list", data)
}

func (p *Pages) adminList(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		p.renderList(c, http.StatusOK, r, map[string]any{}, "")
	}
}

func (p *Pages) adminCreate(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, err := parseForm(c, r.Fields)
		if err == nil {
			err = r.create(c.Request.Context(), values)
		}
		if err != nil {
			p.renderList(c, middleware.StatusFor(err), r, postedValues(c, r.Fields), userMessage(err))
			return
		}
		p.logger.Info().Str("collection", r.Name).Str("uid", middleware.CurrentSession(c).UID).Msg("Record created from admin panel")
		c.Redirect(http.StatusSeeOther, "/admin/"+r.Name+"?notice=created")
	}
}

func (p *Pages) renderEdit(c *gin.Context, status int, r *resource, rec row, formErr string) {
	data := gin.H{
		"Title":    "Edit " + r.Title,
		"Resource": r,
		"Row":      rec,
		"Notice":   c.Query("notice"),
	}
	if formErr != "" {
		data["Error"] = formErr
	} else if c.Query("error") == "image" {
		data["Error"] = "The image could not be uploaded."
	}
	p.render(c, status, "admin_edit", data)
}

func (p *Pages) adminEdit(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := r.get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if apperrors.Is(err, apperrors.ErrResourceNotFound) {
				p.notFoundPage(c, r.Title)
				return
			}
			p.unavailable(c, err)
			return
		}
		p.renderEdit(c, http.StatusOK, r, rec, "")
	}
}

func (p *Pages) adminUpdate(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		values, err := parseForm(c, r.Fields)
		if err == nil {
			err = r.update(c.Request.Context(), id, values)
		}
		if err != nil {
			if apperrors.Is(err, apperrors.ErrResourceNotFound) {
				p.notFoundPage(c, r.Title)
				return
			}
			p.renderEdit(c, middleware.StatusFor(err), r, row{ID: id, Values: postedValues(c, r.Fields)}, userMessage(err))
			return
		}
		p.logger.Info().Str("collection", r.Name).Str("id", id).Msg("Record updated from admin panel")
		c.Redirect(http.StatusSeeOther, "/admin/"+r.Name+"?notice=updated")
	}
}

func (p *Pages) adminDelete(r *resource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := r.remove(c.Request.Context(), id); err != nil && !apperrors.Is(err, apperrors.ErrResourceNotFound) {
			p.logger.Warn().Err(err).Str("collection", r.Name).Str("id", id).Msg("Admin delete failed")
			c.Redirect(http.StatusSeeOther, "/admin/"+r.Name+"?notice="+url.QueryEscape("delete failed"))
			return
		}
		p.logger.Info().Str("collection", r.Name).Str("id", id).Msg("Record deleted from admin panel")
		c.Redirect(http.StatusSeeOther, "/admin/"+r.Name+"?notice=deleted")
	}
}
