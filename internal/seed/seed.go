// Package seed holds the reference faculty data and the maintenance
// operations that load, repair and inspect the faculty collection.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/repositories"
	"github.com/yigit/deptportal/internal/docstore"
)

//go:embed faculty.yaml
var facultyYAML []byte

// DefaultOffice is written by FixFaculty when a record has no office.
const DefaultOffice = "CS Department"

// FacultyEntry is one seed record as written in faculty.yaml.
type FacultyEntry struct {
	Name            string   `yaml:"name"`
	Designation     string   `yaml:"designation"`
	Email           string   `yaml:"email"`
	Qualification   string   `yaml:"qualification"`
	Experience      string   `yaml:"experience"`
	Department      string   `yaml:"department"`
	Order           int      `yaml:"order"`
	ImageURL        string   `yaml:"image_url"`
	Bio             string   `yaml:"bio"`
	Specializations []string `yaml:"specializations"`
	Phone           string   `yaml:"phone"`
	Office          string   `yaml:"office"`
}

// ImageSource is a reference image to download.
type ImageSource struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Data is the parsed seed file.
type Data struct {
	Faculty []FacultyEntry `yaml:"faculty"`
	Images  []ImageSource  `yaml:"images"`
}

// Load parses the embedded seed file.
func Load() (*Data, error) {
	return Parse(facultyYAML)
}

// Parse reads seed data in the faculty.yaml format.
func Parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if len(d.Faculty) == 0 {
		return nil, errors.New("seed data has no faculty")
	}
	return &d, nil
}

// DefaultBio is the bio given to records without one.
func DefaultBio(name string) string {
	return name + " is a dedicated member of our Computer Science faculty."
}

// Record converts a seed entry into an active faculty record, filling the
// optional fields the pages expect.
func (e FacultyEntry) Record() *models.Faculty {
	f := &models.Faculty{
		Name:            e.Name,
		Designation:     e.Designation,
		Email:           e.Email,
		Qualification:   e.Qualification,
		Experience:      e.Experience,
		Department:      e.Department,
		IsActive:        true,
		Order:           e.Order,
		ImageURL:        e.ImageURL,
		Bio:             e.Bio,
		Specializations: e.Specializations,
		Phone:           e.Phone,
		Office:          e.Office,
	}
	if f.Bio == "" {
		f.Bio = DefaultBio(f.Name)
	}
	if f.Office == "" {
		f.Office = DefaultOffice
	}
	if f.Specializations == nil {
		f.Specializations = []string{}
	}
	f.SyncAliases()
	return f
}

// SeedFaculty inserts every seed entry one after another and returns how
// many were written. It stops at the first failure.
func SeedFaculty(ctx context.Context, repo *repositories.FacultyRepository, entries []FacultyEntry, lgr zerolog.Logger) (int, error) {
	added := 0
	for i, e := range entries {
		lgr.Info().Str("name", e.Name).Msgf("Adding faculty (%d/%d)", i+1, len(entries))
		if _, err := repo.Create(ctx, e.Record()); err != nil {
			return added, fmt.Errorf("failed to add %s: %w", e.Name, err)
		}
		added++
	}
	return added, nil
}

// ReseedFaculty clears the faculty collection, inserts the seed entries and
// returns the deleted, added and final document counts.
func ReseedFaculty(ctx context.Context, repo *repositories.FacultyRepository, entries []FacultyEntry, lgr zerolog.Logger) (deleted, added int, total int64, err error) {
	deleted, err = repo.DeleteAll(ctx)
	if err != nil {
		return deleted, 0, 0, fmt.Errorf("failed to clear faculty: %w", err)
	}
	if deleted > 0 {
		lgr.Info().Int("count", deleted).Msg("Cleared existing faculty records")
	} else {
		lgr.Info().Msg("No existing faculty data to clear")
	}

	added, err = SeedFaculty(ctx, repo, entries, lgr)
	if err != nil {
		return deleted, added, 0, err
	}
	total, err = repo.Count(ctx)
	return deleted, added, total, err
}

// FixResult describes what FixFaculty did to one document.
type FixResult struct {
	ID      string
	Name    string
	Skipped bool
	Updates map[string]any
	// Warning flags a record that carries an inline image but no URL.
	Warning string
}

func str(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return strings.TrimSpace(s)
}

// FixFaculty patches raw faculty documents in place: position from
// designation, education from qualification, and default bio, office and
// specializations. Documents that already have imageUrl and position are
// skipped.
func FixFaculty(ctx context.Context, repo *repositories.FacultyRepository, lgr zerolog.Logger) ([]FixResult, error) {
	docs, err := repo.Documents(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]FixResult, 0, len(docs))
	for _, doc := range docs {
		res := fixDocument(doc)
		if len(res.Updates) > 0 {
			if err := repo.Patch(ctx, doc.ID, res.Updates); err != nil {
				return results, fmt.Errorf("failed to update %s: %w", res.Name, err)
			}
			lgr.Info().Str("id", doc.ID).Str("name", res.Name).Interface("updates", res.Updates).Msg("Updated faculty")
		}
		results = append(results, res)
	}
	return results, nil
}

func fixDocument(doc docstore.Document) FixResult {
	data := doc.Data
	res := FixResult{ID: doc.ID, Name: str(data, "name")}
	if str(data, "imageUrl") != "" && str(data, "position") != "" {
		res.Skipped = true
		return res
	}

	updates := map[string]any{}
	if d := str(data, "designation"); d != "" && str(data, "position") == "" {
		updates["position"] = d
	}
	if q := str(data, "qualification"); q != "" && str(data, "education") == "" {
		updates["education"] = q
	}
	if str(data, "bio") == "" {
		updates["bio"] = DefaultBio(res.Name)
	}
	if str(data, "office") == "" {
		updates["office"] = DefaultOffice
	}
	if _, ok := data["specializations"]; !ok {
		updates["specializations"] = []any{}
	}
	if str(data, "imageUrl") == "" && str(data, "imageBase64") != "" {
		res.Warning = "has imageBase64 but no imageUrl"
	}
	if len(updates) > 0 {
		res.Updates = updates
	}
	return res
}

// RequiredFields are checked by VerifyFaculty.
var RequiredFields = []string{"name", "position", "imageUrl"}

// FieldCheck reports one required field.
type FieldCheck struct {
	Field   string
	Present bool
	Value   string
}

// Verification is the VerifyFaculty report for one document.
type Verification struct {
	ID       string
	Name     string
	Fields   []FieldCheck
	ImageURL string
	// ImageURLValid is nil when the document has no image URL.
	ImageURLValid *bool
}

// OK reports whether every check passed.
func (v Verification) OK() bool {
	for _, f := range v.Fields {
		if !f.Present {
			return false
		}
	}
	return v.ImageURLValid != nil && *v.ImageURLValid
}

// ValidImageURL accepts site paths the server can answer and absolute
// http(s) URLs.
func ValidImageURL(s string) bool {
	for _, prefix := range []string{"/faculty/", "/uploads/", "/static/", "http"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// VerifyFaculty checks every raw faculty document for the required fields
// and a usable image URL.
func VerifyFaculty(ctx context.Context, repo *repositories.FacultyRepository) ([]Verification, error) {
	docs, err := repo.Documents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Verification, 0, len(docs))
	for _, doc := range docs {
		v := Verification{ID: doc.ID, Name: str(doc.Data, "name")}
		for _, f := range RequiredFields {
			val := str(doc.Data, f)
			v.Fields = append(v.Fields, FieldCheck{Field: f, Present: val != "", Value: val})
		}
		if u := str(doc.Data, "imageUrl"); u != "" {
			ok := ValidImageURL(u)
			v.ImageURL, v.ImageURLValid = u, &ok
		}
		out = append(out, v)
	}
	return out, nil
}

// FirstFaculty returns the faculty count and the first stored document,
// which is nil for an empty collection.
func FirstFaculty(ctx context.Context, repo *repositories.FacultyRepository) (int64, *docstore.Document, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, nil, err
	}
	docs, err := repo.Documents(ctx)
	if err != nil {
		return n, nil, err
	}
	if len(docs) == 0 {
		return n, nil, nil
	}
	return n, &docs[0], nil
}
