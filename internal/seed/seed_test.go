package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/deptportal/internal/app/repositories"
	"github.com/yigit/deptportal/internal/docstore"
	"github.com/yigit/deptportal/internal/docstore/memory"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

func newRepo(t *testing.T) (*memory.Store, *repositories.FacultyRepository) {
	t.Helper()
	store := memory.New()
	return store, repositories.NewRepositories(store).FacultyRepository
}

func TestLoad(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)
	require.Len(t, d.Faculty, 5)
	assert.Len(t, d.Images, 5)

	first := d.Faculty[0]
	assert.Equal(t, "Dr. Pramod", first.Name)
	assert.Equal(t, "Professor and HOD", first.Designation)
	assert.Equal(t, 1, first.Order)
	for _, f := range d.Faculty {
		assert.True(t, ValidImageURL(f.ImageURL), f.Name)
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("faculty: []\n"))
	assert.Error(t, err)
	_, err = Parse([]byte("faculty: ["))
	assert.Error(t, err)
}

func TestRecord_Defaults(t *testing.T) {
	f := FacultyEntry{Name: "Mr. New", Designation: "Lecturer", Qualification: "M.Tech"}.Record()
	assert.True(t, f.IsActive)
	assert.Equal(t, DefaultBio("Mr. New"), f.Bio)
	assert.Equal(t, DefaultOffice, f.Office)
	assert.Equal(t, "Lecturer", f.Position)
	assert.Equal(t, "M.Tech", f.Education)
	assert.NotNil(t, f.Specializations)
}

func TestSeedAndReseed(t *testing.T) {
	ctx := context.Background()
	_, repo := newRepo(t)
	d, err := Load()
	require.NoError(t, err)

	n, err := SeedFaculty(ctx, repo, d.Faculty, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	ordered, err := repo.ListOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, ordered, 5)
	assert.Equal(t, "Dr. Pramod", ordered[0].Name)

	deleted, added, total, err := ReseedFaculty(ctx, repo, d.Faculty, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 5, deleted)
	assert.Equal(t, 5, added)
	assert.EqualValues(t, 5, total)
}

func TestSeedFaculty_StoreDown(t *testing.T) {
	store, repo := newRepo(t)
	store.SetUnavailable(assert.AnError)
	d, err := Load()
	require.NoError(t, err)

	n, err := SeedFaculty(context.Background(), repo, d.Faculty, zerolog.Nop())
	require.Error(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestFixFaculty(t *testing.T) {
	ctx := context.Background()
	store, repo := newRepo(t)

	legacy, err := store.Create(ctx, docstore.CollectionFaculty, "", map[string]any{
		"name":          "Mr. Legacy",
		"designation":   "Assistant Professor",
		"qualification": "B.E",
		"imageBase64":   "aGVsbG8=",
	})
	require.NoError(t, err)
	complete, err := store.Create(ctx, docstore.CollectionFaculty, "", map[string]any{
		"name":     "Dr. Done",
		"position": "Professor",
		"imageUrl": "/faculty/images/done.jpg",
	})
	require.NoError(t, err)

	results, err := FixFaculty(ctx, repo, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[string]FixResult{}
	for _, r := range results {
		byID[r.ID] = r
	}
	assert.True(t, byID[complete].Skipped)
	assert.Empty(t, byID[complete].Updates)

	fixed := byID[legacy]
	assert.False(t, fixed.Skipped)
	assert.NotEmpty(t, fixed.Warning)

	doc, err := store.Get(ctx, docstore.CollectionFaculty, legacy)
	require.NoError(t, err)
	assert.Equal(t, "Assistant Professor", doc.Data["position"])
	assert.Equal(t, "B.E", doc.Data["education"])
	assert.Equal(t, DefaultBio("Mr. Legacy"), doc.Data["bio"])
	assert.Equal(t, DefaultOffice, doc.Data["office"])
	assert.Equal(t, []any{}, doc.Data["specializations"])

	// a second pass has nothing left but the missing image
	results, err = FixFaculty(ctx, repo, zerolog.Nop())
	require.NoError(t, err)
	for _, r := range results {
		assert.Empty(t, r.Updates, r.Name)
	}
}

func TestVerifyFaculty(t *testing.T) {
	ctx := context.Background()
	store, repo := newRepo(t)
	_, err := store.Create(ctx, docstore.CollectionFaculty, "good", map[string]any{
		"name": "Dr. Good", "position": "Professor", "imageUrl": "/faculty/images/good.jpg",
	})
	require.NoError(t, err)
	_, err = store.Create(ctx, docstore.CollectionFaculty, "bad", map[string]any{
		"name": "Mr. Bad", "imageUrl": "images/bad.jpg",
	})
	require.NoError(t, err)
	_, err = store.Create(ctx, docstore.CollectionFaculty, "bare", map[string]any{"name": "Ms. Bare"})
	require.NoError(t, err)

	report, err := VerifyFaculty(ctx, repo)
	require.NoError(t, err)
	require.Len(t, report, 3)

	byID := map[string]Verification{}
	for _, v := range report {
		byID[v.ID] = v
	}
	assert.True(t, byID["good"].OK())
	assert.False(t, byID["bad"].OK())
	require.NotNil(t, byID["bad"].ImageURLValid)
	assert.False(t, *byID["bad"].ImageURLValid)
	assert.Nil(t, byID["bare"].ImageURLValid)
	assert.False(t, byID["bare"].OK())
}

func TestValidImageURL(t *testing.T) {
	assert.True(t, ValidImageURL("/faculty/images/a.jpg"))
	assert.True(t, ValidImageURL("/uploads/faculty/a.png"))
	assert.True(t, ValidImageURL("https://example.edu/a.jpg"))
	assert.False(t, ValidImageURL("faculty/a.jpg"))
	assert.False(t, ValidImageURL(""))
}

func TestFirstFaculty(t *testing.T) {
	ctx := context.Background()
	store, repo := newRepo(t)

	n, doc, err := FirstFaculty(ctx, repo)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, doc)

	_, err = store.Create(ctx, docstore.CollectionFaculty, "", map[string]any{"name": "Dr. Pramod"})
	require.NoError(t, err)
	n, doc, err = FirstFaculty(ctx, repo)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NotNil(t, doc)
	assert.Equal(t, "Dr. Pramod", doc.Data["name"])
}

func TestDownloadImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "images")
	images := []ImageSource{
		{Name: "dr-pramod", URL: srv.URL + "/a.jpg"},
		{Name: "gone", URL: srv.URL + "/missing.jpg"},
		{Name: "manjunatha-g", URL: srv.URL + "/b.png"},
	}
	results, err := DownloadImages(context.Background(), srv.Client(), images, dir, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)

	b, err := os.ReadFile(filepath.Join(dir, "manjunatha-g.png"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(b))
	_, err = os.Stat(filepath.Join(dir, "gone.jpg"))
	assert.True(t, os.IsNotExist(err))
}
