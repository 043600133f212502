package pages

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/repositories"
	"github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/docstore/memory"
	"github.com/yigit/deptportal/internal/middleware"
	"github.com/yigit/deptportal/internal/pkg/auth"
	"github.com/yigit/deptportal/internal/pkg/email"
	"github.com/yigit/deptportal/internal/pkg/filestorage"
)

const cookieName = "portal_session"

type env struct {
	router *gin.Engine
	store  *memory.Store
	repos  *repositories.Repositories
	svc    *services.Services
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.New()
	repos := repositories.NewRepositories(store)
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	logger := zerolog.Nop()
	jwtSvc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret-key-0123456789", AccessTokenExp: time.Hour, TokenIssuer: "deptportal"})
	mailer := email.NewEmailService(email.LogSender{Logger: logger}, email.Config{ResetURL: "http://localhost/admin/reset-password"}, logger)

	svc := &services.Services{
		Auth: services.NewAuthService(repos.UserRepository, repos.SessionRepository, jwtSvc, mailer, services.AuthOptions{}, logger),
		Faculty: services.NewFacultyService(repos.FacultyRepository, repos.ResearchRepository, repos.AchievementRepository,
			storage, services.ImageLimits{MaxWidth: 800, MaxHeight: 800, MaxUploadBytes: 1 << 20}, logger),
		Student:       services.NewStudentService(repos.StudentRepository, logger),
		Notification:  services.NewNotificationService(repos.NotificationRepository, 5*time.Second, logger),
		Research:      services.NewResearchService(repos.ResearchRepository, logger),
		Achievement:   services.NewAchievementService(repos.AchievementRepository, logger),
		Event:         services.NewEventService(repos.EventRepository, logger),
		Certification: services.NewCertificationService(repos.CertificationRepository, logger),
	}

	p, err := New(svc, middleware.NewAuthMiddleware(svc.Auth, cookieName), Options{Logger: logger})
	require.NoError(t, err)

	router := gin.New()
	p.Register(router)
	return &env{router: router, store: store, repos: repos, svc: svc}
}

func (e *env) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

// signInAdmin creates an admin account and signs in through the login form.
func (e *env) signInAdmin(t *testing.T) *http.Cookie {
	t.Helper()
	_, _, err := e.svc.Auth.EnsureAdmin(context.Background(), "", "admin@example.edu", "Dept Admin", "initial123")
	require.NoError(t, err)

	w := e.do(t, http.MethodPost, "/admin/login", url.Values{
		"email":    {"admin@example.edu"},
		"password": {"initial123"},
		"from":     {"/admin/faculty"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/faculty", w.Header().Get("Location"))

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	return cookie
}

func TestHome_FallbackFacultyOnEmptyStore(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, f := range FallbackFaculty {
		assert.Contains(t, w.Body.String(), f.Name)
	}
}

func TestHome_FallbackFacultyWhenStoreDown(t *testing.T) {
	e := newEnv(t)
	e.store.SetUnavailable(assert.AnError)

	w := e.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dr. Sarah Chen")
}

func TestHome_ShowsStoredFacultyAndNotification(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.svc.Faculty.CreateFaculty(ctx, &models.Faculty{Name: "Dr. Pramod", Designation: "Professor and HOD", IsActive: true})
	require.NoError(t, err)
	now := time.Now().UTC()
	start, end := now.Add(-time.Hour), now.Add(time.Hour)
	_, err = e.svc.Notification.CreateNotification(ctx, &models.Notification{
		Title: "Internal assessment schedule", Message: "IA-2 starts Monday", Active: true,
		StartDate: &start, EndDate: &end, Priority: models.PriorityHigh,
	})
	require.NoError(t, err)

	w := e.do(t, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Dr. Pramod")
	assert.NotContains(t, body, "Dr. Sarah Chen")
	assert.Contains(t, body, "Internal assessment schedule")
	// a faculty member without an image gets the placeholder
	assert.Contains(t, body, models.DefaultFacultyImage)
}

func TestStaticPlaceholderIsServed(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, models.DefaultFacultyImage, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<svg")
}

func TestUnknownPaths(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/no/such/page", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = e.do(t, http.MethodGet, "/api/v1/nothing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestAdmin_RedirectsAnonymousToLogin(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/admin/students", nil, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login?from=%2Fadmin%2Fstudents", w.Header().Get("Location"))
}

func TestAdmin_LoginThenPanel(t *testing.T) {
	e := newEnv(t)
	cookie := e.signInAdmin(t)

	w := e.do(t, http.MethodGet, "/admin", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Admin Dashboard")
	assert.Contains(t, w.Body.String(), "Live notifications")

	w = e.do(t, http.MethodPost, "/admin/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	// the revoked session no longer opens the panel
	w = e.do(t, http.MethodGet, "/admin", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestAdmin_LoginRejectsBadPassword(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.svc.Auth.EnsureAdmin(context.Background(), "", "admin@example.edu", "Dept Admin", "initial123")
	require.NoError(t, err)

	w := e.do(t, http.MethodPost, "/admin/login", url.Values{"email": {"admin@example.edu"}, "password": {"wrong-pass1"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password.")
	assert.Nil(t, sessionCookie(w))
}

func TestAdmin_SafeRedirect(t *testing.T) {
	assert.Equal(t, "/admin/students", safeRedirect("/admin/students"))
	assert.Equal(t, "/admin", safeRedirect("https://evil.example"))
	assert.Equal(t, "/admin", safeRedirect("//evil.example/admin"))
	assert.Equal(t, "/admin", safeRedirect("/admin/login"))
	assert.Equal(t, "/admin", safeRedirect(""))
}

func TestAdmin_StudentFormRoundTrip(t *testing.T) {
	e := newEnv(t)
	cookie := e.signInAdmin(t)

	w := e.do(t, http.MethodPost, "/admin/students", url.Values{
		"usn":                {"4PM21CS001"},
		"name":               {"Ananya R"},
		"batch":              {"2021-2025"},
		"sem1":               {"8.5"},
		"sem2":               {""},
		"placement_status":   {models.PlacementPlaced},
		"placement_eligible": {"true"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/admin/students?notice=created", w.Header().Get("Location"))

	st, err := e.svc.Student.GetStudentByUSN(context.Background(), "4PM21CS001")
	require.NoError(t, err)
	require.NotNil(t, st.Sem1)
	assert.Equal(t, 8.5, *st.Sem1)
	assert.Nil(t, st.Sem2)
	assert.True(t, st.PlacementEligible)

	w = e.do(t, http.MethodGet, "/admin/students/"+st.ID+"/edit", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="4PM21CS001"`)

	form := url.Values{"usn": {"4PM21CS001"}, "name": {"Ananya Rao"}, "batch": {"2021-2025"}}
	w = e.do(t, http.MethodPost, "/admin/students/"+st.ID, form, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	st, err = e.svc.Student.GetStudent(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ananya Rao", st.Name)
	// unchecked checkbox clears the flag
	assert.False(t, st.PlacementEligible)

	w = e.do(t, http.MethodPost, "/admin/students/"+st.ID+"/delete", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	_, err = e.svc.Student.GetStudent(context.Background(), st.ID)
	assert.Error(t, err)
}

func TestAdmin_InvalidFormRerenders(t *testing.T) {
	e := newEnv(t)
	cookie := e.signInAdmin(t)

	w := e.do(t, http.MethodPost, "/admin/notifications", url.Values{
		"title":     {"Exam"},
		"message":   {"Hall tickets"},
		"startDate": {"not-a-date"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Starts must be a date")
	assert.Contains(t, w.Body.String(), `value="Exam"`)
}

func TestParseForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fields := []field{
		{Name: "name", Kind: kindText},
		{Name: "order", Kind: kindNumber},
		{Name: "isActive", Kind: kindCheckbox},
		{Name: "tags", Kind: kindList},
		{Name: "date", Kind: kindDate},
	}
	form := url.Values{"name": {"  Dr. Pramod "}, "order": {"2"}, "tags": {"ML, , Networks"}, "date": {"2026-02-03"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	values, err := parseForm(c, fields)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Pramod", values["name"])
	assert.Equal(t, 2.0, values["order"])
	assert.Equal(t, false, values["isActive"])
	assert.Equal(t, []any{"ML", "Networks"}, values["tags"])
	assert.Equal(t, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), values["date"])
}

func TestStudentDetail_ByUSN(t *testing.T) {
	e := newEnv(t)
	score := 9.1
	id, err := e.svc.Student.CreateStudent(context.Background(), &models.Student{USN: "4PM21CS002", Name: "Kiran M", Sem1: &score})
	require.NoError(t, err)

	w := e.do(t, http.MethodGet, "/students/4pm21cs002", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Kiran M")
	assert.Contains(t, w.Body.String(), "9.1")

	w = e.do(t, http.MethodGet, "/students/"+id, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/students/UNKNOWN01", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEvents_FilterByType(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.svc.Event.Create(ctx, &models.Event{Title: "AI Workshop", Type: "Workshop"})
	require.NoError(t, err)
	_, err = e.svc.Event.Create(ctx, &models.Event{Title: "Tech Fest", Type: "fest"})
	require.NoError(t, err)

	w := e.do(t, http.MethodGet, "/events/workshop", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AI Workshop")
	assert.NotContains(t, w.Body.String(), "Tech Fest")
}

func TestCertifications_ListAndFilter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	w := e.do(t, http.MethodGet, "/academics/certifications", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No certifications recorded yet.")

	_, err := e.svc.Certification.Create(ctx, &models.Certification{Title: "AWS Cloud Practitioner", Type: "Student", Recipient: "Ananya R"})
	require.NoError(t, err)
	_, err = e.svc.Certification.Create(ctx, &models.Certification{Title: "NPTEL Deep Learning", Type: "faculty", Issuer: "IIT Madras"})
	require.NoError(t, err)

	w = e.do(t, http.MethodGet, "/academics/certifications", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AWS Cloud Practitioner")
	assert.Contains(t, w.Body.String(), "NPTEL Deep Learning")

	w = e.do(t, http.MethodGet, "/academics/certifications/Student", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AWS Cloud Practitioner")
	assert.Contains(t, w.Body.String(), "Ananya R")
	assert.NotContains(t, w.Body.String(), "NPTEL Deep Learning")
}

func TestAcademics_TypedSubpages(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.svc.Research.Create(ctx, &models.Research{Title: "Federated learning survey", Category: "Journal"})
	require.NoError(t, err)
	_, err = e.svc.Research.Create(ctx, &models.Research{Title: "Smart irrigation patent", Category: "patent"})
	require.NoError(t, err)
	_, err = e.svc.Achievement.Create(ctx, &models.Achievement{Title: "Hackathon winners", Type: "student"})
	require.NoError(t, err)
	_, err = e.svc.Achievement.Create(ctx, &models.Achievement{Title: "Best teacher award", Type: "Faculty"})
	require.NoError(t, err)

	w := e.do(t, http.MethodGet, "/academics/research/journal", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Federated learning survey")
	assert.NotContains(t, w.Body.String(), "Smart irrigation patent")

	w = e.do(t, http.MethodGet, "/academics/achievements/faculty", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Best teacher award")
	assert.NotContains(t, w.Body.String(), "Hackathon winners")

	w = e.do(t, http.MethodGet, "/academics/achievements", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hackathon winners")
	assert.Contains(t, w.Body.String(), "Best teacher award")
}

func TestAdmin_CertificationCRUD(t *testing.T) {
	e := newEnv(t)
	cookie := e.signInAdmin(t)
	ctx := context.Background()

	w := e.do(t, http.MethodGet, "/admin/certifications", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, "/admin/certifications", url.Values{
		"title":     {"CCNA"},
		"type":      {"student"},
		"issuer":    {"Cisco"},
		"recipient": {"Kiran M"},
		"date":      {"2025-06-01"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/admin/certifications?notice=created", w.Header().Get("Location"))

	list, err := e.svc.Certification.ListByType(ctx, "student")
	require.NoError(t, err)
	require.Len(t, list, 1)
	cert := list[0]
	assert.Equal(t, "Cisco", cert.Issuer)
	require.NotNil(t, cert.Date)

	w = e.do(t, http.MethodPost, "/admin/certifications/"+cert.ID, url.Values{
		"title": {"CCNA"},
		"type":  {"faculty"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	cert, err = e.svc.Certification.Get(ctx, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, "faculty", cert.Type)

	w = e.do(t, http.MethodPost, "/admin/certifications/"+cert.ID+"/delete", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	_, err = e.svc.Certification.Get(ctx, cert.ID)
	assert.Error(t, err)
}

func TestSignup_DisabledByDefault(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/admin/signup", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
