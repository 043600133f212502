package pages

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/services"
	"github.com/yigit/deptportal/internal/pkg/apperrors"
)

// facultyCard is one entry of the home page carousel.
type facultyCard struct {
	ID          string
	Name        string
	Designation string
	Quote       string
	Image       string
	Link        string
}

// FallbackFaculty is shown on the home page when the faculty collection is
// empty or unreadable.
var FallbackFaculty = []facultyCard{
	{ID: "1", Name: "Dr. Sarah Chen", Designation: "Associate Professor",
		Quote: "Dedicated to advancing computer science education and research, with a focus on artificial intelligence and machine learning.",
		Image: "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?q=80&w=2376&auto=format&fit=crop"},
	{ID: "2", Name: "Michael Rodriguez", Designation: "Assistant Professor",
		Quote: "Passionate about teaching programming fundamentals and developing the next generation of software engineers.",
		Image: "https://images.unsplash.com/photo-1560250097-0b93528c311a?q=80&w=2574&auto=format&fit=crop"},
	{ID: "3", Name: "Dr. Emily Watson", Designation: "Professor",
		Quote: "Research interests include human-computer interaction, UI/UX design, and accessibility in technology.",
		Image: "https://images.unsplash.com/photo-1573497019418-b400bb3ab074?q=80&w=2574&auto=format&fit=crop"},
	{ID: "4", Name: "Dr. James Kim", Designation: "Professor",
		Quote: "Specializing in cybersecurity and network systems with over 15 years of industry experience.",
		Image: "https://images.unsplash.com/photo-1577880216142-8549e9488dad?q=80&w=2670&auto=format&fit=crop"},
	{ID: "5", Name: "Lisa Thompson", Designation: "Associate Professor",
		Quote: "Focused on data science and analytics, bringing real-world projects into the classroom.",
		Image: "https://images.unsplash.com/photo-1580489944761-15a19d654956?q=80&w=2522&auto=format&fit=crop"},
}

func facultyCards(list []*models.Faculty) []facultyCard {
	cards := make([]facultyCard, 0, len(list))
	for _, f := range list {
		quote := f.Bio
		if quote == "" {
			quote = strings.Join(f.Specializations, ", ")
		}
		designation := f.Title()
		if designation == "" {
			designation = "Faculty"
		}
		cards = append(cards, facultyCard{
			ID:          f.ID,
			Name:        f.Name,
			Designation: designation,
			Quote:       quote,
			Image:       f.DisplayImage(),
			Link:        "/faculty/" + f.ID,
		})
	}
	return cards
}

func (p *Pages) home(c *gin.Context) {
	ctx := c.Request.Context()

	notifications, current, err := p.svc.Notification.Current(ctx, p.now())
	if err != nil {
		p.logger.Warn().Err(err).Msg("Notifications unavailable on home page")
		notifications, current = nil, 0
	}
	var shown *models.Notification
	if len(notifications) > 0 {
		shown = notifications[current]
	}

	cards := FallbackFaculty
	faculty, err := p.svc.Faculty.ListActiveFaculty(ctx)
	switch {
	case err != nil:
		p.logger.Warn().Err(err).Msg("Faculty unavailable on home page, showing fallback list")
	case len(faculty) == 0:
		p.logger.Debug().Msg("No faculty stored, showing fallback list")
	default:
		cards = facultyCards(faculty)
	}

	p.render(c, http.StatusOK, "home", gin.H{
		"Title":           "Computer Science & Design",
		"Notifications":   notifications,
		"Current":         shown,
		"CurrentIndex":    current,
		"RotationSeconds": p.svc.Notification.RotationInterval().Seconds(),
		"Faculty":         cards,
	})
}

func (p *Pages) about(c *gin.Context) {
	p.render(c, http.StatusOK, "about", gin.H{"Title": "About the Department"})
}

func (p *Pages) facultyList(c *gin.Context) {
	data := gin.H{"Title": "Faculty"}
	list, err := p.svc.Faculty.ListActiveFaculty(c.Request.Context())
	if err != nil {
		p.logger.Warn().Err(err).Msg("Faculty list unavailable")
		data["Error"] = userMessage(err)
	}
	data["Faculty"] = list
	p.render(c, http.StatusOK, "faculty", data)
}

func (p *Pages) facultyDetail(c *gin.Context) {
	profile, err := p.svc.Faculty.GetFacultyProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			p.notFoundPage(c, "faculty member")
			return
		}
		p.unavailable(c, err)
		return
	}
	p.render(c, http.StatusOK, "faculty_detail", gin.H{
		"Title":   profile.Faculty.Name,
		"Profile": profile,
	})
}

func (p *Pages) students(c *gin.Context) {
	data := gin.H{"Title": "Students"}
	stats, list, err := p.svc.Student.Stats(c.Request.Context())
	if err != nil {
		p.logger.Warn().Err(err).Msg("Student dashboard unavailable")
		data["Error"] = userMessage(err)
		stats, list = services.ComputeStats(nil), nil
	}
	data["Stats"] = stats
	data["Students"] = list
	p.render(c, http.StatusOK, "students", data)
}

// studentDetail looks the student up by USN first, then by document id.
func (p *Pages) studentDetail(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Param("id")

	st, err := p.svc.Student.GetStudentByUSN(ctx, strings.ToUpper(key))
	if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrStudentNotFound) {
		st, err = p.svc.Student.GetStudent(ctx, key)
	}
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrStudentNotFound) {
			p.notFoundPage(c, "student")
			return
		}
		p.unavailable(c, err)
		return
	}
	p.render(c, http.StatusOK, "student_detail", gin.H{
		"Title":   st.Name,
		"Student": st,
		"Scores":  st.TermScores(),
	})
}

// EventTypes are the filters offered on /events.
var EventTypes = []string{"workshop", "seminar", "fest", "competition", "conference"}

func (p *Pages) events(c *gin.Context) {
	ctx := c.Request.Context()
	eventType := strings.ToLower(c.Param("type"))

	var (
		list []*models.Event
		err  error
	)
	if eventType == "" {
		list, err = p.svc.Event.ListRecent(ctx)
	} else {
		list, err = p.svc.Event.ListByType(ctx, eventType)
	}
	data := gin.H{"Title": "Events", "Type": eventType, "Types": EventTypes}
	if err != nil {
		p.logger.Warn().Err(err).Str("type", eventType).Msg("Events unavailable")
		data["Error"] = userMessage(err)
	}
	data["Events"] = list
	p.render(c, http.StatusOK, "events", data)
}

// Filters offered on the academics pages.
var (
	ResearchTypes      = []string{"journal", "conference", "patent", "project"}
	AchievementTypes   = []string{"faculty", "student", "department"}
	CertificationTypes = []string{"student", "faculty"}
)

func (p *Pages) research(c *gin.Context) {
	ctx := c.Request.Context()
	category := strings.ToLower(c.Param("type"))

	var (
		list []*models.Research
		err  error
	)
	if category == "" {
		list, err = p.svc.Research.List(ctx)
	} else {
		list, err = p.svc.Research.ListByType(ctx, category)
	}
	data := gin.H{"Title": "Research", "Type": category, "Types": ResearchTypes}
	if err != nil {
		p.logger.Warn().Err(err).Str("type", category).Msg("Research unavailable")
		data["Error"] = userMessage(err)
	}
	data["Research"] = list
	p.render(c, http.StatusOK, "research", data)
}

func (p *Pages) achievements(c *gin.Context) {
	ctx := c.Request.Context()
	kind := strings.ToLower(c.Param("type"))

	var (
		list []*models.Achievement
		err  error
	)
	if kind == "" {
		list, err = p.svc.Achievement.List(ctx)
	} else {
		list, err = p.svc.Achievement.ListByType(ctx, kind)
	}
	data := gin.H{"Title": "Achievements", "Type": kind, "Types": AchievementTypes}
	if err != nil {
		p.logger.Warn().Err(err).Str("type", kind).Msg("Achievements unavailable")
		data["Error"] = userMessage(err)
	}
	data["Achievements"] = list
	p.render(c, http.StatusOK, "achievements", data)
}

func (p *Pages) certifications(c *gin.Context) {
	ctx := c.Request.Context()
	kind := strings.ToLower(c.Param("type"))

	var (
		list []*models.Certification
		err  error
	)
	if kind == "" {
		list, err = p.svc.Certification.List(ctx)
	} else {
		list, err = p.svc.Certification.ListByType(ctx, kind)
	}
	data := gin.H{"Title": "Certifications", "Type": kind, "Types": CertificationTypes}
	if err != nil {
		p.logger.Warn().Err(err).Str("type", kind).Msg("Certifications unavailable")
		data["Error"] = userMessage(err)
	}
	data["Certifications"] = list
	p.render(c, http.StatusOK, "certifications", data)
}

func (p *Pages) placements(c *gin.Context) {
	data := gin.H{"Title": "Placements"}
	stats, list, err := p.svc.Student.Stats(c.Request.Context())
	if err != nil {
		p.logger.Warn().Err(err).Msg("Placements unavailable")
		data["Error"] = userMessage(err)
		stats, list = services.ComputeStats(nil), nil
	}
	placed := make([]*models.Student, 0, stats.Placed)
	for _, st := range list {
		if st.PlacementStatus == models.PlacementPlaced {
			placed = append(placed, st)
		}
	}
	data["Stats"] = stats
	data["Placed"] = placed
	p.render(c, http.StatusOK, "placements", data)
}
