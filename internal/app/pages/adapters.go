package pages

import (
	"context"

	"github.com/yigit/deptportal/internal/app/models"
	"github.com/yigit/deptportal/internal/app/services"
)

// The faculty, student and notification services name their methods after
// their collection; these adapters give them the shared CRUD shape.

type facultyCRUD struct{ services.FacultyService }

func (a facultyCRUD) List(ctx context.Context) ([]*models.Faculty, error) { return a.ListFaculty(ctx) }
func (a facultyCRUD) Get(ctx context.Context, id string) (*models.Faculty, error) {
	return a.GetFaculty(ctx, id)
}
func (a facultyCRUD) Create(ctx context.Context, rec *models.Faculty) (string, error) {
	return a.CreateFaculty(ctx, rec)
}
func (a facultyCRUD) Update(ctx context.Context, id string, partial map[string]any) (*models.Faculty, error) {
	return a.UpdateFaculty(ctx, id, partial)
}
func (a facultyCRUD) Delete(ctx context.Context, id string) error { return a.DeleteFaculty(ctx, id) }

type studentCRUD struct{ services.StudentService }

func (a studentCRUD) List(ctx context.Context) ([]*models.Student, error) { return a.ListStudents(ctx) }
func (a studentCRUD) Get(ctx context.Context, id string) (*models.Student, error) {
	return a.GetStudent(ctx, id)
}
func (a studentCRUD) Create(ctx context.Context, rec *models.Student) (string, error) {
	return a.CreateStudent(ctx, rec)
}
func (a studentCRUD) Update(ctx context.Context, id string, partial map[string]any) (*models.Student, error) {
	return a.UpdateStudent(ctx, id, partial)
}
func (a studentCRUD) Delete(ctx context.Context, id string) error { return a.DeleteStudent(ctx, id) }

type notificationCRUD struct{ services.NotificationService }

func (a notificationCRUD) List(ctx context.Context) ([]*models.Notification, error) {
	return a.ListNotifications(ctx)
}
func (a notificationCRUD) Get(ctx context.Context, id string) (*models.Notification, error) {
	return a.GetNotification(ctx, id)
}
func (a notificationCRUD) Create(ctx context.Context, rec *models.Notification) (string, error) {
	return a.CreateNotification(ctx, rec)
}
func (a notificationCRUD) Update(ctx context.Context, id string, partial map[string]any) (*models.Notification, error) {
	return a.UpdateNotification(ctx, id, partial)
}
func (a notificationCRUD) Delete(ctx context.Context, id string) error {
	return a.DeleteNotification(ctx, id)
}

func adminResources(svc *services.Services) []*resource {
	text := func(name, label string) field { return field{Name: name, Label: label, Kind: kindText} }
	required := func(f field) field { f.Required = true; return f }
	number := func(name, label string) field { return field{Name: name, Label: label, Kind: kindNumber} }

	return []*resource{
		newResource[models.Faculty]("faculty", "Faculty", facultyCRUD{svc.Faculty}, []field{
			required(text("name", "Name")),
			text("designation", "Designation"),
			text("qualification", "Qualification"),
			text("experience", "Experience"),
			text("department", "Department"),
			{Name: "email", Label: "Email", Kind: kindEmail},
			text("phone", "Phone"),
			text("office", "Office"),
			number("order", "Display order"),
			{Name: "isActive", Label: "Active", Kind: kindCheckbox},
			text("imageUrl", "Image URL"),
			{Name: "specializations", Label: "Specializations (comma separated)", Kind: kindList},
			{Name: "bio", Label: "Bio", Kind: kindTextarea},
		}, []string{"name", "designation", "email", "order", "isActive"}),

		newResource[models.Student]("students", "Students", studentCRUD{svc.Student}, []field{
			required(text("usn", "USN")),
			required(text("name", "Name")),
			{Name: "email", Label: "Email", Kind: kindEmail},
			text("phone", "Phone"),
			text("batch", "Batch"),
			number("tenth", "10th %"), number("puc", "PUC %"),
			number("sem1", "Sem 1"), number("sem2", "Sem 2"), number("sem3", "Sem 3"), number("sem4", "Sem 4"),
			number("sem5", "Sem 5"), number("sem6", "Sem 6"), number("sem7", "Sem 7"), number("sem8", "Sem 8"),
			{Name: "placement_status", Label: "Placement status", Kind: kindSelect, Options: []string{"", models.PlacementPlaced, models.PlacementNotPlaced}},
			{Name: "placement_eligible", Label: "Placement eligible", Kind: kindCheckbox},
		}, []string{"usn", "name", "batch", "placement_status", "placement_eligible"}),

		newResource[models.Notification]("notifications", "Notifications", notificationCRUD{svc.Notification}, []field{
			required(text("title", "Title")),
			{Name: "message", Label: "Message", Kind: kindTextarea, Required: true},
			{Name: "active", Label: "Active", Kind: kindCheckbox},
			{Name: "startDate", Label: "Starts", Kind: kindDateTime, Required: true},
			{Name: "endDate", Label: "Ends", Kind: kindDateTime, Required: true},
			{Name: "priority", Label: "Priority", Kind: kindSelect, Options: []string{"normal", "high", "low"}},
			{Name: "type", Label: "Style", Kind: kindSelect, Options: []string{"info", "warning", "success"}},
			text("link", "Link"),
		}, []string{"title", "priority", "active", "startDate", "endDate"}),

		newResource[models.Event]("events", "Events", svc.Event, []field{
			required(text("title", "Title")),
			required(text("type", "Type")),
			text("location", "Location"),
			{Name: "startDate", Label: "Starts", Kind: kindDateTime},
			{Name: "endDate", Label: "Ends", Kind: kindDateTime},
			text("imageUrl", "Image URL"),
			{Name: "description", Label: "Description", Kind: kindTextarea},
		}, []string{"title", "type", "location", "startDate"}),

		newResource[models.Research]("research", "Research", svc.Research, []field{
			required(text("title", "Title")),
			text("category", "Category"),
			text("facultyId", "Faculty ID"),
			{Name: "date", Label: "Date", Kind: kindDate},
			text("link", "Link"),
			{Name: "description", Label: "Description", Kind: kindTextarea},
		}, []string{"title", "category", "date"}),

		newResource[models.Achievement]("achievements", "Achievements", svc.Achievement, []field{
			required(text("title", "Title")),
			text("type", "Type"),
			text("facultyId", "Faculty ID"),
			{Name: "date", Label: "Date", Kind: kindDate},
			text("link", "Link"),
			{Name: "description", Label: "Description", Kind: kindTextarea},
		}, []string{"title", "type", "date"}),

		newResource[models.Certification]("certifications", "Certifications", svc.Certification, []field{
			required(text("title", "Title")),
			{Name: "type", Label: "Type", Kind: kindSelect, Options: []string{"student", "faculty"}, Required: true},
			text("issuer", "Issuer"),
			text("recipient", "Recipient"),
			text("facultyId", "Faculty ID"),
			{Name: "date", Label: "Date", Kind: kindDate},
			text("link", "Link"),
			{Name: "description", Label: "Description", Kind: kindTextarea},
		}, []string{"title", "type", "recipient", "issuer", "date"}),
	}
}
