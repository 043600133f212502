package services

// Services defined in this package:
// - AuthService: sign-in, sign-up, sign-out, password reset, token checks
// - FacultyService: faculty records and their images
// - StudentService: student records and placement statistics
// - NotificationService: home page notification selection and rotation
// - ResearchService, AchievementService, EventService, CertificationService:
//   simple collections

// Services groups every service the HTTP layer needs.
type Services struct {
	Auth          *AuthService
	Faculty       FacultyService
	Student       StudentService
	Notification  NotificationService
	Research      ResearchService
	Achievement   AchievementService
	Event         EventService
	Certification CertificationService
}
