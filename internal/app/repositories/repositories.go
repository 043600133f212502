package repositories

import (
	"github.com/yigit/deptportal/internal/docstore"
)

// Repositories holds all the repository instances
type Repositories struct {
	FacultyRepository       *FacultyRepository
	StudentRepository       *StudentRepository
	NotificationRepository  *NotificationRepository
	ResearchRepository      *ResearchRepository
	AchievementRepository   *AchievementRepository
	EventRepository         *EventRepository
	CertificationRepository *CertificationRepository
	UserRepository          *UserRepository
	SessionRepository       *SessionRepository
}

// NewRepositories initializes all repositories over one store
func NewRepositories(store docstore.Store) *Repositories {
	return &Repositories{
		FacultyRepository:       NewFacultyRepository(store),
		StudentRepository:       NewStudentRepository(store),
		NotificationRepository:  NewNotificationRepository(store),
		ResearchRepository:      NewResearchRepository(store),
		AchievementRepository:   NewAchievementRepository(store),
		EventRepository:         NewEventRepository(store),
		CertificationRepository: NewCertificationRepository(store),
		UserRepository:          NewUserRepository(store),
		SessionRepository:       NewSessionRepository(store),
	}
}
