package service

import (
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"study_backend/internal/util"
)

// CourseService serves the browsing surface: dashboard, course detail
// and lesson navigation.
type CourseService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	Progress     *ProgressService
}

func NewCourseService(courseRepo *repository.CourseRepository, progressRepo *repository.ProgressRepository, progress *ProgressService) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		Progress:     progress,
	}
}

type DashboardCourse struct {
	model.Course
	Progress int `json:"progress"`
}

type Dashboard struct {
	Courses []DashboardCourse `json:"courses"`
	UserXP  int               `json:"userXp"`
}

// GetDashboard lists the user's enrolled courses with completion
// percentages and total XP.
func (s *CourseService) GetDashboard(userID uint) (*Dashboard, error) {
	courses, err := s.CourseRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{Courses: make([]DashboardCourse, 0, len(courses))}
	for _, course := range courses {
		progress, err := s.Progress.CourseProgress(userID, course.ID)
		if err != nil {
			return nil, err
		}
		dashboard.Courses = append(dashboard.Courses, DashboardCourse{Course: course, Progress: progress})
	}

	xp, err := s.Progress.TotalXP(userID)
	if err != nil {
		return nil, err
	}
	dashboard.UserXP = xp

	return dashboard, nil
}

type CourseDetail struct {
	Course             *model.Course `json:"course"`
	CompletedLessonIDs []uint        `json:"completedLessonIds"`
	IsCompleted        bool          `json:"isCompleted"`
	UserXP             int           `json:"userXp"`
}

func (s *CourseService) GetCourseDetail(userID, courseID uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByIDWithContent(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	var completedIDs []uint
	for _, module := range course.Modules {
		for _, lesson := range module.Lessons {
			if s.Progress.IsLessonCompleted(userID, lesson.ID) {
				completedIDs = append(completedIDs, lesson.ID)
			}
		}
	}

	done, err := s.Progress.IsCourseCompleted(userID, courseID)
	if err != nil {
		return nil, err
	}

	xp, err := s.Progress.TotalXP(userID)
	if err != nil {
		return nil, err
	}

	return &CourseDetail{
		Course:             course,
		CompletedLessonIDs: completedIDs,
		IsCompleted:        done,
		UserXP:             xp,
	}, nil
}

type LessonDetail struct {
	Lesson           *model.Lesson `json:"lesson"`
	IsCompleted      bool          `json:"isCompleted"`
	PreviousLessonID *uint         `json:"previousLessonId,omitempty"`
	NextLessonID     *uint         `json:"nextLessonId,omitempty"`
	UserXP           int           `json:"userXp"`
}

// GetLessonDetail returns one lesson with its quizzes and the previous
// and next lessons of the same module for navigation.
func (s *CourseService) GetLessonDetail(userID, lessonID uint) (*LessonDetail, error) {
	lesson, err := s.CourseRepo.FindLesson(lessonID)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}

	detail := &LessonDetail{
		Lesson:      lesson,
		IsCompleted: s.Progress.IsLessonCompleted(userID, lessonID),
	}

	lessons, err := s.CourseRepo.FindModuleLessons(lesson.ModuleID)
	if err != nil {
		return nil, err
	}
	for i, l := range lessons {
		if l.ID != lessonID {
			continue
		}
		if i > 0 {
			id := lessons[i-1].ID
			detail.PreviousLessonID = &id
		}
		if i+1 < len(lessons) {
			id := lessons[i+1].ID
			detail.NextLessonID = &id
		}
		break
	}

	xp, err := s.Progress.TotalXP(userID)
	if err != nil {
		return nil, err
	}
	detail.UserXP = xp

	return detail, nil
}
