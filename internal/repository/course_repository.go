package repository

import (
	"study_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// Transaction runs fn atomically. The course persister builds the whole
// course graph inside one of these so a failure leaves no partial rows.
func (r *CourseRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.DB.Transaction(fn)
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

// FindByIDWithContent loads the full course tree ordered the way it was
// generated.
func (r *CourseRepository) FindByIDWithContent(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.sort_order ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.sort_order ASC")
		}).
		Preload("Modules.Lessons.Quizzes").
		First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindByUser(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.
		Joins("JOIN user_courses ON user_courses.course_id = courses.id").
		Where("user_courses.user_id = ? AND user_courses.deleted_at IS NULL", userID).
		Order("courses.created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Enroll(userID, courseID uint) error {
	uc := model.UserCourse{UserID: userID, CourseID: courseID}
	return r.DB.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		FirstOrCreate(&uc).Error
}

func (r *CourseRepository) IsEnrolled(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserCourse{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) FindLesson(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Quizzes").First(&lesson, id).Error
	return &lesson, err
}

// FindModuleLessons returns the lessons of a module in display order.
func (r *CourseRepository) FindModuleLessons(moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.
		Where("module_id = ?", moduleID).
		Order("sort_order ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}

// FirstLessonAfterModule finds the opening lesson of the next module in
// the course, by module order then lesson order.
func (r *CourseRepository) FirstLessonAfterModule(courseID uint, moduleOrder int) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND modules.sort_order > ?", courseID, moduleOrder).
		Order("modules.sort_order ASC, lessons.sort_order ASC, lessons.id ASC").
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CourseRepository) FindModule(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, id).Error
	return &module, err
}

func (r *CourseRepository) FindQuiz(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

// CourseLessonIDs lists every lesson id belonging to the course.
func (r *CourseRepository) CourseLessonIDs(courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Pluck("lessons.id", &ids).Error
	return ids, err
}
