package model

import "gorm.io/datatypes"

// swagger:model Course
type Course struct {
	BaseModel
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Language    string   `gorm:"size:10;not null" json:"language"`
	Level       string   `gorm:"size:32" json:"level"`
	UserID      uint     `gorm:"index" json:"userId"`
	Modules     []Module `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Module
type Module struct {
	BaseModel
	CourseID uint     `gorm:"index;not null" json:"courseId"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Order    int      `gorm:"column:sort_order;not null" json:"order"`
	Lessons  []Lesson `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID uint   `gorm:"index;not null" json:"moduleId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:longtext" json:"content"`
	Order    int    `gorm:"column:sort_order;not null;default:1" json:"order"`
	Quizzes  []Quiz `gorm:"constraint:OnDelete:CASCADE" json:"quizzes,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// Quiz stores the correct answer as its option text, not the option index.
// swagger:model Quiz
type Quiz struct {
	BaseModel
	LessonID      uint                        `gorm:"index;not null" json:"lessonId"`
	Question      string                      `gorm:"type:text;not null" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	CorrectAnswer string                      `gorm:"size:512;not null" json:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// UserCourse links a learner to a course they are enrolled in.
type UserCourse struct {
	BaseModel
	UserID   uint `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID uint `gorm:"uniqueIndex:idx_user_course;not null" json:"courseId"`
}

func (UserCourse) TableName() string {
	return "user_courses"
}
