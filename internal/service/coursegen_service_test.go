package service

import (
	"context"
	"study_backend/internal/model"
	"study_backend/internal/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeModelJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "plain object",
			raw:      `{"title": "Spanish"}`,
			expected: `{"title": "Spanish"}`,
		},
		{
			name:     "json fence",
			raw:      "```json\n{\"title\": \"Spanish\"}\n```",
			expected: `{"title": "Spanish"}`,
		},
		{
			name:     "bare fence",
			raw:      "```\n{\"title\": \"Spanish\"}\n```",
			expected: `{"title": "Spanish"}`,
		},
		{
			name:     "surrounding prose",
			raw:      "Here is your course:\n{\"title\": \"Spanish\"}\nEnjoy!",
			expected: `{"title": "Spanish"}`,
		},
		{
			name:     "whitespace only",
			raw:      "  \n\t",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeModelJSON(tt.raw))
		})
	}
}

func TestRepairJSONEscapes(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "stray latex escape",
			text:     `{"content": "\alpha"}`,
			expected: `{"content": "\\alpha"}`,
		},
		{
			name:     "legal escapes untouched",
			text:     `{"content": "line\nbreak \"quoted\""}`,
			expected: `{"content": "line\nbreak \"quoted\""}`,
		},
		{
			name:     "mixed",
			text:     `{"content": "\n and \d"}`,
			expected: `{"content": "\n and \\d"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RepairJSONEscapes(tt.text))
		})
	}
}

func TestParseGeneratedCourse(t *testing.T) {
	t.Run("valid course", func(t *testing.T) {
		raw := "```json\n" + `{
			"title": "Spanish Basics",
			"description": "Intro course",
			"modules": [
				{"title": "Greetings", "order": 1, "lessons": [
					{"title": "Hello", "content": "Hola", "order": 1, "quizzes": [
						{"question": "How do you say hello?", "options": ["Hola", "Adios"], "correct_answer": 0}
					]}
				]}
			]
		}` + "\n```"

		course, err := ParseGeneratedCourse(raw)
		require.NoError(t, err)
		assert.Equal(t, "Spanish Basics", course.Title)
		require.Len(t, course.Modules, 1)
		require.Len(t, course.Modules[0].Lessons, 1)
		assert.Equal(t, 0, course.Modules[0].Lessons[0].Quizzes[0].CorrectAnswer)
	})

	t.Run("repairable escapes", func(t *testing.T) {
		raw := `{"title": "Math", "modules": [{"title": "Algebra \alpha", "order": 1, "lessons": []}]}`

		course, err := ParseGeneratedCourse(raw)
		require.NoError(t, err)
		assert.Equal(t, `Algebra \alpha`, course.Modules[0].Title)
	})

	t.Run("irreparable output", func(t *testing.T) {
		_, err := ParseGeneratedCourse(`{"title": "broken`)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	t.Run("missing modules", func(t *testing.T) {
		_, err := ParseGeneratedCourse(`{"title": "Empty", "modules": []}`)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := ParseGeneratedCourse(`{"modules": [{"title": "M1", "order": 1}]}`)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedOutput)
	})
}

func TestPersistCourse(t *testing.T) {
	data := func() *GeneratedCourse {
		return &GeneratedCourse{
			Title:       "Spanish Basics",
			Description: "Intro",
			Modules: []GeneratedModule{
				{Title: "Greetings", Order: 1, Lessons: []GeneratedLesson{
					{Title: "Hello", Content: "Hola", Order: 1, Quizzes: []GeneratedQuiz{
						{Question: "Hello?", Options: []string{"Hola", "Adios"}, CorrectAnswer: 0},
					}},
					{Title: "Goodbye", Content: "Adios", Quizzes: []GeneratedQuiz{
						{Question: "Bye?", Options: []string{"Hola", "Adios"}, CorrectAnswer: 1},
					}},
				}},
			},
		}
	}

	t.Run("persists full graph and enrolls user", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "ana", model.LangEnglish)
		svc := NewCourseGenService(nil, repository.NewCourseRepository(db), repository.NewUserRepository(db))

		course, err := svc.PersistCourse(data(), model.LangEnglish, user.ID)
		require.NoError(t, err)
		assert.NotZero(t, course.ID)

		var moduleCount, lessonCount, quizCount int64
		db.Model(&model.Module{}).Count(&moduleCount)
		db.Model(&model.Lesson{}).Count(&lessonCount)
		db.Model(&model.Quiz{}).Count(&quizCount)
		assert.EqualValues(t, 1, moduleCount)
		assert.EqualValues(t, 2, lessonCount)
		assert.EqualValues(t, 2, quizCount)

		var quiz model.Quiz
		require.NoError(t, db.Where("question = ?", "Bye?").First(&quiz).Error)
		assert.Equal(t, "Adios", quiz.CorrectAnswer)

		var enrolled int64
		db.Model(&model.UserCourse{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&enrolled)
		assert.EqualValues(t, 1, enrolled)
	})

	t.Run("defaults lesson order to one", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewCourseGenService(nil, repository.NewCourseRepository(db), repository.NewUserRepository(db))

		_, err := svc.PersistCourse(data(), model.LangEnglish, 0)
		require.NoError(t, err)

		var lesson model.Lesson
		require.NoError(t, db.Where("title = ?", "Goodbye").First(&lesson).Error)
		assert.Equal(t, 1, lesson.Order)
	})

	t.Run("singular quiz key appended after quizzes", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewCourseGenService(nil, repository.NewCourseRepository(db), repository.NewUserRepository(db))

		d := data()
		d.Modules[0].Lessons[0].Quiz = &GeneratedQuiz{
			Question: "Extra?", Options: []string{"a", "b"}, CorrectAnswer: 1,
		}
		_, err := svc.PersistCourse(d, model.LangEnglish, 0)
		require.NoError(t, err)

		var quizzes []model.Quiz
		require.NoError(t, db.Order("id").Find(&quizzes).Error)
		require.Len(t, quizzes, 3)
		assert.Equal(t, "Hello?", quizzes[0].Question)
		assert.Equal(t, "Extra?", quizzes[1].Question)
	})

	t.Run("out of range answer rolls everything back", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewCourseGenService(nil, repository.NewCourseRepository(db), repository.NewUserRepository(db))

		d := data()
		d.Modules[0].Lessons[1].Quizzes[0].CorrectAnswer = 7
		_, err := svc.PersistCourse(d, model.LangEnglish, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedOutput)

		var courseCount, lessonCount int64
		db.Model(&model.Course{}).Count(&courseCount)
		db.Model(&model.Lesson{}).Count(&lessonCount)
		assert.EqualValues(t, 0, courseCount)
		assert.EqualValues(t, 0, lessonCount)
	})

	t.Run("no enrollment without user", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewCourseGenService(nil, repository.NewCourseRepository(db), repository.NewUserRepository(db))

		_, err := svc.PersistCourse(data(), model.LangEnglish, 0)
		require.NoError(t, err)

		var enrolled int64
		db.Model(&model.UserCourse{}).Count(&enrolled)
		assert.EqualValues(t, 0, enrolled)
	})
}

func TestGenerateCoursePipeline(t *testing.T) {
	raw := "```json\n" + `{
		"title": "Karakalpak for Beginners",
		"description": "Basics",
		"modules": [
			{"title": "Alphabet", "order": 1, "lessons": [
				{"title": "Letters", "content": "A B C", "order": 1, "quizzes": [
					{"question": "First letter?", "options": ["A", "B"], "correct_answer": 0}
				]}
			]}
		]
	}` + "\n```"

	srv := newAIServer(t, raw)
	defer srv.Close()

	db := newTestDB(t)
	user := seedUser(t, db, "bek", model.LangKarakalpak)
	svc := NewCourseGenService(newTestAIService(srv.URL), repository.NewCourseRepository(db), repository.NewUserRepository(db))

	course, err := svc.GenerateCourse(context.Background(), user.ID, "Karakalpak", model.LangKarakalpak)
	require.NoError(t, err)
	assert.Equal(t, "Karakalpak for Beginners", course.Title)
	assert.Equal(t, model.LangKarakalpak, course.Language)

	var quiz model.Quiz
	require.NoError(t, db.First(&quiz).Error)
	assert.Equal(t, "A", quiz.CorrectAnswer)
}
