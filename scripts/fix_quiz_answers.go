// One-time repair for quizzes whose correct answer was stored as an
// option index instead of the option text. New courses always persist
// the option text, so this only matters for data imported from older
// dumps.
//
// Usage: go run scripts/fix_quiz_answers.go

package main

import (
	"log"
	"strconv"
	"study_backend/internal/config"
	"study_backend/internal/model"
	"study_backend/pkg/database"
	"study_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var quizzes []model.Quiz
	if err := db.Find(&quizzes).Error; err != nil {
		log.Fatalf("Failed to load quizzes: %v", err)
	}

	fixed := 0
	for _, quiz := range quizzes {
		idx, err := strconv.Atoi(quiz.CorrectAnswer)
		if err != nil {
			continue
		}
		if idx < 0 || idx >= len(quiz.Options) {
			log.Printf("Quiz %d: index %d out of range for %d options, skipping", quiz.ID, idx, len(quiz.Options))
			continue
		}
		if err := db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).
			Update("correct_answer", quiz.Options[idx]).Error; err != nil {
			log.Fatalf("Quiz %d: update failed: %v", quiz.ID, err)
		}
		fixed++
	}

	log.Printf("Done, fixed %d of %d quizzes", fixed, len(quizzes))
}
