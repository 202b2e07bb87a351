package repository

import (
	"context"
	"fmt"
	"strings"

	"nextgenacademy/internal/database"
	"nextgenacademy/internal/models"
)

// lessonSeedChunk is how many lessons go into one INSERT
const lessonSeedChunk = 25

var lessonColumns = []string{
	"id", "title", "language", "position", "difficulty", "description", "concept",
	"initial_code", "solution_code", "solution_criteria", "xp_reward", "coin_reward",
}

// LessonRepository mirrors the content catalog into the lessons table
type LessonRepository struct {
	db *database.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *database.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// Seed upserts every lesson, chunked, in one transaction
func (r *LessonRepository) Seed(ctx context.Context, lessons []models.Lesson) (int, error) {
	cols := strings.Join(lessonColumns, ", ")
	suffix := r.db.Dialect.UpsertSuffix("id", lessonColumns)

	err := r.db.WithTx(ctx, func(tx *database.Tx) error {
		for start := 0; start < len(lessons); start += lessonSeedChunk {
			chunk := lessons[start:min(start+lessonSeedChunk, len(lessons))]

			args := make([]any, 0, len(chunk)*len(lessonColumns))
			for _, l := range chunk {
				args = append(args,
					l.ID, l.Title, l.Track, l.Position, string(l.Difficulty), l.Description, l.Concept,
					l.InitialCode, l.SolutionCode, l.SuccessCriteria, l.XPReward, l.CoinReward,
				)
			}

			query := "INSERT INTO lessons (" + cols + ") VALUES " +
				database.InsertValues(len(chunk), len(lessonColumns)) + suffix
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to seed lessons %d-%d: %w", start, start+len(chunk)-1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(lessons), nil
}

// Count returns the number of seeded lessons
func (r *LessonRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lessons").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return n, nil
}

// ListByTrack returns the seeded lessons of a track in order
func (r *LessonRepository) ListByTrack(ctx context.Context, track string) ([]models.Lesson, error) {
	query := `
		SELECT id, title, language, position, difficulty, description, concept,
			initial_code, solution_code, solution_criteria, xp_reward, coin_reward
		FROM lessons
		WHERE LOWER(language) = LOWER(?)
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, track)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		var difficulty string
		if err := rows.Scan(&l.ID, &l.Title, &l.Track, &l.Position, &difficulty, &l.Description, &l.Concept,
			&l.InitialCode, &l.SolutionCode, &l.SuccessCriteria, &l.XPReward, &l.CoinReward); err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		l.Difficulty = models.Difficulty(difficulty)
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}
