package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/models"
)

func TestSeedDefaultCatalog(t *testing.T) {
	repo := NewLessonRepository(openTestDB(t))
	ctx := context.Background()
	c := catalog.MustDefault()

	n, err := repo.Seed(ctx, c.Lessons())
	require.NoError(t, err)
	assert.Equal(t, len(c.Lessons()), n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)

	want, err := c.Track("Python")
	require.NoError(t, err)
	got, err := repo.ListByTrack(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSeedIsAnUpsert(t *testing.T) {
	repo := NewLessonRepository(openTestDB(t))
	ctx := context.Background()

	lessons := make([]models.Lesson, 60)
	for i := range lessons {
		lessons[i] = models.Lesson{
			ID: fmt.Sprintf("python-%d", i), Title: "Old", Track: "Python", Position: i,
			Difficulty: models.Beginner, XPReward: 50, CoinReward: 10,
		}
	}
	_, err := repo.Seed(ctx, lessons)
	require.NoError(t, err)

	lessons[41].Title = "New"
	_, err = repo.Seed(ctx, lessons)
	require.NoError(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 60, count)

	got, err := repo.ListByTrack(ctx, "Python")
	require.NoError(t, err)
	assert.Equal(t, "New", got[41].Title)
	assert.Equal(t, "Old", got[40].Title)
}
