package progression

import (
	"strings"

	"nextgenacademy/internal/models"
)

// Certificates reports completion per track. A lesson counts toward a track
// only if the catalog places it there, whatever its id looks like.
// Tracks without lessons are omitted.
func (e *Engine) Certificates(p models.Profile) []models.Certificate {
	var out []models.Certificate
	for _, track := range e.lessons.Tracks() {
		lessons, err := e.lessons.Track(track)
		if err != nil || len(lessons) == 0 {
			continue
		}

		completed := 0
		for _, l := range lessons {
			if p.HasCompleted(l.ID) {
				completed++
			}
		}

		progress := min(float64(completed)/float64(len(lessons)), 1)
		out = append(out, models.Certificate{
			Track:     track,
			Completed: completed,
			Total:     len(lessons),
			Progress:  progress,
			Earned:    completed >= len(lessons),
		})
	}
	return out
}

func normalizeTrack(track string) string {
	return strings.ToLower(strings.TrimSpace(track))
}
