// Package catalog holds the immutable lesson tracks, story chapters and
// championship challenge the academy is built around.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"nextgenacademy/internal/models"
)

//go:embed content.yaml
var defaultContent []byte

var (
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrTrackNotFound   = errors.New("track not found")
	ErrChapterNotFound = errors.New("chapter not found")
)

type trackDoc struct {
	Name    string          `yaml:"name"`
	Lessons []models.Lesson `yaml:"lessons"`
}

type contentDoc struct {
	Tracks    []trackDoc            `yaml:"tracks"`
	Chapters  []models.StoryChapter `yaml:"chapters"`
	Challenge models.Challenge      `yaml:"challenge"`
	Legends   []models.Legend       `yaml:"legends"`
}

// Catalog is read-only after construction and safe for concurrent use
type Catalog struct {
	trackNames []string
	tracks     map[string][]models.Lesson // keyed by lower-cased track name
	lessons    map[string]models.Lesson
	chapters   []models.StoryChapter
	challenge  models.Challenge
	legends    []models.Legend
}

// Default returns the catalog built from the embedded content
func Default() (*Catalog, error) {
	return Parse(defaultContent)
}

// MustDefault is Default for program start-up, where bad embedded content is a build defect
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from a YAML document
func Parse(data []byte) (*Catalog, error) {
	var doc contentDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		tracks:    make(map[string][]models.Lesson),
		lessons:   make(map[string]models.Lesson),
		challenge: doc.Challenge,
		legends:   doc.Legends,
	}

	for _, t := range doc.Tracks {
		key := trackKey(t.Name)
		if _, dup := c.tracks[key]; dup {
			return nil, fmt.Errorf("duplicate track %q", t.Name)
		}
		lessons := make([]models.Lesson, 0, len(t.Lessons))
		for i, l := range t.Lessons {
			if !l.Difficulty.Valid() {
				return nil, fmt.Errorf("lesson %d of %s: unknown difficulty %q", i, t.Name, l.Difficulty)
			}
			l.ID = LessonID(t.Name, i)
			l.Track = t.Name
			l.Position = i
			l.XPReward, l.CoinReward = l.Difficulty.Rewards()
			if l.SuccessCriteria == "" {
				l.SuccessCriteria = fmt.Sprintf("Complete the task using %s.", t.Name)
			}
			if l.Concept == "" {
				l.Concept = conceptText(l)
			}
			lessons = append(lessons, l)
			c.lessons[l.ID] = l
		}
		c.trackNames = append(c.trackNames, t.Name)
		c.tracks[key] = lessons
	}

	for i := range doc.Chapters {
		doc.Chapters[i].Index = i
	}
	c.chapters = doc.Chapters

	return c, nil
}

// LessonID builds the stable identifier of the lesson at position in track
func LessonID(track string, position int) string {
	return fmt.Sprintf("%s-%d", trackKey(track), position)
}

func trackKey(track string) string {
	return strings.ToLower(strings.TrimSpace(track))
}

func conceptText(l models.Lesson) string {
	example, _, _ := strings.Cut(l.SolutionCode, "\n")
	return fmt.Sprintf("Concept: %s\n\n%s\n\nExample:\n%s", l.Title, l.Description, example)
}

// Tracks returns the track names in declared order
func (c *Catalog) Tracks() []string {
	out := make([]string, len(c.trackNames))
	copy(out, c.trackNames)
	return out
}

// Track returns the ordered lessons of a track, matched case-insensitively
func (c *Catalog) Track(track string) ([]models.Lesson, error) {
	lessons, ok := c.tracks[trackKey(track)]
	if !ok {
		return nil, ErrTrackNotFound
	}
	out := make([]models.Lesson, len(lessons))
	copy(out, lessons)
	return out, nil
}

// Lesson looks up a lesson by id
func (c *Catalog) Lesson(id string) (models.Lesson, error) {
	l, ok := c.lessons[id]
	if !ok {
		return models.Lesson{}, ErrLessonNotFound
	}
	return l, nil
}

// Previous returns the lesson immediately before id in its track.
// ok is false for the first lesson of a track.
func (c *Catalog) Previous(id string) (prev models.Lesson, ok bool, err error) {
	l, err := c.Lesson(id)
	if err != nil {
		return models.Lesson{}, false, err
	}
	if l.Position == 0 {
		return models.Lesson{}, false, nil
	}
	return c.tracks[trackKey(l.Track)][l.Position-1], true, nil
}

// Lessons returns every lesson across all tracks in track order
func (c *Catalog) Lessons() []models.Lesson {
	var out []models.Lesson
	for _, name := range c.trackNames {
		out = append(out, c.tracks[trackKey(name)]...)
	}
	return out
}

// Chapters returns the story chapters in order
func (c *Catalog) Chapters() []models.StoryChapter {
	out := make([]models.StoryChapter, len(c.chapters))
	copy(out, c.chapters)
	return out
}

// Chapter returns the chapter at index
func (c *Catalog) Chapter(index int) (models.StoryChapter, error) {
	if index < 0 || index >= len(c.chapters) {
		return models.StoryChapter{}, ErrChapterNotFound
	}
	return c.chapters[index], nil
}

// Challenge returns the championship problem
func (c *Catalog) Challenge() models.Challenge {
	return c.challenge
}

// Legends returns the seeded leaderboard rivals
func (c *Catalog) Legends() []models.Legend {
	out := make([]models.Legend, len(c.legends))
	copy(out, c.legends)
	return out
}
