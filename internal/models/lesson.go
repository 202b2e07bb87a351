package models

// Difficulty is a lesson tier; it fixes the lesson's rewards
type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Advanced     Difficulty = "Advanced"
	Master       Difficulty = "Master"
)

// Rewards returns the xp and coin payout for the tier
func (d Difficulty) Rewards() (xp, coins int) {
	switch d {
	case Beginner:
		return 50, 10
	case Intermediate:
		return 100, 25
	default:
		return 150, 50
	}
}

// Valid reports whether d is a known tier
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced, Master:
		return true
	}
	return false
}

// Lesson is an immutable catalog entry
type Lesson struct {
	ID              string     `json:"id" yaml:"-"`
	Title           string     `json:"title" yaml:"title"`
	Track           string     `json:"track" yaml:"-"`
	Position        int        `json:"position" yaml:"-"`
	Difficulty      Difficulty `json:"difficulty" yaml:"difficulty"`
	Description     string     `json:"description" yaml:"description"`
	Concept         string     `json:"concept" yaml:"concept"`
	InitialCode     string     `json:"initialCode" yaml:"initial"`
	SolutionCode    string     `json:"solutionCode" yaml:"solution"`
	SuccessCriteria string     `json:"successCriteria" yaml:"criteria"`
	XPReward        int        `json:"xpReward" yaml:"-"`
	CoinReward      int        `json:"coinReward" yaml:"-"`
}

// StoryChapter is one step of the story campaign
type StoryChapter struct {
	Index           int    `json:"index" yaml:"-"`
	Title           string `json:"title" yaml:"title"`
	Track           string `json:"track" yaml:"track"`
	Theme           string `json:"theme" yaml:"theme"`
	PlotIntro       string `json:"plotIntro" yaml:"intro"`
	PlotOutro       string `json:"plotOutro" yaml:"outro"`
	TaskDescription string `json:"taskDescription" yaml:"task"`
	InitialCode     string `json:"initialCode" yaml:"initial"`
	SuccessCriteria string `json:"successCriteria" yaml:"criteria"`
	XPReward        int    `json:"xpReward" yaml:"xp"`
}

// Challenge is the timed championship problem
type Challenge struct {
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	Track           string `json:"track" yaml:"track"`
	SuccessCriteria string `json:"successCriteria" yaml:"criteria"`
	TimeLimitSecs   int    `json:"timeLimitSecs" yaml:"time_limit_secs"`
}
