package models

// LeaderboardEntry is one row of the xp or championship board
type LeaderboardEntry struct {
	Rank             int          `json:"rank"`
	Name             string       `json:"name"`
	XP               int          `json:"xp"`
	Level            int          `json:"level"`
	ChampionshipWins int          `json:"championshipWins"`
	Avatar           AvatarConfig `json:"avatar"`
	IsFriend         bool         `json:"isFriend"`
	IsCurrentUser    bool         `json:"isCurrentUser"`
}

// Certificate reports how far a learner is through one track
type Certificate struct {
	Track     string  `json:"track"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Progress  float64 `json:"progress"`
	Earned    bool    `json:"earned"`
}

// Legend is a seeded leaderboard rival that always appears on the boards
type Legend struct {
	Name             string `json:"name" yaml:"name"`
	XP               int    `json:"xp" yaml:"xp"`
	ChampionshipWins int    `json:"championshipWins" yaml:"wins"`
	Color            string `json:"color" yaml:"color"`
	Accessory        string `json:"accessory" yaml:"accessory"`
}
