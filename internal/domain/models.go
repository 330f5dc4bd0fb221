package domain

import (
	"time"
)

type Team struct {
	Name     string `yaml:"name"`
	Code     int    `yaml:"code"`
	LogoFile string `yaml:"logo"`
}

// Selection is the pair of teams on the page. Home and Away never hold the same name.
type Selection struct {
	Home Team
	Away Team
}

type PredictionRequest struct {
	HomeCode int `json:"equipo_local_id"`
	AwayCode int `json:"equipo_visitante_id"`
}

// Pointer fields are absent when the backend omitted them or sent null.
type MatchOutcome struct {
	HomeGoalsRounded *float64
	AwayGoalsRounded *float64
	OutcomeCode      *int
	AsOf             string
	ModelType        string
	ModelVersion     string
	Note             string
}

type Corners struct {
	TotalCorners *float64
	ModelType    string
	ModelVersion string
	ScalerType   string
	Note         string
}

type History struct {
	TotalMatches         *int
	AvgGoalsPerMatch     *float64
	HomeWins             *int
	Draws                *int
	AwayWins             *int
	AvgHomePossessionPct *float64
	AvgAwayPossessionPct *float64
}

// PredictionResult is the merge of the three backend calls for one predict action.
// When Error is non-empty every other section is ignored.
type PredictionResult struct {
	Outcome *MatchOutcome
	Corners *Corners
	History *History
	Error   string
}

type PredictionRecord struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	HomeCode     int       `json:"home_code"`
	AwayCode     int       `json:"away_code"`
	OutcomeCode  *int      `json:"outcome_code"`
	HomeGoals    *float64  `json:"home_goals"`
	AwayGoals    *float64  `json:"away_goals"`
	TotalCorners *float64  `json:"total_corners"`
	ModelVersion string    `json:"model_version,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
