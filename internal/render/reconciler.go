// Package render projects a merged prediction result onto the page's display fields.
package render

import (
	"fmt"
	"math"
	"strconv"

	"ligapro-predictor/internal/domain"
)

// Placeholder is shown in place of any unavailable value.
const Placeholder = "—"

type Triple struct {
	Home string `json:"home"`
	Draw string `json:"draw"`
	Away string `json:"away"`
}

type HistoryFields struct {
	TotalMatches   string `json:"total_matches"`
	AvgGoals       string `json:"avg_goals"`
	HomeWins       string `json:"home_wins"`
	Draws          string `json:"draws"`
	AwayWins       string `json:"away_wins"`
	HomePossession string `json:"home_possession"`
	AwayPossession string `json:"away_possession"`
}

// State is every display field the predict action writes.
type State struct {
	Bars    Triple        `json:"bars"`
	Percent Triple        `json:"percent"`
	Score   string        `json:"score"`
	Corners string        `json:"corners"`
	History HistoryFields `json:"history"`
}

type View struct {
	State  State  `json:"state"`
	Notice string `json:"notice,omitempty"`
}

type odds struct {
	home, draw, away float64
}

// Outcome probabilities are fixed buckets keyed by the outcome code, not model output.
var (
	homeWinOdds = odds{home: 0.60, draw: 0.25, away: 0.15}
	drawOdds    = odds{home: 0.25, draw: 0.50, away: 0.25}
	awayWinOdds = odds{home: 0.15, draw: 0.25, away: 0.60}
)

func Blank() State {
	return State{
		Bars:    Triple{Home: "0%", Draw: "0%", Away: "0%"},
		Percent: Triple{Home: Placeholder, Draw: Placeholder, Away: Placeholder},
		Score:   Placeholder,
		Corners: Placeholder,
		History: HistoryFields{
			TotalMatches:   Placeholder,
			AvgGoals:       Placeholder,
			HomeWins:       Placeholder,
			Draws:          Placeholder,
			AwayWins:       Placeholder,
			HomePossession: Placeholder,
			AwayPossession: Placeholder,
		},
	}
}

// Failure is the blank baseline with a user notice.
func Failure(notice string) View {
	return View{State: Blank(), Notice: notice}
}

// Reconcile maps a merged result onto the display fields.
//
// A goal count of zero counts as missing, so a predicted 0-0 (or any score with a
// zero) renders blank. This matches the page's long-standing behaviour.
func Reconcile(res *domain.PredictionResult) View {
	if res == nil {
		return View{State: Blank()}
	}
	if res.Error != "" {
		return Failure(res.Error)
	}
	o := res.Outcome
	if o == nil || !present(o.HomeGoalsRounded) || !present(o.AwayGoalsRounded) {
		return View{State: Blank()}
	}

	s := Blank()
	s.Score = fmt.Sprintf("%s - %s", number(*o.HomeGoalsRounded), number(*o.AwayGoalsRounded))

	p := oddsFor(o.OutcomeCode)
	s.Bars = Triple{Home: width(p.home), Draw: width(p.draw), Away: width(p.away)}
	s.Percent = Triple{Home: percent(p.home), Draw: percent(p.draw), Away: percent(p.away)}

	if res.Corners != nil && res.Corners.TotalCorners != nil {
		s.Corners = strconv.Itoa(int(math.Round(*res.Corners.TotalCorners)))
	}

	if h := res.History; h != nil {
		s.History = HistoryFields{
			TotalMatches:   intField(h.TotalMatches),
			AvgGoals:       avgGoals(h.AvgGoalsPerMatch),
			HomeWins:       intField(h.HomeWins),
			Draws:          intField(h.Draws),
			AwayWins:       intField(h.AwayWins),
			HomePossession: possession(h.AvgHomePossessionPct),
			AwayPossession: possession(h.AvgAwayPossessionPct),
		}
	}

	return View{State: s}
}

func present(v *float64) bool {
	return v != nil && *v != 0
}

func oddsFor(code *int) odds {
	if code == nil {
		return awayWinOdds
	}
	switch *code {
	case 1:
		return homeWinOdds
	case 0:
		return drawOdds
	default:
		return awayWinOdds
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func width(p float64) string {
	return number(math.Round(p*100)) + "%"
}

func percent(p float64) string {
	return strconv.Itoa(int(math.Round(p*100))) + "%"
}

func intField(v *int) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(*v)
}

func avgGoals(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + " per match"
}

func possession(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.Itoa(int(math.Round(*v))) + "%"
}
