package projection

import (
	"math"
	"sort"
	"time"

	"github.com/fortuna/pythia/internal/model"
	"github.com/fortuna/pythia/internal/pipeline"
)

// Projection is one output row. Recent values are the player's trailing
// window going into the game; projected values come from the models.
type Projection struct {
	Player            string  `json:"player"`
	Team              string  `json:"team"`
	Opponent          string  `json:"opponent"`
	ProjectedPoints   float64 `json:"projected_points"`
	RecentPoints      float64 `json:"recent_points"`
	ProjectedRebounds float64 `json:"projected_rebounds"`
	RecentRebounds    float64 `json:"recent_rebounds"`
	ProjectedAssists  float64 `json:"projected_assists"`
	RecentAssists     float64 `json:"recent_assists"`
}

// Candidate is a player expected to play on the target date, with the
// feature row the models will score.
type Candidate struct {
	Player  string
	Team    string
	Example model.Example
}

// BuildCandidates assembles the prediction input for every player on a
// team with a game on the target date. The player's team and position come
// from their most recent row strictly before the target date; current form
// is the mean of their last FormWindow games before that date. Players
// without enough history produce no candidate. MissingPoints is forced to
// zero: same-day absences are unknown at prediction time.
func BuildCandidates(history []pipeline.EnrichedRow, schedule []pipeline.ScheduleEntry, target time.Time, cfg pipeline.Config) []Candidate {
	targetDay := target.Format("2006-01-02")

	// Opponent and venue per team playing today.
	type matchup struct {
		opponent string
		isHome   bool
	}
	playing := make(map[string]matchup)
	for _, entry := range schedule {
		if entry.Date.Format("2006-01-02") != targetDay {
			continue
		}
		playing[entry.HomeTeam] = matchup{opponent: entry.AwayTeam, isHome: true}
		playing[entry.AwayTeam] = matchup{opponent: entry.HomeTeam, isHome: false}
	}

	prior := make([]pipeline.EnrichedRow, 0, len(history))
	for _, row := range history {
		if row.Date.Format("2006-01-02") < targetDay {
			prior = append(prior, row)
		}
	}

	// Most recent known row per player decides team and position.
	latest := make(map[string]pipeline.EnrichedRow)
	for _, row := range prior {
		cur, seen := latest[row.Player]
		if !seen || row.Date.After(cur.Date) {
			latest[row.Player] = row
		}
	}

	rest := pipeline.TeamRestDays(schedule)

	players := make([]string, 0, len(latest))
	for player := range latest {
		players = append(players, player)
	}
	sort.Strings(players)

	var candidates []Candidate
	for _, player := range players {
		last := latest[player]
		game, plays := playing[last.Team]
		if !plays {
			continue
		}

		form, ok := pipeline.CurrentForm(prior, player, cfg)
		if !ok {
			continue
		}

		candidates = append(candidates, Candidate{
			Player: player,
			Team:   last.Team,
			Example: model.Example{
				IsHome:        game.isHome,
				RestDays:      float64(rest.For(last.Team, target)),
				MissingPoints: 0,
				TrailPoints:   form.TrailPoints,
				TrailRebounds: form.TrailRebounds,
				TrailAssists:  form.TrailAssists,
				TrailMinutes:  form.TrailMinutes,
				TrailFGA:      form.TrailFGA,
				SeasonPoints:  form.SeasonPoints,
				FormDelta:     form.Delta,
				Position:      last.CoarsePosition,
				Opponent:      game.opponent,
			},
		})
	}

	return candidates
}

// Project scores candidates and returns the output rows sorted by
// projected points, highest first. Candidates are dropped when the player
// is in the exclusion set, when trailing minutes fall below minMinutes, or
// when a categorical value was never seen in training.
func Project(models *model.Models, candidates []Candidate, exclusions map[string]struct{}, minMinutes float64) []Projection {
	var projections []Projection
	for _, c := range candidates {
		if _, excluded := exclusions[c.Player]; excluded {
			continue
		}
		if c.Example.TrailMinutes < minMinutes {
			continue
		}

		points, rebounds, assists, ok := models.Predict(c.Example)
		if !ok {
			continue
		}

		projections = append(projections, Projection{
			Player:            c.Player,
			Team:              c.Team,
			Opponent:          c.Example.Opponent,
			ProjectedPoints:   round1(points),
			RecentPoints:      round1(c.Example.TrailPoints),
			ProjectedRebounds: round1(rebounds),
			RecentRebounds:    round1(c.Example.TrailRebounds),
			ProjectedAssists:  round1(assists),
			RecentAssists:     round1(c.Example.TrailAssists),
		})
	}

	sort.Slice(projections, func(i, j int) bool {
		if projections[i].ProjectedPoints != projections[j].ProjectedPoints {
			return projections[i].ProjectedPoints > projections[j].ProjectedPoints
		}
		return projections[i].Player < projections[j].Player
	})

	return projections
}

// Matchups lists the target date's games as "AWY vs HOM" strings, one per
// game, for the dashboard dropdown.
func Matchups(schedule []pipeline.ScheduleEntry, target time.Time) []string {
	targetDay := target.Format("2006-01-02")

	var matchups []string
	for _, entry := range schedule {
		if entry.Date.Format("2006-01-02") != targetDay {
			continue
		}
		matchups = append(matchups, entry.AwayTeam+" vs "+entry.HomeTeam)
	}
	sort.Strings(matchups)
	return matchups
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
