package pipeline

import (
	"database/sql"
	"time"
)

// PlayerGameRecord is one player's line from one game's box score, as
// ingested into Atlas. Records are immutable once loaded; the pipeline
// never writes back.
type PlayerGameRecord struct {
	Player            string    `json:"player"`
	Team              string    `json:"team"`
	GameID            string    `json:"game_id"`
	Date              time.Time `json:"date"`
	Position          string    `json:"position"`
	Minutes           string    `json:"minutes"`
	Points            int       `json:"points"`
	Rebounds          int       `json:"rebounds"`
	Assists           int       `json:"assists"`
	FieldGoalAttempts int       `json:"field_goal_attempts"`
	DidNotPlay        bool      `json:"did_not_play"`
}

// ScheduleEntry is one scheduled game.
type ScheduleEntry struct {
	GameID   string    `json:"game_id"`
	Date     time.Time `json:"date"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
}

// QualityProfile summarizes a player's season production for a single team.
// Computed over played games only (DidNotPlay = false).
type QualityProfile struct {
	GamesPlayed int
	AvgPoints   float64
	AvgMinutes  float64
}

// EnrichedRow is a PlayerGameRecord with derived features attached.
// MinutesPlayed is invalid when the raw minutes value could not be parsed;
// such rows are excluded wherever minutes are required.
type EnrichedRow struct {
	PlayerGameRecord

	IsHome         bool            `json:"is_home"`
	Opponent       string          `json:"opponent"`
	CoarsePosition string          `json:"coarse_position"`
	MinutesPlayed  sql.NullFloat64 `json:"minutes_played"`
	RestDays       int             `json:"rest_days"`
	MissingPoints  float64         `json:"missing_points"`

	// Form is nil until AttachForm runs, and stays nil for rows with
	// fewer than FormWindow prior played games.
	Form *FormFeatures `json:"form,omitempty"`
}

// FormFeatures are the leakage-safe trailing statistics for one row.
// Trailing means cover the FormWindow most recent prior played games and
// never include the row's own game. SeasonPoints is the cumulative mean
// through the current game; Delta compares the trailing mean against the
// cumulative mean through the previous game.
type FormFeatures struct {
	TrailPoints   float64 `json:"trail_points"`
	TrailRebounds float64 `json:"trail_rebounds"`
	TrailAssists  float64 `json:"trail_assists"`
	TrailMinutes  float64 `json:"trail_minutes"`
	TrailFGA      float64 `json:"trail_fga"`
	SeasonPoints  float64 `json:"season_points"`
	Delta         float64 `json:"delta"`
}

// Config holds pipeline thresholds.
type Config struct {
	// ImpactMinMinutes is the season-average minutes floor a missing
	// teammate must clear to count toward MissingPoints.
	ImpactMinMinutes float64

	// FormWindow is the trailing-window length in games.
	FormWindow int
}

// DefaultConfig returns the thresholds used in production.
func DefaultConfig() Config {
	return Config{
		ImpactMinMinutes: 15.0,
		FormWindow:       5,
	}
}

// Coarse position labels. Priority when a raw position string matches more
// than one: Center, then Forward, then Guard.
const (
	PositionCenter  = "Center"
	PositionForward = "Forward"
	PositionGuard   = "Guard"
)

// Default rest days assigned to a team's first appearance in the schedule.
const DefaultRestDays = 3

// Rest day clamp bounds.
const (
	MinRestDays = 0
	MaxRestDays = 5
)
