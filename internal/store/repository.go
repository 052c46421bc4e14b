package store

import (
	"context"
	"fmt"

	"github.com/fortuna/pythia/internal/pipeline"
)

// LoadSchedule returns every game of a season, scheduled or final, as
// schedule entries keyed by the ESPN external ID.
func (db *Database) LoadSchedule(ctx context.Context, season string) ([]pipeline.ScheduleEntry, error) {
	query := `
		SELECT g.external_id, g.game_date, ht.abbreviation, aw.abbreviation
		FROM games g
		JOIN seasons se ON se.season_id = g.season_id
		JOIN teams ht ON ht.team_id = g.home_team_id
		JOIN teams aw ON aw.team_id = g.away_team_id
		WHERE se.season_year = $1 AND g.sport = 'basketball_nba'
		ORDER BY g.game_date, g.external_id
	`

	rows, err := db.conn.QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var schedule []pipeline.ScheduleEntry
	for rows.Next() {
		var entry pipeline.ScheduleEntry
		if err := rows.Scan(&entry.GameID, &entry.Date, &entry.HomeTeam, &entry.AwayTeam); err != nil {
			return nil, fmt.Errorf("scanning schedule entry: %w", err)
		}
		schedule = append(schedule, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule: %w", err)
	}

	return schedule, nil
}

// LoadPlayerGames returns every boxscore line of a season's completed
// games. Minutes come back as text: the pipeline owns parsing, including
// the "MM:SS" form older ingests stored. A NULL or zero minutes value
// marks a player who dressed but did not play.
func (db *Database) LoadPlayerGames(ctx context.Context, season string) ([]pipeline.PlayerGameRecord, error) {
	query := `
		SELECT g.external_id, g.game_date, p.full_name, t.abbreviation,
			COALESCE(p.position, ''), COALESCE(s.minutes_played::text, ''),
			s.points, s.rebounds, s.assists, s.field_goals_attempted,
			(s.minutes_played IS NULL OR s.minutes_played = 0) AS did_not_play
		FROM player_game_stats s
		JOIN games g ON g.game_id = s.game_id
		JOIN seasons se ON se.season_id = g.season_id
		JOIN players p ON p.player_id = s.player_id
		JOIN teams t ON t.team_id = s.team_id
		WHERE se.season_year = $1 AND g.sport = 'basketball_nba' AND g.status = 'final'
		ORDER BY g.game_date, g.external_id, p.full_name
	`

	rows, err := db.conn.QueryContext(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("querying player games: %w", err)
	}
	defer rows.Close()

	var records []pipeline.PlayerGameRecord
	for rows.Next() {
		var rec pipeline.PlayerGameRecord
		if err := rows.Scan(
			&rec.GameID, &rec.Date, &rec.Player, &rec.Team,
			&rec.Position, &rec.Minutes,
			&rec.Points, &rec.Rebounds, &rec.Assists, &rec.FieldGoalAttempts,
			&rec.DidNotPlay,
		); err != nil {
			return nil, fmt.Errorf("scanning player game: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player games: %w", err)
	}

	return records, nil
}
