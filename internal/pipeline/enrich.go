package pipeline

import (
	"database/sql"
	"strconv"
	"strings"
)

// ParseMinutes converts a raw minutes value to a numeric minute count.
// Box scores report minutes either as "MM:SS" or as a plain number;
// anything else yields an invalid result and the record is excluded
// wherever minutes are required.
func ParseMinutes(raw string) sql.NullFloat64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullFloat64{}
	}

	if strings.Contains(raw, ":") {
		parts := strings.SplitN(raw, ":", 2)
		mins, err := strconv.Atoi(parts[0])
		if err != nil {
			return sql.NullFloat64{}
		}
		secs := 0
		if len(parts) > 1 && parts[1] != "" {
			secs, err = strconv.Atoi(parts[1])
			if err != nil {
				return sql.NullFloat64{}
			}
		}
		return sql.NullFloat64{Float64: float64(mins) + float64(secs)/60.0, Valid: true}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

// CoarsePosition maps a detailed position string ("PG", "Forward-Center",
// "G-F", ...) to one of Center/Forward/Guard. First match wins in priority
// order Center, Forward, Guard, so a Forward-Center resolves to Center.
// Unknown strings default to Forward.
func CoarsePosition(raw string) string {
	upper := strings.ToUpper(raw)

	switch {
	case strings.Contains(upper, "C"):
		return PositionCenter
	case strings.Contains(upper, "F"):
		return PositionForward
	case strings.Contains(upper, "G"):
		return PositionGuard
	default:
		return PositionForward
	}
}

// Enrich derives per-row features from raw records and the schedule:
// numeric minutes, home/away and opponent, coarse position, rest days and
// the team's missing-production signal for that game. Rows referencing a
// game absent from the schedule are dropped.
func Enrich(records []PlayerGameRecord, schedule []ScheduleEntry, cfg Config) []EnrichedRow {
	games := make(map[string]ScheduleEntry, len(schedule))
	for _, entry := range schedule {
		games[entry.GameID] = entry
	}

	rest := TeamRestDays(schedule)
	profiles := QualityProfiles(records)
	missing := AvailabilitySignals(records, profiles, cfg.ImpactMinMinutes)

	rows := make([]EnrichedRow, 0, len(records))
	for _, rec := range records {
		entry, ok := games[rec.GameID]
		if !ok {
			continue
		}

		row := EnrichedRow{
			PlayerGameRecord: rec,
			IsHome:           rec.Team == entry.HomeTeam,
			CoarsePosition:   CoarsePosition(rec.Position),
			MinutesPlayed:    ParseMinutes(rec.Minutes),
		}
		if row.IsHome {
			row.Opponent = entry.AwayTeam
		} else {
			row.Opponent = entry.HomeTeam
		}

		row.RestDays = rest.For(rec.Team, entry.Date)
		row.MissingPoints = missing[gameTeamKey{rec.GameID, rec.Team}]

		rows = append(rows, row)
	}

	return rows
}
