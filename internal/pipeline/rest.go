package pipeline

import (
	"sort"
	"time"
)

type teamDateKey struct {
	Team string
	Date string // YYYY-MM-DD
}

// RestTable maps (team, game date) to days of rest before that game.
type RestTable map[teamDateKey]int

// For returns the rest days for a team on a given date. Dates not present
// in the schedule fall back to the neutral default.
func (t RestTable) For(team string, date time.Time) int {
	if days, ok := t[teamDateKey{team, dateKey(date)}]; ok {
		return days
	}
	return DefaultRestDays
}

// TeamRestDays walks each team's chronological schedule (home and away)
// and computes rest before every game: the day gap to the team's previous
// game minus one, clamped to [MinRestDays, MaxRestDays]. A team's first
// appearance gets DefaultRestDays, a neutral value rather than "no rest".
func TeamRestDays(schedule []ScheduleEntry) RestTable {
	dates := make(map[string][]time.Time)
	for _, entry := range schedule {
		day := entry.Date.Truncate(24 * time.Hour)
		dates[entry.HomeTeam] = append(dates[entry.HomeTeam], day)
		dates[entry.AwayTeam] = append(dates[entry.AwayTeam], day)
	}

	table := make(RestTable)
	for team, played := range dates {
		sort.Slice(played, func(i, j int) bool { return played[i].Before(played[j]) })

		prev := time.Time{}
		for _, day := range played {
			key := teamDateKey{team, dateKey(day)}
			if _, seen := table[key]; seen {
				// Doubleheaders do not occur in the NBA; keep the
				// first computed value if the schedule repeats a date.
				continue
			}

			if prev.IsZero() {
				table[key] = DefaultRestDays
			} else {
				gap := int(day.Sub(prev).Hours()/24) - 1
				table[key] = clampRest(gap)
			}
			prev = day
		}
	}

	return table
}

func clampRest(days int) int {
	if days < MinRestDays {
		return MinRestDays
	}
	if days > MaxRestDays {
		return MaxRestDays
	}
	return days
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
