package pipeline

type playerTeamKey struct {
	Player string
	Team   string
}

type gameTeamKey struct {
	GameID string
	Team   string
}

// QualityProfiles computes season production per player and team over all
// played games. DNP entries and entries with unparseable minutes do not
// contribute.
func QualityProfiles(records []PlayerGameRecord) map[playerTeamKey]QualityProfile {
	type totals struct {
		games   int
		points  int
		minutes float64
	}

	sums := make(map[playerTeamKey]totals)
	for _, rec := range records {
		if rec.DidNotPlay {
			continue
		}
		minutes := ParseMinutes(rec.Minutes)
		if !minutes.Valid {
			continue
		}

		key := playerTeamKey{rec.Player, rec.Team}
		t := sums[key]
		t.games++
		t.points += rec.Points
		t.minutes += minutes.Float64
		sums[key] = t
	}

	profiles := make(map[playerTeamKey]QualityProfile, len(sums))
	for key, t := range sums {
		profiles[key] = QualityProfile{
			GamesPlayed: t.games,
			AvgPoints:   float64(t.points) / float64(t.games),
			AvgMinutes:  t.minutes / float64(t.games),
		}
	}

	return profiles
}

// AvailabilitySignals estimates each team's lost scoring per game: the sum
// of season average points over teammates who sat that game and whose
// season average minutes clear the floor. Teams with no qualifying absence
// have no entry, which reads back as zero.
func AvailabilitySignals(records []PlayerGameRecord, profiles map[playerTeamKey]QualityProfile, minMinutes float64) map[gameTeamKey]float64 {
	signals := make(map[gameTeamKey]float64)
	for _, rec := range records {
		if !rec.DidNotPlay {
			continue
		}

		profile, ok := profiles[playerTeamKey{rec.Player, rec.Team}]
		if !ok || profile.AvgMinutes <= minMinutes {
			continue
		}

		signals[gameTeamKey{rec.GameID, rec.Team}] += profile.AvgPoints
	}

	return signals
}
