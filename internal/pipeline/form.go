package pipeline

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// AttachForm computes trailing-form features per player and returns a new
// slice with Form populated. Only played rows with parseable minutes enter
// a player's chronological sequence; a row needs at least cfg.FormWindow
// prior games in that sequence, so its own game never leaks into the
// window. Rows outside the sequence, and the first FormWindow rows of each
// sequence, keep a nil Form.
func AttachForm(rows []EnrichedRow, cfg Config) []EnrichedRow {
	out := make([]EnrichedRow, len(rows))
	copy(out, rows)

	byPlayer := make(map[string][]int)
	for i, row := range out {
		if row.DidNotPlay || !row.MinutesPlayed.Valid {
			continue
		}
		byPlayer[row.Player] = append(byPlayer[row.Player], i)
	}

	for _, indices := range byPlayer {
		sort.Slice(indices, func(a, b int) bool {
			ra, rb := out[indices[a]], out[indices[b]]
			if !ra.Date.Equal(rb.Date) {
				return ra.Date.Before(rb.Date)
			}
			return ra.GameID < rb.GameID
		})

		attachPlayerForm(out, indices, cfg.FormWindow)
	}

	return out
}

// attachPlayerForm fills Form for one player's chronologically ordered row
// indices. cumPoints[i] is the running sum of points through game i.
func attachPlayerForm(rows []EnrichedRow, indices []int, window int) {
	points := make([]float64, len(indices))
	rebounds := make([]float64, len(indices))
	assists := make([]float64, len(indices))
	minutes := make([]float64, len(indices))
	fga := make([]float64, len(indices))

	for seq, idx := range indices {
		points[seq] = float64(rows[idx].Points)
		rebounds[seq] = float64(rows[idx].Rebounds)
		assists[seq] = float64(rows[idx].Assists)
		minutes[seq] = rows[idx].MinutesPlayed.Float64
		fga[seq] = float64(rows[idx].FieldGoalAttempts)
	}

	cum := 0.0
	for seq, idx := range indices {
		prevCum := cum
		cum += points[seq]

		if seq < window {
			continue
		}

		lo, hi := seq-window, seq
		form := &FormFeatures{
			TrailPoints:   stat.Mean(points[lo:hi], nil),
			TrailRebounds: stat.Mean(rebounds[lo:hi], nil),
			TrailAssists:  stat.Mean(assists[lo:hi], nil),
			TrailMinutes:  stat.Mean(minutes[lo:hi], nil),
			TrailFGA:      stat.Mean(fga[lo:hi], nil),
			SeasonPoints:  cum / float64(seq+1),
		}
		form.Delta = form.TrailPoints - prevCum/float64(seq)
		rows[idx].Form = form
	}
}

// CurrentForm summarizes a player's most recent window of played games.
// Callers pass history already restricted to dates before the target date.
// The second return is false when fewer than cfg.FormWindow such games
// exist. SeasonPoints is the season-to-date mean and Delta compares the
// trailing window against it.
func CurrentForm(rows []EnrichedRow, player string, cfg Config) (FormFeatures, bool) {
	var history []EnrichedRow
	for _, row := range rows {
		if row.Player != player || row.DidNotPlay || !row.MinutesPlayed.Valid {
			continue
		}
		history = append(history, row)
	}
	if len(history) < cfg.FormWindow {
		return FormFeatures{}, false
	}

	sort.Slice(history, func(a, b int) bool {
		if !history[a].Date.Equal(history[b].Date) {
			return history[a].Date.Before(history[b].Date)
		}
		return history[a].GameID < history[b].GameID
	})

	seasonSum := 0.0
	for _, row := range history {
		seasonSum += float64(row.Points)
	}

	recent := history[len(history)-cfg.FormWindow:]
	points := make([]float64, len(recent))
	rebounds := make([]float64, len(recent))
	assists := make([]float64, len(recent))
	minutes := make([]float64, len(recent))
	fga := make([]float64, len(recent))
	for i, row := range recent {
		points[i] = float64(row.Points)
		rebounds[i] = float64(row.Rebounds)
		assists[i] = float64(row.Assists)
		minutes[i] = row.MinutesPlayed.Float64
		fga[i] = float64(row.FieldGoalAttempts)
	}

	form := FormFeatures{
		TrailPoints:   stat.Mean(points, nil),
		TrailRebounds: stat.Mean(rebounds, nil),
		TrailAssists:  stat.Mean(assists, nil),
		TrailMinutes:  stat.Mean(minutes, nil),
		TrailFGA:      stat.Mean(fga, nil),
		SeasonPoints:  seasonSum / float64(len(history)),
	}
	form.Delta = form.TrailPoints - form.SeasonPoints
	return form, true
}
