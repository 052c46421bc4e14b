package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilitySignals(t *testing.T) {
	// History: A averages 25 minutes / 20 points, B averages 5 minutes /
	// 10 points. Both sit out g3.
	var records []PlayerGameRecord
	for _, gameID := range []string{"g1", "g2"} {
		records = append(records,
			PlayerGameRecord{Player: "A", Team: "BOS", GameID: gameID, Minutes: "25", Points: 20},
			PlayerGameRecord{Player: "B", Team: "BOS", GameID: gameID, Minutes: "5", Points: 10},
		)
	}
	records = append(records,
		PlayerGameRecord{Player: "A", Team: "BOS", GameID: "g3", DidNotPlay: true},
		PlayerGameRecord{Player: "B", Team: "BOS", GameID: "g3", DidNotPlay: true},
		PlayerGameRecord{Player: "C", Team: "BOS", GameID: "g3", Minutes: "30", Points: 12},
	)

	profiles := QualityProfiles(records)
	a := profiles[playerTeamKey{"A", "BOS"}]
	require.Equal(t, 2, a.GamesPlayed)
	assert.InDelta(t, 20.0, a.AvgPoints, 1e-9)
	assert.InDelta(t, 25.0, a.AvgMinutes, 1e-9)

	signals := AvailabilitySignals(records, profiles, 15.0)

	// B sits under the minutes floor, so only A contributes.
	assert.InDelta(t, 20.0, signals[gameTeamKey{"g3", "BOS"}], 1e-9)

	// Games with no qualifying absence read back as zero.
	assert.Zero(t, signals[gameTeamKey{"g1", "BOS"}])
}

func TestQualityProfilesSkipDNPAndUnparsedMinutes(t *testing.T) {
	records := []PlayerGameRecord{
		{Player: "A", Team: "BOS", GameID: "g1", Minutes: "20", Points: 10},
		{Player: "A", Team: "BOS", GameID: "g2", DidNotPlay: true, Points: 0},
		{Player: "A", Team: "BOS", GameID: "g3", Minutes: "??", Points: 40},
	}

	profiles := QualityProfiles(records)
	a := profiles[playerTeamKey{"A", "BOS"}]
	assert.Equal(t, 1, a.GamesPlayed)
	assert.InDelta(t, 10.0, a.AvgPoints, 1e-9)
}
