package pipeline

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playerHistory builds n played rows for one player on consecutive days.
func playerHistory(player string, points []int) []EnrichedRow {
	rows := make([]EnrichedRow, len(points))
	for i, pts := range points {
		rows[i] = EnrichedRow{
			PlayerGameRecord: PlayerGameRecord{
				Player:            player,
				Team:              "BOS",
				GameID:            fmt.Sprintf("g%02d", i+1),
				Date:              day(i + 1),
				Points:            pts,
				Rebounds:          5,
				Assists:           3,
				FieldGoalAttempts: 15,
			},
			MinutesPlayed: sql.NullFloat64{Float64: 30, Valid: true},
		}
	}
	return rows
}

func TestAttachFormWindow(t *testing.T) {
	rows := AttachForm(playerHistory("A", []int{10, 12, 14, 16, 18, 20, 22}), DefaultConfig())

	// First five rows have no full prior window.
	for i := 0; i < 5; i++ {
		assert.Nil(t, rows[i].Form, "row %d", i)
	}

	// Row 5 (6th game): trailing window is games 0..4.
	require.NotNil(t, rows[5].Form)
	assert.InDelta(t, 14.0, rows[5].Form.TrailPoints, 1e-9)
	assert.InDelta(t, 5.0, rows[5].Form.TrailRebounds, 1e-9)
	assert.InDelta(t, 30.0, rows[5].Form.TrailMinutes, 1e-9)
	assert.InDelta(t, 15.0, rows[5].Form.TrailFGA, 1e-9)

	// Cumulative mean includes the row's own game; delta does not.
	assert.InDelta(t, 15.0, rows[5].Form.SeasonPoints, 1e-9)
	assert.InDelta(t, 0.0, rows[5].Form.Delta, 1e-9)

	// Row 6 (7th game): window slides to games 1..5.
	require.NotNil(t, rows[6].Form)
	assert.InDelta(t, 16.0, rows[6].Form.TrailPoints, 1e-9)
}

func TestAttachFormNoLeakage(t *testing.T) {
	base := playerHistory("A", []int{10, 12, 14, 16, 18, 20, 22})
	mutated := playerHistory("A", []int{10, 12, 14, 16, 18, 99, 22})

	formBase := AttachForm(base, DefaultConfig())
	formMutated := AttachForm(mutated, DefaultConfig())

	// Game 5's own stats must not influence its own trailing features.
	require.NotNil(t, formBase[5].Form)
	require.NotNil(t, formMutated[5].Form)
	assert.Equal(t, formBase[5].Form.TrailPoints, formMutated[5].Form.TrailPoints)
	assert.Equal(t, formBase[5].Form.TrailRebounds, formMutated[5].Form.TrailRebounds)

	// Later windows do see it.
	assert.NotEqual(t, formBase[6].Form.TrailPoints, formMutated[6].Form.TrailPoints)
}

func TestAttachFormSkipsDNPAndUnparsedMinutes(t *testing.T) {
	rows := playerHistory("A", []int{10, 12, 14, 16, 18, 20})
	rows[2].DidNotPlay = true
	rows[3].MinutesPlayed = sql.NullFloat64{}

	withForm := AttachForm(rows, DefaultConfig())

	// Only four usable games exist, so no row gets a window.
	for i, row := range withForm {
		assert.Nil(t, row.Form, "row %d", i)
	}
}

func TestCurrentForm(t *testing.T) {
	// Six games of 10,12,14,16,18,20 points.
	history := playerHistory("A", []int{10, 12, 14, 16, 18, 20})

	form, ok := CurrentForm(history, "A", DefaultConfig())
	require.True(t, ok)

	assert.InDelta(t, 16.0, form.TrailPoints, 1e-9, "mean of the last five games")
	assert.InDelta(t, 15.0, form.SeasonPoints, 1e-9, "season mean through game six")
	assert.InDelta(t, 1.0, form.Delta, 1e-9)
}

func TestCurrentFormRequiresFullWindow(t *testing.T) {
	history := playerHistory("A", []int{10, 12, 14, 16})
	_, ok := CurrentForm(history, "A", DefaultConfig())
	assert.False(t, ok)
}
