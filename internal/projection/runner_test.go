package projection

import (
	"context"
	"errors"
	"testing"

	"github.com/fortuna/pythia/internal/model"
	"github.com/fortuna/pythia/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySource serves a fixture season from memory.
type memorySource struct {
	records  []pipeline.PlayerGameRecord
	schedule []pipeline.ScheduleEntry
}

func (m *memorySource) LoadSchedule(ctx context.Context, season string) ([]pipeline.ScheduleEntry, error) {
	return m.schedule, nil
}

func (m *memorySource) LoadPlayerGames(ctx context.Context, season string) ([]pipeline.PlayerGameRecord, error) {
	return m.records, nil
}

// stubInjuries is a canned injury source.
type stubInjuries struct {
	excluded map[string]struct{}
	err      error
}

func (s *stubInjuries) FetchUnavailable(ctx context.Context) (map[string]struct{}, error) {
	return s.excluded, s.err
}

func runnerConfig(trees int) Config {
	return Config{
		Season:        "2024-25",
		MinAvgMinutes: 15.0,
		Trees:         trees,
		Seed:          1,
	}
}

func TestRunnerEndToEnd(t *testing.T) {
	records, schedule := seasonFixture(10)
	target := day(11)
	schedule = append(schedule, pipeline.ScheduleEntry{
		GameID: "g11", Date: target, HomeTeam: "BOS", AwayTeam: "LAL",
	})

	source := &memorySource{records: records, schedule: schedule}
	runner := NewRunner(source, nil, nil, nil, runnerConfig(10))

	result, err := runner.RunFor(context.Background(), target)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-11", result.TargetDate)
	assert.Equal(t, []string{"LAL vs BOS"}, result.Matchups)
	assert.Len(t, result.Projections, 6)
	assert.Empty(t, result.Warnings)

	for i := 1; i < len(result.Projections); i++ {
		assert.GreaterOrEqual(t,
			result.Projections[i-1].ProjectedPoints,
			result.Projections[i].ProjectedPoints)
	}
}

func TestRunnerNoGamesScheduledIsFatal(t *testing.T) {
	records, schedule := seasonFixture(10)
	source := &memorySource{records: records, schedule: schedule}
	runner := NewRunner(source, nil, nil, nil, runnerConfig(10))

	_, err := runner.RunFor(context.Background(), day(25))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoGamesScheduled)
	assert.Contains(t, err.Error(), "2025-01-25", "error names the date")
}

func TestRunnerInsufficientTrainingDataIsFatal(t *testing.T) {
	// Three games per player: no one accumulates a full trailing window.
	records, schedule := seasonFixture(3)
	target := day(4)
	schedule = append(schedule, pipeline.ScheduleEntry{
		GameID: "g04", Date: target, HomeTeam: "BOS", AwayTeam: "LAL",
	})

	source := &memorySource{records: records, schedule: schedule}
	runner := NewRunner(source, nil, nil, nil, runnerConfig(10))

	_, err := runner.RunFor(context.Background(), target)
	assert.ErrorIs(t, err, model.ErrInsufficientTrainingData)
}

func TestRunnerInjuryExclusion(t *testing.T) {
	records, schedule := seasonFixture(10)
	target := day(11)
	schedule = append(schedule, pipeline.ScheduleEntry{
		GameID: "g11", Date: target, HomeTeam: "BOS", AwayTeam: "LAL",
	})

	source := &memorySource{records: records, schedule: schedule}
	injuries := &stubInjuries{excluded: map[string]struct{}{"James": {}}}
	runner := NewRunner(source, injuries, nil, nil, runnerConfig(10))

	result, err := runner.RunFor(context.Background(), target)
	require.NoError(t, err)

	assert.Len(t, result.Projections, 5)
	for _, p := range result.Projections {
		assert.NotEqual(t, "James", p.Player, "a player flagged Out never appears")
	}
}

func TestRunnerInjuryFetchFailureDegrades(t *testing.T) {
	records, schedule := seasonFixture(10)
	target := day(11)
	schedule = append(schedule, pipeline.ScheduleEntry{
		GameID: "g11", Date: target, HomeTeam: "BOS", AwayTeam: "LAL",
	})

	source := &memorySource{records: records, schedule: schedule}
	injuries := &stubInjuries{err: errors.New("connection refused")}
	runner := NewRunner(source, injuries, nil, nil, runnerConfig(10))

	result, err := runner.RunFor(context.Background(), target)
	require.NoError(t, err, "a failed scrape must never abort the run")

	assert.Len(t, result.Projections, 6, "no exclusions applied")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "injury report unavailable")
}
