package projection

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fortuna/pythia/internal/cache"
	"github.com/fortuna/pythia/internal/injury"
	"github.com/fortuna/pythia/internal/model"
	"github.com/fortuna/pythia/internal/pipeline"
	"github.com/fortuna/pythia/internal/publisher"
)

// ErrNoGamesScheduled means the target date has no games and nothing can
// be projected. The run aborts.
var ErrNoGamesScheduled = errors.New("no games scheduled")

// DataSource supplies the season's raw schedule and boxscore history.
type DataSource interface {
	LoadSchedule(ctx context.Context, season string) ([]pipeline.ScheduleEntry, error)
	LoadPlayerGames(ctx context.Context, season string) ([]pipeline.PlayerGameRecord, error)
}

// Config holds the knobs for one projection run.
type Config struct {
	Season        string
	TargetDate    time.Time
	MinAvgMinutes float64
	Trees         int
	Seed          int64
}

// Result is a completed projection run.
type Result struct {
	Season      string       `json:"season"`
	TargetDate  string       `json:"target_date"`
	GeneratedAt time.Time    `json:"generated_at"`
	Matchups    []string     `json:"matchups"`
	Projections []Projection `json:"projections"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// Runner executes the full pipeline: load history, engineer features,
// train the three models, assemble and score the target date's candidates.
// Injuries, cache and publisher are optional collaborators; a nil value
// disables that concern and never fails the run.
type Runner struct {
	source    DataSource
	injuries  injury.Source
	cache     *cache.RedisCache
	publisher *publisher.RedisPublisher
	cfg       Config
}

// NewRunner wires a projection runner.
func NewRunner(source DataSource, injuries injury.Source, rc *cache.RedisCache, pub *publisher.RedisPublisher, cfg Config) *Runner {
	if cfg.MinAvgMinutes == 0 {
		cfg.MinAvgMinutes = 15.0
	}
	if cfg.Trees == 0 {
		cfg.Trees = 100
	}
	return &Runner{
		source:    source,
		injuries:  injuries,
		cache:     rc,
		publisher: pub,
		cfg:       cfg,
	}
}

// Run executes one projection run for the configured target date, or for
// today when none is configured.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	target := r.cfg.TargetDate
	if target.IsZero() {
		target = time.Now()
	}
	return r.RunFor(ctx, target)
}

// RunFor executes one projection run for an explicit target date.
func (r *Runner) RunFor(ctx context.Context, target time.Time) (*Result, error) {
	targetDay := target.Format("2006-01-02")

	schedule, err := r.source.LoadSchedule(ctx, r.cfg.Season)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}

	matchups := Matchups(schedule, target)
	if len(matchups) == 0 {
		return nil, fmt.Errorf("%w on %s", ErrNoGamesScheduled, targetDay)
	}

	records, err := r.source.LoadPlayerGames(ctx, r.cfg.Season)
	if err != nil {
		return nil, fmt.Errorf("loading player games: %w", err)
	}

	pcfg := pipeline.DefaultConfig()
	pcfg.ImpactMinMinutes = r.cfg.MinAvgMinutes

	enriched := pipeline.Enrich(records, schedule, pcfg)
	enriched = pipeline.AttachForm(enriched, pcfg)
	log.Printf("✓ Engineered %d rows from %d raw records", len(enriched), len(records))

	examples := trainingExamples(enriched)
	models, err := model.Train(examples, model.DefaultForestConfig(r.cfg.Seed).WithTrees(r.cfg.Trees))
	if err != nil {
		return nil, fmt.Errorf("training models on %d examples: %w", len(examples), err)
	}
	log.Printf("✓ Trained 3 models on %d examples (%d opponents in domain)",
		len(examples), len(models.Schema().Opponents()))

	result := &Result{
		Season:      r.cfg.Season,
		TargetDate:  targetDay,
		GeneratedAt: time.Now().UTC(),
		Matchups:    matchups,
	}

	exclusions := r.fetchExclusions(ctx, result)

	candidates := BuildCandidates(enriched, schedule, target, pcfg)
	result.Projections = Project(models, candidates, exclusions, r.cfg.MinAvgMinutes)
	log.Printf("✓ Projected %d of %d candidates for %s", len(result.Projections), len(candidates), targetDay)

	r.cacheAndPublish(ctx, result)

	return result, nil
}

// trainingExamples keeps rows that played, have parseable minutes and a
// full trailing window.
func trainingExamples(rows []pipeline.EnrichedRow) []model.Example {
	examples := make([]model.Example, 0, len(rows))
	for _, row := range rows {
		if row.Form == nil || row.DidNotPlay || !row.MinutesPlayed.Valid {
			continue
		}
		examples = append(examples, model.Example{
			IsHome:        row.IsHome,
			RestDays:      float64(row.RestDays),
			MissingPoints: row.MissingPoints,
			TrailPoints:   row.Form.TrailPoints,
			TrailRebounds: row.Form.TrailRebounds,
			TrailAssists:  row.Form.TrailAssists,
			TrailMinutes:  row.Form.TrailMinutes,
			TrailFGA:      row.Form.TrailFGA,
			SeasonPoints:  row.Form.SeasonPoints,
			FormDelta:     row.Form.Delta,
			Position:      row.CoarsePosition,
			Opponent:      row.Opponent,
			Points:        float64(row.Points),
			Rebounds:      float64(row.Rebounds),
			Assists:       float64(row.Assists),
		})
	}
	return examples
}

// fetchExclusions resolves the injury exclusion set, consulting the cache
// first. Any failure degrades to an empty set with a warning; the scrape
// must never abort a run.
func (r *Runner) fetchExclusions(ctx context.Context, result *Result) map[string]struct{} {
	if r.injuries == nil {
		return map[string]struct{}{}
	}

	if r.cache != nil {
		var cached []string
		if err := r.cache.GetJSON(ctx, cache.KeyExclusions, &cached); err == nil {
			log.Printf("✓ Using cached exclusion set (%d players)", len(cached))
			return toSet(cached)
		}
	}

	exclusions, err := r.injuries.FetchUnavailable(ctx)
	if err != nil {
		warning := fmt.Sprintf("injury report unavailable, proceeding without exclusions: %v", err)
		log.Printf("⚠️  %s", warning)
		result.Warnings = append(result.Warnings, warning)
		return map[string]struct{}{}
	}
	log.Printf("✓ Injury report: %d players excluded", len(exclusions))

	if r.cache != nil {
		names := make([]string, 0, len(exclusions))
		for name := range exclusions {
			names = append(names, name)
		}
		if err := r.cache.SetJSON(ctx, cache.KeyExclusions, names, cache.ExclusionsTTL); err != nil {
			log.Printf("⚠️  Failed to cache exclusion set: %v", err)
		}
	}

	return exclusions
}

// cacheAndPublish shares the finished run with the API server and the
// event stream. Both are best-effort.
func (r *Runner) cacheAndPublish(ctx context.Context, result *Result) {
	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, cache.KeyLatestRun, result, cache.LatestRunTTL); err != nil {
			log.Printf("⚠️  Failed to cache projection run: %v", err)
		}
	}
	if r.publisher != nil {
		if err := r.publisher.PublishProjectionRun(ctx, result); err != nil {
			log.Printf("⚠️  Failed to publish projection run: %v", err)
		}
	}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
