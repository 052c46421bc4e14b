package model

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInsufficientTrainingData is returned when no usable training examples
// survive window and availability filtering. Training cannot proceed and
// the run aborts.
var ErrInsufficientTrainingData = errors.New("insufficient training data")

// Models bundles the three fitted regressors with the schema their feature
// vectors were encoded against. Read-only after Train.
type Models struct {
	schema   *Schema
	points   *Forest
	rebounds *Forest
	assists  *Forest
}

// Train fits independent points, rebounds and assists models on the same
// feature matrix. The three fits share no state and run concurrently; each
// gets its own derived seed so the run stays reproducible.
func Train(examples []Example, cfg ForestConfig) (*Models, error) {
	if len(examples) == 0 {
		return nil, ErrInsufficientTrainingData
	}

	schema := BuildSchema(examples)

	features := make([][]float64, 0, len(examples))
	points := make([]float64, 0, len(examples))
	rebounds := make([]float64, 0, len(examples))
	assists := make([]float64, 0, len(examples))
	for _, e := range examples {
		vec, ok := schema.Vector(e)
		if !ok {
			continue
		}
		features = append(features, vec)
		points = append(points, e.Points)
		rebounds = append(rebounds, e.Rebounds)
		assists = append(assists, e.Assists)
	}
	if len(features) == 0 {
		return nil, ErrInsufficientTrainingData
	}

	m := &Models{schema: schema}

	targets := []struct {
		name   string
		values []float64
		dest   **Forest
		seed   int64
	}{
		{"points", points, &m.points, cfg.Seed},
		{"rebounds", rebounds, &m.rebounds, cfg.Seed + 1000},
		{"assists", assists, &m.assists, cfg.Seed + 2000},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(targets))
	for i, target := range targets {
		wg.Add(1)
		go func(i int, name string, values []float64, dest **Forest, seed int64) {
			defer wg.Done()

			treeCfg := cfg
			treeCfg.Seed = seed
			forest := NewForest(treeCfg)
			if err := forest.Fit(features, values); err != nil {
				errs[i] = fmt.Errorf("fitting %s model: %w", name, err)
				return
			}
			*dest = forest
		}(i, target.name, target.values, target.dest, target.seed)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Schema exposes the training-time feature schema for domain checks.
func (m *Models) Schema() *Schema {
	return m.schema
}

// Predict runs all three models on the identical feature row. ok is false
// when the example's categorical values fall outside the trained domain;
// such rows are filtered, never coerced.
func (m *Models) Predict(e Example) (points, rebounds, assists float64, ok bool) {
	vec, ok := m.schema.Vector(e)
	if !ok {
		return 0, 0, 0, false
	}
	return m.points.Predict(vec), m.rebounds.Predict(vec), m.assists.Predict(vec), true
}
