package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Forest is a bagged ensemble of regression trees. Each tree fits a
// bootstrap resample of the training set and considers a random feature
// subset at every split; the ensemble prediction is the mean over trees.
// A Forest is read-only after Fit.
type Forest struct {
	cfg   ForestConfig
	trees []*treeNode
}

// ForestConfig controls ensemble shape. Seed makes training deterministic:
// tree i derives its generator from Seed+i, so parallel construction
// yields identical forests run to run.
type ForestConfig struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

// DefaultForestConfig mirrors the production ensemble: 100 trees.
func DefaultForestConfig(seed int64) ForestConfig {
	return ForestConfig{
		Trees:    100,
		MaxDepth: 12,
		MinLeaf:  5,
		Seed:     seed,
	}
}

// WithTrees overrides the ensemble size, keeping the rest of the config.
func (c ForestConfig) WithTrees(trees int) ForestConfig {
	if trees > 0 {
		c.Trees = trees
	}
	return c
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	leaf      bool
	value     float64
}

// NewForest returns an unfitted forest.
func NewForest(cfg ForestConfig) *Forest {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 12
	}
	if cfg.MinLeaf <= 0 {
		cfg.MinLeaf = 5
	}
	return &Forest{cfg: cfg}
}

// Fit trains the ensemble. Trees are independent and build concurrently.
func (f *Forest) Fit(features [][]float64, targets []float64) error {
	if len(features) == 0 {
		return fmt.Errorf("empty training set")
	}
	if len(features) != len(targets) {
		return fmt.Errorf("feature/target length mismatch: %d vs %d", len(features), len(targets))
	}

	width := len(features[0])
	// Standard regression-forest heuristic: try a third of the features
	// at each split.
	mtry := width / 3
	if mtry < 1 {
		mtry = 1
	}

	f.trees = make([]*treeNode, f.cfg.Trees)

	var wg sync.WaitGroup
	for i := 0; i < f.cfg.Trees; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(f.cfg.Seed + int64(i)))

			sample := make([]int, len(features))
			for j := range sample {
				sample[j] = rng.Intn(len(features))
			}

			b := &treeBuilder{
				features: features,
				targets:  targets,
				mtry:     mtry,
				maxDepth: f.cfg.MaxDepth,
				minLeaf:  f.cfg.MinLeaf,
				rng:      rng,
			}
			f.trees[i] = b.build(sample, 0)
		}(i)
	}
	wg.Wait()

	return nil
}

// Predict returns the ensemble mean for one feature vector.
func (f *Forest) Predict(vec []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}

	sum := 0.0
	for _, tree := range f.trees {
		sum += tree.predict(vec)
	}
	return sum / float64(len(f.trees))
}

func (n *treeNode) predict(vec []float64) float64 {
	for !n.leaf {
		if vec[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

type treeBuilder struct {
	features [][]float64
	targets  []float64
	mtry     int
	maxDepth int
	minLeaf  int
	rng      *rand.Rand
}

func (b *treeBuilder) build(indices []int, depth int) *treeNode {
	if depth >= b.maxDepth || len(indices) < 2*b.minLeaf {
		return b.leaf(indices)
	}

	feature, threshold, ok := b.bestSplit(indices)
	if !ok {
		return b.leaf(indices)
	}

	var left, right []int
	for _, idx := range indices {
		if b.features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		return b.leaf(indices)
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

func (b *treeBuilder) leaf(indices []int) *treeNode {
	vals := make([]float64, len(indices))
	for i, idx := range indices {
		vals[i] = b.targets[idx]
	}
	return &treeNode{leaf: true, value: stat.Mean(vals, nil)}
}

// bestSplit searches a random subset of features for the split minimizing
// the summed squared error of the two children. For each candidate feature
// the rows are sorted once and every threshold is scored from running sums.
func (b *treeBuilder) bestSplit(indices []int) (feature int, threshold float64, ok bool) {
	width := len(b.features[indices[0]])
	candidates := b.rng.Perm(width)[:b.mtry]

	type sample struct {
		value  float64
		target float64
	}
	samples := make([]sample, len(indices))

	bestScore := math.Inf(1)
	for _, feat := range candidates {
		var totalSum, totalSq float64
		for i, idx := range indices {
			samples[i] = sample{value: b.features[idx][feat], target: b.targets[idx]}
			totalSum += b.targets[idx]
			totalSq += b.targets[idx] * b.targets[idx]
		}
		sort.Slice(samples, func(i, j int) bool { return samples[i].value < samples[j].value })

		total := float64(len(samples))
		var nL, sumL, sqL float64
		for i := 0; i < len(samples)-1; i++ {
			nL++
			sumL += samples[i].target
			sqL += samples[i].target * samples[i].target
			if samples[i+1].value == samples[i].value {
				continue
			}

			nR := total - nL
			sumR := totalSum - sumL
			score := (sqL - sumL*sumL/nL) + ((totalSq - sqL) - sumR*sumR/nR)
			if score < bestScore {
				bestScore = score
				feature = feat
				threshold = (samples[i].value + samples[i+1].value) / 2
				ok = true
			}
		}
	}

	return feature, threshold, ok
}
