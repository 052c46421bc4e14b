package model

import "sort"

// Example is one fully engineered row: the features every model consumes
// plus the three target statistics. The targets are the row's own-game
// outcomes and are never part of the feature vector.
type Example struct {
	IsHome        bool
	RestDays      float64
	MissingPoints float64

	TrailPoints   float64
	TrailRebounds float64
	TrailAssists  float64
	TrailMinutes  float64
	TrailFGA      float64
	SeasonPoints  float64
	FormDelta     float64

	Position string
	Opponent string

	Points   float64
	Rebounds float64
	Assists  float64
}

// numericFeatures is the count of non-categorical features in the vector.
const numericFeatures = 10

// Schema fixes the feature layout and the closed categorical domains at
// training time. Encoding an example whose position or opponent was never
// seen in training fails, and the caller drops the row.
type Schema struct {
	positions []string
	opponents []string

	positionIndex map[string]int
	opponentIndex map[string]int
}

// BuildSchema derives the categorical domains from the training set.
func BuildSchema(examples []Example) *Schema {
	positions := make(map[string]struct{})
	opponents := make(map[string]struct{})
	for _, e := range examples {
		positions[e.Position] = struct{}{}
		opponents[e.Opponent] = struct{}{}
	}

	s := &Schema{
		positions:     sortedKeys(positions),
		opponents:     sortedKeys(opponents),
		positionIndex: make(map[string]int),
		opponentIndex: make(map[string]int),
	}
	for i, p := range s.positions {
		s.positionIndex[p] = i
	}
	for i, o := range s.opponents {
		s.opponentIndex[o] = i
	}
	return s
}

// Width is the feature vector length.
func (s *Schema) Width() int {
	return numericFeatures + len(s.positions) + len(s.opponents)
}

// Opponents returns the opponent domain captured at training time.
func (s *Schema) Opponents() []string {
	return append([]string(nil), s.opponents...)
}

// Vector encodes an example. Categoricals are one-hot encoded against the
// training-time domain; ok is false for out-of-domain values.
func (s *Schema) Vector(e Example) (vec []float64, ok bool) {
	posIdx, havePos := s.positionIndex[e.Position]
	oppIdx, haveOpp := s.opponentIndex[e.Opponent]
	if !havePos || !haveOpp {
		return nil, false
	}

	vec = make([]float64, s.Width())
	if e.IsHome {
		vec[0] = 1
	}
	vec[1] = e.RestDays
	vec[2] = e.MissingPoints
	vec[3] = e.TrailPoints
	vec[4] = e.TrailRebounds
	vec[5] = e.TrailAssists
	vec[6] = e.TrailMinutes
	vec[7] = e.TrailFGA
	vec[8] = e.SeasonPoints
	vec[9] = e.FormDelta
	vec[numericFeatures+posIdx] = 1
	vec[numericFeatures+len(s.positions)+oppIdx] = 1

	return vec, true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
