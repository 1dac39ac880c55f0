package solver

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/constraint"
	"github.com/salones-isc/roomassign/internal/model"
)

// MLParams tunes the learned solver. TopK is how many classifier candidates
// are tried before falling back to a catalog scan.
type MLParams struct {
	TopK    int
	Weights Weights
}

func DefaultMLParams() MLParams {
	return MLParams{TopK: 10, Weights: GreedyWeights()}
}

// TrainingMetrics summarizes what the solver learned from the input table.
type TrainingMetrics struct {
	TrainingSessions int
	DistinctRooms    int
	MeanQuality      float64
}

type mlSolver struct {
	cfg    Config
	params MLParams
	rng    *rand.Rand

	metrics TrainingMetrics
}

// NewML builds the solver that learns room placements from the input
// table's already-valid assignments and replays them through the shared
// hard-constraint validator.
func NewML(cfg Config, params MLParams, rng *rand.Rand) Solver {
	return &mlSolver{cfg: cfg, params: params, rng: rng}
}

func (m *mlSolver) Solve(sessions []*model.Session) (Result, error) {
	pre := m.cfg.prepare(sessions)
	assignment := pre.Assignment
	occ := pre.Occupancy

	classifier := m.train(sessions)
	quality := m.trainRegressor(sessions)

	validator := &constraint.Validator{Catalog: m.cfg.Catalog, Prefs: m.cfg.Prefs}
	groupTheory := map[string]catalog.Room{}
	for _, s := range sessions {
		if assignment.Assigned(s.ID) && s.FirstSemester && s.RequiredType == catalog.Theory {
			groupTheory[s.Group] = assignment.Get(s.ID)
		}
	}

	ordered := make([]int, len(pre.Remaining))
	copy(ordered, pre.Remaining)
	slices.SortFunc(ordered, func(x, y int) int {
		if r := inferenceRank(sessions[x]) - inferenceRank(sessions[y]); r != 0 {
			return r
		}
		return model.Compare(sessions[x], sessions[y])
	})

	for _, id := range ordered {
		s := sessions[id]
		room, err := m.predict(s, classifier, validator, occ, groupTheory)
		if err != nil {
			return Result{}, err
		}
		assignment.Set(s.ID, room)
		if occ.Free(s.Slot, room) {
			occ.Place(s.Slot, room, s.ID)
		}
		if s.FirstSemester && s.RequiredType == catalog.Theory {
			if _, ok := groupTheory[s.Group]; !ok {
				groupTheory[s.Group] = room
			}
		}
	}

	forceMandatory(sessions, assignment, m.cfg.Prefs, violatedSet(pre.Violations))
	m.metrics.MeanQuality = m.meanQuality(sessions, assignment, quality)
	m.cfg.logf("learned solver: %d training sessions, %d rooms, mean predicted quality %.1f",
		m.metrics.TrainingSessions, m.metrics.DistinctRooms, m.metrics.MeanQuality)

	return Result{Assignment: assignment, Violations: pre.Violations}, nil
}

// Metrics reports training statistics from the latest solve.
func (m *mlSolver) Metrics() TrainingMetrics {
	return m.metrics
}

func inferenceRank(s *model.Session) int {
	if s.FirstSemester {
		return 0
	}
	return 1
}

// predict walks the classifier's ranked candidates through the shared
// validator, falling back to a catalog scan and finally to any same-type
// room so the assignment stays total.
func (m *mlSolver) predict(s *model.Session, classifier *roomClassifier, validator *constraint.Validator, occ constraint.Occupancy, groupTheory map[string]catalog.Room) (catalog.Room, error) {
	for _, room := range classifier.topK(m.featurize(s), m.params.TopK) {
		if validator.Validate(room, s, occ, groupTheory) {
			return room, nil
		}
	}
	for _, room := range m.cfg.Catalog.RoomsOfType(s.RequiredType) {
		if validator.Validate(room, s, occ, groupTheory) {
			return room, nil
		}
	}
	// Grid exhausted: any same-type room, conflict and all.
	room, err := randomRoom(m.cfg.Catalog, s.RequiredType, m.rng)
	if err != nil {
		return "", err
	}
	m.cfg.logf("no free %v room at %v %v, session %d takes %v with a conflict",
		s.RequiredType, s.Slot.Day, s.Slot.Block, s.ID, room)
	return room, nil
}

//** Classifier

// train fits the room classifier on sessions whose current room is already
// valid; invalid placements are exactly what the solver must not learn.
func (m *mlSolver) train(sessions []*model.Session) *roomClassifier {
	classifier := newRoomClassifier()
	for _, s := range sessions {
		if !m.cfg.Catalog.IsValid(s.Room) {
			continue
		}
		classifier.observe(m.featurize(s), s.Room)
	}
	m.metrics.TrainingSessions = classifier.observations
	m.metrics.DistinctRooms = len(classifier.classes)
	return classifier
}

// featurize encodes a session as discrete feature values: raw categorical
// identifiers plus bucketed numeric signals.
func (m *mlSolver) featurize(s *model.Session) []string {
	choice := constraint.Choice(s.Instructor, s.Subject, s.RequiredType, m.cfg.Prefs)
	peak := 0
	if s.StartHour >= 10 && s.StartHour < 14 {
		peak = 1
	}
	return []string{
		s.Group,
		s.Subject,
		s.Slot.Day.String(),
		s.Slot.Block,
		s.Instructor,
		s.RequiredType.String(),
		fmt.Sprintf("first=%v", s.FirstSemester),
		fmt.Sprintf("hour=%d", s.StartHour),
		fmt.Sprintf("peak=%d", peak),
		fmt.Sprintf("pref=%v", choice.Room != ""),
		fmt.Sprintf("mandatory=%v", choice.Mandatory),
	}
}

// roomClassifier is a multinomial naive Bayes model over discrete session
// features with Laplace smoothing. Scores are log-posteriors; ties break on
// room name so rankings are deterministic.
type roomClassifier struct {
	classes      []catalog.Room
	classCounts  map[catalog.Room]float64
	featureSeen  []map[string]bool
	counts       []map[catalog.Room]map[string]float64
	observations int
}

func newRoomClassifier() *roomClassifier {
	return &roomClassifier{classCounts: map[catalog.Room]float64{}}
}

func (c *roomClassifier) observe(features []string, label catalog.Room) {
	for len(c.featureSeen) < len(features) {
		c.featureSeen = append(c.featureSeen, map[string]bool{})
		c.counts = append(c.counts, map[catalog.Room]map[string]float64{})
	}

	if _, ok := c.classCounts[label]; !ok {
		c.classes = append(c.classes, label)
		slices.Sort(c.classes)
	}
	c.classCounts[label]++
	c.observations++

	for i, value := range features {
		c.featureSeen[i][value] = true
		if c.counts[i][label] == nil {
			c.counts[i][label] = map[string]float64{}
		}
		c.counts[i][label][value]++
	}
}

// topK returns up to k rooms ranked by posterior probability.
func (c *roomClassifier) topK(features []string, k int) []catalog.Room {
	if c.observations == 0 || k <= 0 {
		return nil
	}

	type scored struct {
		room  catalog.Room
		score float64
	}
	ranked := make([]scored, 0, len(c.classes))
	for _, class := range c.classes {
		ranked = append(ranked, scored{room: class, score: c.logPosterior(features, class)})
	}
	slices.SortFunc(ranked, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return compareRooms(a.room, b.room)
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	rooms := make([]catalog.Room, k)
	for i := range rooms {
		rooms[i] = ranked[i].room
	}
	return rooms
}

func compareRooms(a, b catalog.Room) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (c *roomClassifier) logPosterior(features []string, class catalog.Room) float64 {
	score := math.Log(c.classCounts[class] / float64(c.observations))
	for i, value := range features {
		if i >= len(c.counts) {
			break
		}
		count := c.counts[i][class][value]
		distinct := float64(len(c.featureSeen[i]))
		score += math.Log((count + 1) / (c.classCounts[class] + distinct))
	}
	return score
}

//** Quality regressor

// qualityModel is a linear model fitted by least squares against a
// hand-scored placement-quality signal.
type qualityModel struct {
	coeffs *mat.VecDense
}

// trainRegressor fits the quality model on every session's current
// placement, valid and invalid alike, so the score contrast is learnable.
func (m *mlSolver) trainRegressor(sessions []*model.Session) *qualityModel {
	if len(sessions) < qualityFeatureCount {
		return &qualityModel{}
	}

	x := mat.NewDense(len(sessions), qualityFeatureCount, nil)
	y := mat.NewVecDense(len(sessions), nil)
	for i, s := range sessions {
		features := m.qualityFeatures(s, s.Room)
		x.SetRow(i, features)
		y.SetVec(i, m.qualityTarget(s, s.Room))
	}

	coeffs := mat.NewVecDense(qualityFeatureCount, nil)
	if err := coeffs.SolveVec(x, y); err != nil {
		// Degenerate design matrix; quality reporting degrades to zero.
		return &qualityModel{}
	}
	return &qualityModel{coeffs: coeffs}
}

const qualityFeatureCount = 5

func (m *mlSolver) qualityFeatures(s *model.Session, room catalog.Room) []float64 {
	invalid, typeMatch, prefMatch := 0.0, 0.0, 0.0
	if !m.cfg.Catalog.IsValid(room) {
		invalid = 1
	}
	if m.cfg.Catalog.Type(room) == s.RequiredType {
		typeMatch = 1
	}
	if choice := constraint.Choice(s.Instructor, s.Subject, s.RequiredType, m.cfg.Prefs); choice.Room != "" && choice.Room == room {
		prefMatch = 1
	}
	first := 0.0
	if s.FirstSemester {
		first = 1
	}
	return []float64{1, invalid, typeMatch, prefMatch, first}
}

// qualityTarget is the hand-scored signal: a 100-point base, a crushing
// penalty for invalid rooms and mild rewards for alignment.
func (m *mlSolver) qualityTarget(s *model.Session, room catalog.Room) float64 {
	target := 100.0
	if !m.cfg.Catalog.IsValid(room) {
		target -= 1000
	}
	if m.cfg.Catalog.Type(room) == s.RequiredType {
		target += 10
	}
	if choice := constraint.Choice(s.Instructor, s.Subject, s.RequiredType, m.cfg.Prefs); choice.Room != "" && choice.Room == room {
		target += 5
	}
	return target
}

func (q *qualityModel) predict(features []float64) float64 {
	if q.coeffs == nil {
		return 0
	}
	sum := 0.0
	for i, f := range features {
		sum += f * q.coeffs.AtVec(i)
	}
	return sum
}

func (m *mlSolver) meanQuality(sessions []*model.Session, a model.Assignment, quality *qualityModel) float64 {
	if len(sessions) == 0 || quality.coeffs == nil {
		return 0
	}
	total := 0.0
	for _, s := range sessions {
		total += quality.predict(m.qualityFeatures(s, a.Get(s.ID)))
	}
	return total / float64(len(sessions))
}
