package solver

import (
	"math/rand"
	"slices"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/constraint"
	"github.com/salones-isc/roomassign/internal/model"
)

// GeneticParams tunes the evolutionary loop. Mutation probability is the
// initial per-gene rate; it decays linearly to zero across generations.
type GeneticParams struct {
	Population    int
	Generations   int
	CrossoverProb float64
	MutationProb  float64
	ElitismRate   float64
	TournamentK   int
	Stagnation    int

	Weights Weights
}

func DefaultGeneticParams() GeneticParams {
	return GeneticParams{
		Population:    150,
		Generations:   500,
		CrossoverProb: 0.8,
		MutationProb:  0.2,
		ElitismRate:   0.1,
		TournamentK:   3,
		Stagnation:    50,
		Weights:       GeneticWeights(),
	}
}

// chromosome is one complete candidate assignment with cached fitness.
type chromosome struct {
	genes   model.Assignment
	fitness float64
}

type geneticSolver struct {
	cfg    Config
	params GeneticParams
	rng    *rand.Rand
}

// NewGenetic builds the evolutionary solver. Seed the rand source for
// reproducible runs.
func NewGenetic(cfg Config, params GeneticParams, rng *rand.Rand) Solver {
	return &geneticSolver{cfg: cfg, params: params, rng: rng}
}

func (g *geneticSolver) Solve(sessions []*model.Session) (Result, error) {
	pre := g.cfg.prepare(sessions)
	violated := violatedSet(pre.Violations)
	eval := &evaluator{cfg: g.cfg, weights: g.params.Weights, sessions: sessions}

	population, err := g.initialize(sessions, pre, violated, eval)
	if err != nil {
		return Result{}, err
	}

	best := population[0]
	for _, c := range population[1:] {
		if c.fitness > best.fitness {
			best = c
		}
	}
	best = chromosome{genes: best.genes.Clone(), fitness: best.fitness}

	stagnant := 0
	elites := int(g.params.ElitismRate * float64(g.params.Population))
	for gen := 0; gen < g.params.Generations && stagnant < g.params.Stagnation; gen++ {
		mutationProb := g.params.MutationProb * (1 - float64(gen)/float64(g.params.Generations))

		slices.SortFunc(population, func(a, b chromosome) int {
			switch {
			case a.fitness > b.fitness:
				return -1
			case a.fitness < b.fitness:
				return 1
			}
			return 0
		})

		next := make([]chromosome, 0, g.params.Population)
		for i := 0; i < elites && i < len(population); i++ {
			next = append(next, chromosome{genes: population[i].genes.Clone(), fitness: population[i].fitness})
		}

		for len(next) < g.params.Population {
			p1 := g.tournament(population)
			p2 := g.tournament(population)
			child := g.crossover(p1, p2)
			if err := g.mutate(sessions, child, mutationProb); err != nil {
				return Result{}, err
			}
			if err := g.repair(sessions, child, violated); err != nil {
				return Result{}, err
			}
			next = append(next, chromosome{genes: child, fitness: eval.fitness(child)})
		}
		population = next

		improved := false
		for _, c := range population {
			if c.fitness > best.fitness {
				best = chromosome{genes: c.genes.Clone(), fitness: c.fitness}
				improved = true
			}
		}
		if improved {
			stagnant = 0
		} else {
			stagnant++
		}
	}

	g.cfg.logf("genetic search finished with fitness %.2f", best.fitness)
	return Result{Assignment: best.genes, Violations: pre.Violations}, nil
}

//** Population setup

func (g *geneticSolver) initialize(sessions []*model.Session, pre constraint.Result, violated map[int]bool, eval *evaluator) ([]chromosome, error) {
	population := make([]chromosome, 0, g.params.Population)

	// One individual seeded from the input table's current rooms, overlaid
	// with the pre-assigned placements.
	seed := model.SeedFromSessions(sessions)
	for _, s := range sessions {
		if pre.Assignment.Assigned(s.ID) {
			seed.Set(s.ID, pre.Assignment.Get(s.ID))
		}
	}
	if err := g.repair(sessions, seed, violated); err != nil {
		return nil, err
	}
	population = append(population, chromosome{genes: seed, fitness: eval.fitness(seed)})

	for len(population) < g.params.Population {
		genes := model.NewAssignment(len(sessions))
		for _, s := range sessions {
			room, err := randomRoom(g.cfg.Catalog, s.RequiredType, g.rng)
			if err != nil {
				return nil, err
			}
			genes.Set(s.ID, room)
		}
		if err := g.repair(sessions, genes, violated); err != nil {
			return nil, err
		}
		population = append(population, chromosome{genes: genes, fitness: eval.fitness(genes)})
	}
	return population, nil
}

//** Genetic operators

func (g *geneticSolver) tournament(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.params.TournamentK; i++ {
		contender := population[g.rng.Intn(len(population))]
		if contender.fitness > best.fitness {
			best = contender
		}
	}
	return best
}

func (g *geneticSolver) crossover(p1, p2 chromosome) model.Assignment {
	child := p1.genes.Clone()
	if g.rng.Float64() >= g.params.CrossoverProb {
		return child
	}
	for id := 0; id < child.Len(); id++ {
		if g.rng.Float64() < 0.5 {
			child.Set(id, p2.genes.Get(id))
		}
	}
	return child
}

func (g *geneticSolver) mutate(sessions []*model.Session, genes model.Assignment, prob float64) error {
	for _, s := range sessions {
		if g.rng.Float64() >= prob {
			continue
		}
		room, err := randomRoom(g.cfg.Catalog, s.RequiredType, g.rng)
		if err != nil {
			return err
		}
		genes.Set(s.ID, room)
	}
	return nil
}

// repair re-enforces the hard constraints after every genetic operation:
// mandatory preferences first, then invalid or mistyped rooms, then the
// single-theory-room rule for first-semester groups.
func (g *geneticSolver) repair(sessions []*model.Session, genes model.Assignment, violated map[int]bool) error {
	forceMandatory(sessions, genes, g.cfg.Prefs, violated)

	for _, s := range sessions {
		room := genes.Get(s.ID)
		if g.cfg.Catalog.IsValid(room) && g.cfg.Catalog.Type(room) == s.RequiredType {
			continue
		}
		replacement, err := randomRoom(g.cfg.Catalog, s.RequiredType, g.rng)
		if err != nil {
			return err
		}
		genes.Set(s.ID, replacement)
	}

	modal := firstSemesterModalRooms(sessions, genes)
	for _, s := range sessions {
		if !s.FirstSemester || s.RequiredType != catalog.Theory || violated[s.ID] {
			continue
		}
		if constraint.IsMandatory(s.Instructor, s.Subject, s.RequiredType, g.cfg.Prefs) {
			continue
		}
		if room, ok := modal[s.Group]; ok {
			genes.Set(s.ID, room)
		}
	}
	return nil
}
