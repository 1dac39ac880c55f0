package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"slices"
	"strings"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/model"
	"github.com/salones-isc/roomassign/internal/movement"
	"github.com/salones-isc/roomassign/internal/solver"
)

var (
	validMethods = []string{"greedy", "genetic", "ml"}

	population  int
	generations int
	iterations  int

	solvers = map[string]func(solver.Config, *rand.Rand) solver.Solver{
		"greedy": func(cfg solver.Config, rng *rand.Rand) solver.Solver {
			params := solver.DefaultGreedyParams()
			if iterations > 0 {
				params.Iterations = iterations
			}
			return solver.NewGreedy(cfg, params, rng)
		},
		"genetic": func(cfg solver.Config, rng *rand.Rand) solver.Solver {
			params := solver.DefaultGeneticParams()
			if population > 0 {
				params.Population = population
			}
			if generations > 0 {
				params.Generations = generations
			}
			return solver.NewGenetic(cfg, params, rng)
		},
		"ml": func(cfg solver.Config, rng *rand.Rand) solver.Solver {
			return solver.NewML(cfg, solver.DefaultMLParams(), rng)
		},
	}
)

func main() {
	// Define arguments
	methodPtr := flag.String("method", "greedy", `Assignment method. Allowed values are:
- "greedy" (constructive heuristic with hill-climbing refinement, the default),
- "genetic" (evolutionary search over complete assignments) and
- "ml" (classifier trained on the input's valid placements)`)
	filePathPtr := flag.String("file", "", "Path to the session table (CSV)")
	outFilePathPtr := flag.String("out", "", "Path where the assigned table will be written; if empty, only the movement report is printed")
	subjectsPtr := flag.String("subjects", "", "Path to the subject hour-split configuration (JSON), optional")
	prefsPtr := flag.String("prefs", "", "Path to the instructor preference configuration (JSON), optional")
	firstSemPtr := flag.String("firstsem", "", "Path to the first-semester room map (JSON), optional")
	seedPtr := flag.Int64("seed", 1, "Seed for the random source, for reproducible runs")
	flag.IntVar(&population, "population", 0, "Population size for the genetic method (0 keeps the default)")
	flag.IntVar(&generations, "generations", 0, "Generation budget for the genetic method (0 keeps the default)")
	flag.IntVar(&iterations, "iterations", 0, "Refinement iteration budget for the greedy method (0 keeps the default)")
	verbosePtr := flag.Bool("verbose", false, "Log conflict resolutions and solver progress")
	flag.Parse()
	method := strings.ToLower(*methodPtr)

	// Validate arguments
	if !slices.Contains(validMethods, method) {
		log.Fatalf("%v is not a valid method", method)
	} else if *filePathPtr == "" {
		log.Fatal("an input file must be specified")
	}

	// Extract input
	sessions, err := model.LoadSessions(*filePathPtr)
	if err != nil {
		log.Fatalf("cannot load session table: %v", err)
	}
	cfg := solver.Config{
		Catalog:  catalog.Default(),
		Subjects: model.SubjectConfig{},
		Prefs:    model.PreferenceConfig{},
	}
	if *subjectsPtr != "" {
		if cfg.Subjects, err = model.LoadSubjectConfig(*subjectsPtr); err != nil {
			log.Fatalf("cannot load subject configuration: %v", err)
		}
	}
	if *prefsPtr != "" {
		if cfg.Prefs, err = model.LoadPreferenceConfig(*prefsPtr); err != nil {
			log.Fatalf("cannot load preference configuration: %v", err)
		}
	}
	if *firstSemPtr != "" {
		if cfg.FirstSemester, err = model.LoadFirstSemesterRooms(*firstSemPtr); err != nil {
			log.Fatalf("cannot load first-semester room map: %v", err)
		}
	}
	if *verbosePtr {
		cfg.Logger = log.New(os.Stderr, method+": ", log.LstdFlags)
	}

	baseline := movement.Analyze(sessions, model.SeedFromSessions(sessions), cfg.Catalog)

	// Solve
	engine := solvers[method](cfg, rand.New(rand.NewSource(*seedPtr)))
	result, err := engine.Solve(sessions)
	if err != nil {
		log.Fatalf("an error occurred during assignment: %v", err)
	}

	// Report
	optimized := movement.Analyze(sessions, result.Assignment, cfg.Catalog)
	delta := movement.Compare(baseline, optimized)
	fmt.Printf("Sessions: %v\n", len(sessions))
	fmt.Printf("Room changes: %v -> %v (%.1f%%)\n", baseline.RoomChanges, optimized.RoomChanges, delta.RoomChangesPercent)
	fmt.Printf("Floor changes: %v -> %v (%.1f%%)\n", baseline.FloorChanges, optimized.FloorChanges, delta.FloorChangesPercent)
	fmt.Printf("Distance: %.1f -> %.1f (%.1f%%)\n", baseline.Distance, optimized.Distance, delta.DistancePercent)
	for _, v := range result.Violations {
		fmt.Printf("UNRESOLVED: %v / %v preferred %v, assigned %v (%v)\n",
			v.Instructor, v.Subject, v.Preferred, v.Assigned, v.Reason)
	}

	if *outFilePathPtr != "" {
		if err := model.WriteSessions(*outFilePathPtr, sessions, result.Assignment, cfg.Catalog); err != nil {
			log.Fatalf("cannot write assigned table: %v", err)
		}
	}
}
