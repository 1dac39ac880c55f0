package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/salones-isc/roomassign/internal/catalog"
	"github.com/salones-isc/roomassign/internal/model"
	"github.com/salones-isc/roomassign/internal/movement"
	"github.com/salones-isc/roomassign/internal/solver"
)

// BenchmarkResult is one method's outcome over the shared input.
type BenchmarkResult struct {
	Method       string
	Duration     time.Duration
	RoomChanges  int
	FloorChanges int
	Distance     float64
	Violations   int
}

func main() {
	filePathPtr := flag.String("file", "", "Path to the session table (CSV)")
	subjectsPtr := flag.String("subjects", "", "Path to the subject hour-split configuration (JSON), optional")
	prefsPtr := flag.String("prefs", "", "Path to the instructor preference configuration (JSON), optional")
	firstSemPtr := flag.String("firstsem", "", "Path to the first-semester room map (JSON), optional")
	seedPtr := flag.Int64("seed", 1, "Seed for the random sources")
	flag.Parse()

	if *filePathPtr == "" {
		log.Fatal("an input file must be specified")
	}

	cfg := solver.Config{
		Catalog:  catalog.Default(),
		Subjects: model.SubjectConfig{},
		Prefs:    model.PreferenceConfig{},
	}
	var err error
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

	methods := []struct {
		name  string
		build func(*rand.Rand) solver.Solver
	}{
		{"greedy", func(rng *rand.Rand) solver.Solver {
			return solver.NewGreedy(cfg, solver.DefaultGreedyParams(), rng)
		}},
		{"genetic", func(rng *rand.Rand) solver.Solver {
			return solver.NewGenetic(cfg, solver.DefaultGeneticParams(), rng)
		}},
		{"ml", func(rng *rand.Rand) solver.Solver {
			return solver.NewML(cfg, solver.DefaultMLParams(), rng)
		}},
	}

	// Each method reloads the table: pre-assignment may reschedule sessions
	// and the runs must stay independent.
	results := make([]BenchmarkResult, 0, len(methods))
	var baseline movement.Report
	for i, method := range methods {
		sessions, err := model.LoadSessions(*filePathPtr)
		if err != nil {
			log.Fatalf("cannot load session table: %v", err)
		}
		if i == 0 {
			baseline = movement.Analyze(sessions, model.SeedFromSessions(sessions), cfg.Catalog)
		}

		start := time.Now()
		result, err := method.build(rand.New(rand.NewSource(*seedPtr))).Solve(sessions)
		if err != nil {
			log.Fatalf("%v failed: %v", method.name, err)
		}
		report := movement.Analyze(sessions, result.Assignment, cfg.Catalog)
		results = append(results, BenchmarkResult{
			Method:       method.name,
			Duration:     time.Since(start),
			RoomChanges:  report.RoomChanges,
			FloorChanges: report.FloorChanges,
			Distance:     report.Distance,
			Violations:   len(result.Violations),
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tDURATION\tROOM CHANGES\tFLOOR CHANGES\tDISTANCE\tUNRESOLVED")
	fmt.Fprintf(w, "input\t-\t%v\t%v\t%.1f\t-\n", baseline.RoomChanges, baseline.FloorChanges, baseline.Distance)
	for _, r := range results {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%.1f\t%v\n",
			r.Method, r.Duration.Round(time.Millisecond), r.RoomChanges, r.FloorChanges, r.Distance, r.Violations)
	}
	w.Flush()
}
