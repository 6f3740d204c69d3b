// levelgen generates a level from a template catalog and prints its layout.
//
// Usage:
//
//	go run ./cmd/levelgen \
//	    -config config/levelgen.yaml \
//	    -seed 42 \
//	    -simulate
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lawnchairsociety/roomforge/internal/catalog"
	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/dungeon"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/lawnchairsociety/roomforge/internal/runlog"
)

func main() {
	configPath := flag.String("config", "config/levelgen.yaml", "Path to configuration file")
	catalogPath := flag.String("catalog", "", "Template catalog (overrides the config)")
	seed := flag.Int64("seed", 0, "Generation seed (0 uses the config, then the clock)")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	record := flag.Bool("runlog", false, "Record the run even if the config disables the run log")
	simulate := flag.Bool("simulate", false, "Play every encounter room to check it can be cleared")
	flag.Parse()

	logConfig, err := logger.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load logging config: %v\n", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	if *catalogPath != "" {
		cfg.Catalog = *catalogPath
	}
	if *record {
		cfg.RunLog.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		fatalf("Invalid config: %v", err)
	}

	if !catalog.CatalogFileExists(cfg.Catalog) {
		fatalf("Catalog not found: %s", cfg.Catalog)
	}
	c, err := catalog.LoadCatalog(cfg.Catalog)
	if err != nil {
		fatalf("Error loading catalog: %v", err)
	}

	gen, err := dungeon.NewGenerator(cfg, c)
	if err != nil {
		fatalf("Error preparing generator: %v", err)
	}

	levelSeed := pickSeed(*seed, cfg.Generation.Seed)
	level, err := gen.Generate(levelSeed)
	if err != nil {
		fatalf("Error generating level: %v", err)
	}

	var output strings.Builder
	renderLevel(&output, level)

	if *simulate {
		report, err := level.Playthrough(100*time.Millisecond, 100)
		if err != nil {
			fatalf("Playthrough failed: %v", err)
		}
		output.WriteString(fmt.Sprintf("\nPlaythrough: %d rooms cleared, %d enemies killed, %d ticks\n",
			report.RoomsCleared, report.EnemiesKilled, report.Ticks))
	}

	if cfg.RunLog.Enabled {
		if err := recordRun(cfg, level); err != nil {
			logger.Error("Failed to record run", "error", err)
		}
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fatalf("Error writing output file: %v", err)
		}
		fmt.Printf("Level written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

// pickSeed prefers the flag, then the config, then the clock.
func pickSeed(flagSeed, configSeed int64) int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	if configSeed != 0 {
		return configSeed
	}
	return time.Now().UnixNano()
}

func recordRun(cfg *config.Config, level *dungeon.Level) error {
	ledger, err := runlog.Open(cfg.RunLog)
	if err != nil {
		return err
	}
	defer ledger.Close()

	id, err := ledger.RecordRun(newRun(cfg.Catalog, level))
	if err != nil {
		return err
	}
	logger.Info("Run recorded", "id", id, "seed", level.Seed)
	return nil
}

func newRun(catalogPath string, level *dungeon.Level) *runlog.Run {
	run := &runlog.Run{
		Seed:           level.Seed,
		Catalog:        catalogPath,
		RoomsRequested: level.Layout.RoomsRequested,
		RoomsGenerated: level.Layout.RoomsGenerated,
		ExtraRequested: level.Layout.ExtraRequested,
		ExtraAdded:     level.Layout.ExtraAdded,
		Encounters:     len(level.Encounters),
		Enemies:        level.EnemyCount(),
		Warnings:       level.Warnings,
	}
	if level.Placement != nil {
		run.Corridors = level.Placement.CorridorCount()
		run.CappedRoutes = len(level.Placement.CappedRoutes())
	}
	return run
}

func fatalf(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
