package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"unilist/config"
	"unilist/converter"
	"unilist/fetcher"
	"unilist/generator"
	"unilist/optimizer"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "sources.yaml", "Path to configuration file")
	outputPath := flag.String("output", "", "Path to the output file (overrides config setting)")
	cacheDir := flag.String("cache", "cache", "Path to the cache directory")
	noCache := flag.Bool("no-cache", false, "Disable caching of source lists")
	cleanCache := flag.Bool("clean-cache", false, "Clean the cache directory before running")
	showStats := flag.Bool("stats", false, "Print statistics after generation")
	flag.Parse()

	start := time.Now()
	log.Printf("Starting unified list generator")

	// 1. Load config. Missing or invalid configuration is the one
	// fatal failure mode besides a run with zero usable sources.
	cfgMgr := config.NewManager(*configPath)
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Failed to load config from %s: %v", *configPath, err)
		return 1
	}
	cfg := cfgMgr.Get()
	log.Printf("Configuration loaded from %s", *configPath)

	output := cfg.Settings.OutputFile
	if *outputPath != "" {
		output = *outputPath
	}

	// 2. Fetch sources.
	f, err := fetcher.New(cfg, *cacheDir, !*noCache)
	if err != nil {
		log.Printf("Fetcher setup failed: %v", err)
		return 1
	}
	if *cleanCache {
		log.Printf("Cleaning cache directory")
		if err := f.CleanCache(); err != nil {
			log.Printf("Cache cleanup failed: %v", err)
		}
	}

	sources := cfg.EnabledSources()
	log.Printf("Fetching %d enabled sources", len(sources))
	results, failed := f.FetchAll(context.Background(), sources)
	if len(results) == 0 {
		log.Printf("No sources could be fetched, aborting")
		return 1
	}

	// 3. Convert and classify.
	sourceRules := make([]converter.SourceRules, 0, len(results))
	fetched := 0
	for _, r := range results {
		sourceRules = append(sourceRules, converter.SourceRules{
			Name:    r.Source.Name,
			Dialect: r.Source.Type,
			Lines:   r.Lines,
		})
		fetched += len(r.Lines)
	}
	conv := converter.NewConverter()
	grouped, procStats := conv.ProcessRules(sourceRules, cfg)

	// 4. Optimize.
	rules, optStats := optimizer.Optimize(grouped, cfg.Sections)
	log.Printf("Optimized %d rules down to %d (%d duplicates, %d redundant, %d orphaned exceptions)",
		optStats.Input, optStats.Final, optStats.Duplicates, optStats.Redundant, optStats.Conflicts)

	// 5. Generate the unified list.
	gen := generator.New(cfg)
	genStats, err := gen.WriteFile(output, rules)
	if err != nil {
		log.Printf("List generation failed: %v", err)
		return 1
	}

	elapsed := time.Since(start).Round(10 * time.Millisecond)
	log.Printf("Unified list generated at %s in %v (%d source fetches failed)",
		output, elapsed, failed)

	if *showStats {
		printStats(output, fetched, failed, procStats, optStats, genStats)
	}
	return 0
}

func printStats(output string, fetched, failed int, proc converter.ProcessStats,
	opt optimizer.Stats, gen generator.Stats) {
	log.Printf("=== List Statistics ===")
	log.Printf("Sources processed: %d (%d failed)", proc.Sources, failed)
	log.Printf("Rules fetched: %d", fetched)
	log.Printf("Rules converted: %d", proc.Converted)
	log.Printf("Rules dropped: %d", proc.Dropped)
	log.Printf("Duplicates removed: %d", opt.Duplicates)
	log.Printf("Redundant removed: %d", opt.Redundant)
	log.Printf("Conflicts resolved: %d", opt.Conflicts)
	log.Printf("Final rule count: %d", gen.TotalRules)
	for _, name := range sortedSectionNames(gen.Sections) {
		log.Printf("Section %q: %d rules", name, gen.Sections[name])
	}
	log.Printf("Output: %s", filepath.Clean(output))
}

func sortedSectionNames(sections map[string]int) []string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
