package main

import (
	"flag"
	"log"

	"linksearch/pkg/config"
	"linksearch/pkg/index"
	"linksearch/pkg/utils/sys"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	profile := flag.Bool("profile", false, "write mem.prof and trace.out")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if *profile {
		stopTrace := sys.LogTraceProfile()
		defer stopTrace()
	}

	opts := index.Options{
		Workers:    cfg.Indexer.Workers,
		Batch:      cfg.Indexer.Batch,
		Damping:    cfg.PageRank.Damping,
		Iterations: cfg.PageRank.Iterations,
		Epsilon:    cfg.PageRank.Epsilon,
	}

	summary, err := index.Build(cfg.Paths.Pages, cfg.Paths.Index, opts)
	if err != nil {
		log.Fatalf("build failed, previous artifacts untouched: %v", err)
	}

	sys.LogMemoryUsage()
	if *profile {
		if err := sys.LogMemoryProfile()(); err != nil {
			log.Println(err)
		}
	}

	if !summary.Converged {
		log.Printf("warning: pagerank did not converge in %d iterations\n", summary.PageRankIterations)
	}
	log.Printf("Index ready at %s: %d docs, %d terms, %d postings.\n",
		cfg.Paths.Index, summary.Docs, summary.Terms, summary.Postings)
}
