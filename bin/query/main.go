package main

import (
	"flag"
	"log"

	"linksearch/pkg/config"
	"linksearch/pkg/engine"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Engine initialization started...")

	eg := engine.New(cfg.Paths.Index, engine.Config{
		WeightCosine:       cfg.Search.WeightCosine,
		WeightPageRank:     cfg.Search.WeightPageRank,
		RelevanceThreshold: cfg.Search.RelevanceThreshold,
		CacheSize:          cfg.Search.CacheSize,
		Readers:            cfg.Search.Readers,
	})
	if err := eg.Reload(); err != nil {
		log.Fatal(err)
	}

	snap := eg.Snapshot()
	log.Printf("Engine ready: %d docs, %d terms.\n", snap.DocCount(), snap.TermCount())

	eg.Run(cfg.Search.TopK)
}
