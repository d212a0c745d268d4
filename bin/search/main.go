package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"linksearch/pkg/config"
	"linksearch/pkg/engine"
)

// One-shot query runner for scripting: search -config cfg.yaml <query terms>.
func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	query := strings.Join(flag.Args(), " ")
	if query == "" {
		log.Fatal("usage: search [-config file] <query>")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

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

	results, err := eg.Search(query, cfg.Search.TopK)
	if err != nil {
		log.Fatal(err)
	}
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	for i, r := range results {
		fmt.Printf("%d) %d %s %s %f\n", i+1, r.DocID, r.URL, r.Title, r.Score)
	}
}
