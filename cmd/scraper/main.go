package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/RooJenkins/UPLO5/config"
	"github.com/RooJenkins/UPLO5/internal/broker"
	"github.com/RooJenkins/UPLO5/internal/redisclient"
	"github.com/RooJenkins/UPLO5/internal/scraper"
	"github.com/RooJenkins/UPLO5/internal/service"
	"github.com/RooJenkins/UPLO5/internal/store"
	"github.com/RooJenkins/UPLO5/internal/util"
)

func main() {
	var (
		source  = flag.String("source", "", "scraper source to run")
		all     = flag.Bool("all", false, "run all available scrapers")
		limit   = flag.Int("limit", 0, "maximum products to scrape (overrides config)")
		list    = flag.Bool("list", false, "list available scrapers and exit")
		migrate = flag.Bool("migrate", false, "create the catalog schema before scraping")
		live    = flag.Bool("live", false, "enable live network extraction")
	)
	flag.Parse()

	cfg := config.Load()
	if *live {
		cfg.Scrape.Live = true
	}

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	registry := buildRegistry(cfg)

	if *list {
		fmt.Println("\nAvailable scrapers:")
		for _, name := range registry.Sources() {
			fmt.Printf("  - %s\n", name)
		}
		fmt.Println()
		return
	}

	if *source == "" && !*all {
		fmt.Fprintln(os.Stderr, "either -source or -all must be specified")
		flag.Usage()
		os.Exit(2)
	}

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *migrate {
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}
		log.Println("Schema ready")
	}

	var cache *redisclient.Client
	if c, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("Redis unavailable, catalog version will not be bumped: %v", err)
	} else {
		cache = c
		defer cache.Close()
	}

	var publisher *broker.EventPublisher
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicCatalog)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")
	}

	ingest := service.NewIngestService(db, cache, registry, publisher, cfg.Scrape.MaxProducts)

	var results []service.SourceResult
	if *all {
		results = ingest.RunAll(ctx, *limit)
	} else {
		result, err := ingest.RunSource(ctx, *source, *limit)
		if err != nil {
			if result == nil {
				log.Fatalf("Scrape failed: %v", err)
			}
			result.Err = err
		}
		results = append(results, *result)
	}

	if ctx.Err() != nil {
		log.Println("Scraping interrupted")
		os.Exit(1)
	}

	printSummary(results)

	total, err := ingest.CatalogSize(context.Background())
	if err != nil {
		log.Printf("Failed to read catalog size: %v", err)
	} else {
		fmt.Printf("Total products in database: %d\n\n", total)
	}

	for _, r := range results {
		if r.Err != nil && len(results) == 1 {
			// A single failed source is a failed run; with -all, isolated
			// source failures only degrade the yield.
			os.Exit(1)
		}
	}
}

func buildRegistry(cfg *config.Config) *scraper.Registry {
	registry := scraper.NewRegistry()
	live := cfg.Scrape.Live
	timeout := cfg.Scrape.FetchTimeout
	delay := cfg.Scrape.RequestDelay

	registry.Register(scraper.NewASOSScraper(scraper.NewFetcher(timeout, delay), live))
	registry.Register(scraper.NewHMScraper(scraper.NewFetcher(timeout, delay), live))
	registry.Register(scraper.NewUniqloScraper(scraper.NewFetcher(timeout, delay), live))
	return registry
}

func printSummary(results []service.SourceResult) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SCRAPING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	total := 0
	for _, r := range results {
		status := ""
		if r.Err != nil {
			status = "  (failed: " + r.Err.Error() + ")"
		}
		fmt.Printf("%-10s: %4d scraped, %4d saved%s\n", r.Source, r.Scraped, r.Saved, status)
		total += r.Saved
	}
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%-10s: %4d products\n", "TOTAL", total)
	fmt.Println(strings.Repeat("=", 60))
}
