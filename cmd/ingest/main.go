// Command ingest loads a YAML corpus of park documents into the passage store.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"rainier-guide-be/internal/bootstrap"
	"rainier-guide-be/internal/config"
	"rainier-guide-be/internal/dto"
	"rainier-guide-be/internal/pkg/logger"
	"rainier-guide-be/internal/pkg/serverutils"
	"rainier-guide-be/internal/repository/unitofwork"
	"rainier-guide-be/internal/service"
	"rainier-guide-be/pkg/database"

	"gopkg.in/yaml.v3"
)

type corpusFile struct {
	Documents []dto.IngestPassageRequest `yaml:"documents"`
}

func main() {
	cfg := config.Load()
	path := flag.String("file", cfg.Data.CorpusFile, "YAML corpus file")
	flag.Parse()

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read corpus: %v", err)
	}
	var corpus corpusFile
	if err := yaml.Unmarshal(raw, &corpus); err != nil {
		log.Fatalf("parse corpus: %v", err)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	// Documents are ingested inline; no queue subscriber is needed.
	consumer := service.NewConsumerService(
		nil,
		cfg.Data.IngestTopic,
		unitofwork.NewRepositoryFactory(db),
		bootstrap.NewEmbeddingProvider(cfg),
		nil,
		service.ChunkConfig{Size: cfg.Data.ChunkSize, Overlap: cfg.Data.ChunkOverlap},
		sysLogger,
	)

	ctx := context.Background()
	var total, failed int
	for i, doc := range corpus.Documents {
		if err := serverutils.ValidateRequest(doc); err != nil {
			log.Printf("skip document %d: %v", i, err)
			failed++
			continue
		}
		n, err := consumer.Ingest(ctx, doc)
		if err != nil {
			log.Printf("ingest %q failed: %v", doc.Source, err)
			failed++
			continue
		}
		log.Printf("ingested %q: %d chunks", doc.Source, n)
		total += n
	}

	log.Printf("✅ Done: %d documents, %d chunks, %d failed", len(corpus.Documents), total, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
