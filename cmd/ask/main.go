// Command ask answers one question from the terminal and prints each pipeline stage as it happens.
//
//	go run ./cmd/ask "What should I pack for Camp Muir?"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"rainier-guide-be/internal/bootstrap"
	"rainier-guide-be/internal/config"
	"rainier-guide-be/internal/repository/implementation"
	"rainier-guide-be/pkg/ai/pipeline"
	"rainier-guide-be/pkg/database"
	"rainier-guide-be/pkg/trails"

	"github.com/fatih/color"
)

func main() {
	name := flag.String("name", "", "visitor name remembered from an earlier introduction")
	quiet := flag.Bool("quiet", false, "print only the answer")
	flag.Parse()

	question := strings.Join(flag.Args(), " ")
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: ask [-name NAME] [-quiet] QUESTION")
		os.Exit(2)
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.Verbose)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	ctx := context.Background()
	logs := bootstrap.Loggers(func(module string) *log.Logger {
		return log.New(os.Stderr, "["+module+"] ", log.LstdFlags)
	})
	if *quiet {
		logs = func(string) *log.Logger { return log.New(io.Discard, "", 0) }
	}

	catalog, err := trails.Load(cfg.Data.TrailsFile)
	if err != nil {
		log.Fatalf("trail dataset: %v", err)
	}
	loader := bootstrap.NewCacheLoader(cfg, bootstrap.NewRedisClient(ctx, cfg), logs)
	chain, err := bootstrap.NewPipeline(cfg, bootstrap.PipelineParts{
		Embedding: bootstrap.NewEmbeddingProvider(cfg),
		Index:     implementation.NewParkPassageRepository(db),
		Weather:   bootstrap.NewWeatherClient(cfg, loader, logs),
		Alerts:    bootstrap.NewAlertsClient(cfg, loader, logs),
		Trails:    catalog,
	}, logs)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	var result *pipeline.AnswerResult
	for ev := range chain.Orchestrator.Stream(ctx, pipeline.Request{Question: question, VisitorName: *name}) {
		if !*quiet {
			printEvent(ev)
		}
		if ev.Result != nil {
			result = ev.Result
		}
		if ev.Stage == pipeline.StageError {
			os.Exit(1)
		}
	}
	if result == nil {
		os.Exit(1)
	}
	printResult(result, *quiet)
}

var (
	stageColor = color.New(color.FgCyan, color.Bold)
	skipColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed, color.Bold)
	okColor    = color.New(color.FgGreen)
)

func printEvent(ev pipeline.ProgressEvent) {
	stage := strings.ToUpper(ev.Stage)
	line := fmt.Sprintf("[%3d%%] %s: %s", ev.Progress, stage, ev.Message)
	switch ev.Status {
	case pipeline.StatusError:
		errColor.Println(line)
		if ev.Error != "" {
			errColor.Println("       " + ev.Error)
		}
	case pipeline.StatusSkipped, pipeline.StatusNoResults:
		skipColor.Println(line)
	case pipeline.StatusCompleted:
		okColor.Println(line)
	default:
		stageColor.Println(line)
	}
}

func printResult(r *pipeline.AnswerResult, quiet bool) {
	if quiet {
		fmt.Println(r.Answer)
		return
	}
	fmt.Println()
	fmt.Println(r.Answer)
	fmt.Println()
	if r.EnhancedQuestion != "" && r.EnhancedQuestion != r.OriginalQuestion {
		fmt.Printf("Searched for: %s\n", r.EnhancedQuestion)
	}
	fmt.Printf("Intent: %s | passages: %d | weather: %t | alerts: %t\n",
		r.Intent, r.RetrievedPassages, r.WeatherUsed, r.AlertsUsed)
	for _, s := range r.Sources {
		fmt.Printf("  - %s", s.Name)
		if s.URL != "" {
			fmt.Printf(" (%s)", s.URL)
		}
		fmt.Println()
	}
}
