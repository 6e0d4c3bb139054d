// Command deckgen runs the generation pipeline once, synchronously, from the
// command line: topic or document in, pptx file out.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"deckgen/internal/domain"
	"deckgen/internal/enrich"
	"deckgen/internal/infra"
	"deckgen/internal/oracle"
	"deckgen/internal/orchestrator"
	"deckgen/internal/planner"
	"deckgen/internal/storage"
)

func main() {
	topic := flag.String("topic", "", "presentation topic")
	document := flag.String("document", "", "path to a .txt, .docx or .pdf source document")
	slides := flag.Int("slides", 0, "slide count (0 derives from input length)")
	theme := flag.String("theme", "corporate", "visual theme")
	textSize := flag.String("size", "medium", "text size profile")
	tone := flag.String("tone", "professional", "writing tone")
	audience := flag.String("audience", "general public", "target audience")
	out := flag.String("out", "presentation", "output filename without extension")
	var flowcharts stringList
	flag.Var(&flowcharts, "flowchart", `extra diagram slide, shorthand ("A->B;B->C") or Mermaid; repeatable`)
	flag.Parse()

	if (*topic == "") == (*document == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -topic or -document is required")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}

	throttle := oracle.NewThrottle(cfg.OracleInFlight)
	retry := oracle.RetryPolicy{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		MaxDelay:    cfg.RetryMaxDelay,
	}
	oracleHTTP := &http.Client{Timeout: cfg.OracleTimeout}

	gemini, err := oracle.NewGeminiClient(oracle.GeminiOptions{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: oracleHTTP,
		Throttle:   throttle,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure text oracle")
	}
	pexels, err := oracle.NewPexelsClient(oracle.PexelsOptions{
		APIKey:     cfg.PexelsAPIKey,
		BaseURL:    cfg.PexelsBaseURL,
		HTTPClient: oracleHTTP,
		Throttle:   throttle,
		Logger:     &logger,
		MinWidth:   cfg.MinImageWidth,
		MinHeight:  cfg.MinImageHeight,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure image oracle")
	}
	kroki, err := oracle.NewKrokiRenderer(oracle.KrokiOptions{
		BaseURL:    cfg.RenderBaseURL,
		HTTPClient: oracleHTTP,
		Throttle:   throttle,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure diagram renderer")
	}

	orc := orchestrator.New(orchestrator.Options{
		Planner: planner.New(planner.Options{
			Oracle:         gemini,
			Retry:          retry,
			MinSlides:      cfg.MinSlides,
			MaxSlides:      cfg.MaxSlides,
			RepairAttempts: cfg.RepairAttempts,
			Logger:         logger,
		}),
		Enricher: enrich.New(enrich.Options{
			Images:   pexels,
			Diagrams: kroki,
			Retry:    retry,
			Workers:  cfg.EnrichWorkers,
			Logger:   logger,
		}),
		Store:     store,
		Logger:    logger,
		MinSlides: cfg.MinSlides,
		MaxSlides: cfg.MaxSlides,
	})

	input := domain.Input{Topic: *topic, DocumentPath: *document, Flowcharts: flowcharts}
	params := domain.Params{
		SlideCount: *slides,
		Theme:      domain.Theme(*theme),
		TextSize:   domain.TextSize(*textSize),
		Tone:       domain.Tone(*tone),
		Audience:   domain.Audience(*audience),
		Filename:   *out,
	}

	id, err := orc.Submit(input, params)
	if err != nil {
		logger.Fatal().Err(err).Msg("submission rejected")
	}

	// Ctrl-C requests cooperative cancellation instead of killing the
	// process mid-write.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Warn().Msg("cancelling...")
		_ = orc.Cancel(id)
	}()

	snap := waitForTerminal(orc, id, logger)
	switch snap.State {
	case domain.JobStateCompleted:
		path, _, err := orc.ArtifactPath(id)
		if err != nil {
			logger.Fatal().Err(err).Msg("artifact missing after completion")
		}
		fmt.Printf("wrote %s (%d slides)\n", path, snap.SlideCount)
	case domain.JobStateCancelled:
		fmt.Fprintln(os.Stderr, "cancelled")
		os.Exit(130)
	default:
		if snap.Error != nil {
			fmt.Fprintf(os.Stderr, "failed (%s): %s\n", snap.Error.Kind, snap.Error.Message)
		} else {
			fmt.Fprintln(os.Stderr, "failed")
		}
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = orc.Shutdown(ctx)
}

// stringList collects a repeatable flag's values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, "; ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// waitForTerminal polls until the job reaches a terminal state, printing
// stage changes as it goes.
func waitForTerminal(orc *orchestrator.Orchestrator, id string, logger infra.Logger) domain.Snapshot {
	lastStage := ""
	for {
		snap, err := orc.Poll(id)
		if err != nil {
			logger.Fatal().Err(err).Msg("poll failed")
		}
		if snap.Stage != lastStage {
			fmt.Printf("[%3d%%] %s\n", snap.Percent, snap.Stage)
			lastStage = snap.Stage
		}
		if snap.State.Terminal() {
			return snap
		}
		time.Sleep(500 * time.Millisecond)
	}
}
