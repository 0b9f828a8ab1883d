package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/habla-dev/habla/internal/api"
	"github.com/habla-dev/habla/internal/asr"
	"github.com/habla-dev/habla/internal/audio"
	"github.com/habla-dev/habla/internal/config"
	"github.com/habla-dev/habla/internal/metrics"
	"github.com/habla-dev/habla/internal/storage/sqlite"
	"github.com/habla-dev/habla/internal/translate"
	"github.com/habla-dev/habla/internal/websocket"
	"github.com/habla-dev/habla/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	wavPath := flag.String("wav", "", "Path to a WAV file to translate")
	realtime := flag.Int("realtime", 0, "Record from the microphone for this many seconds instead of reading a file")
	direction := flag.String("direction", "", "Translation direction: es-en or en-es")
	apiKey := flag.String("api-key", "", "OpenAI API key (defaults to OPENAI_API_KEY)")
	useLocal := flag.Bool("local", false, "Probe local transcription servers instead of the hosted API")
	gemmaModel := flag.String("gemma-model", "", "Path to the local GGUF translation model")
	gemmaCtx := flag.Int("gemma-ctx", 0, "Context window for the local translation model")
	useGemini := flag.Bool("gemini", false, "Use the hosted Gemini API for translation")
	ui := flag.Bool("ui", false, "Run the local web server instead of a one-shot translation")
	port := flag.Int("port", 0, "HTTP port for -ui mode")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	// Load .env before reading API keys from the environment
	_ = godotenv.Load()

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		if *configPath != "" {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = config.Default()
	}
	applyFlagOverrides(cfg, *useLocal, *gemmaModel, *gemmaCtx, *useGemini, *port, *verbose)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	key := *apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}

	asrClient := asr.NewClient(key, cfg.ASR.UseLocal, cfg.ASR.TimeoutSecs, log)
	if len(cfg.ASR.LocalEndpoints) > 0 {
		asrClient.SetLocalEndpoints(cfg.ASR.LocalEndpoints)
	}

	engine, err := buildEngine(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *ui {
		runServer(cfg, engine, log)
		return
	}

	if *wavPath == "" && *realtime <= 0 {
		fmt.Fprintln(os.Stderr, "Error: either -wav or -realtime is required (or -ui for server mode)")
		flag.Usage()
		os.Exit(1)
	}
	if *wavPath != "" && *realtime > 0 {
		fmt.Fprintln(os.Stderr, "Error: -wav and -realtime are mutually exclusive")
		os.Exit(1)
	}

	dir, err := translate.ParseDirection(*direction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runPipeline(cfg, asrClient, engine, *wavPath, *realtime, dir, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlagOverrides layers command line flags over the file configuration.
func applyFlagOverrides(cfg *config.Config, useLocal bool, gemmaModel string, gemmaCtx int, useGemini bool, port int, verbose bool) {
	if useLocal {
		cfg.ASR.UseLocal = true
	}
	if gemmaModel != "" {
		cfg.Gemma.ModelPath = gemmaModel
	}
	if gemmaCtx > 0 {
		cfg.Gemma.ContextSize = gemmaCtx
	}
	if useGemini {
		cfg.Gemini.Enabled = true
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

// buildEngine creates the translation engine with the configured runner.
func buildEngine(cfg *config.Config, log *logger.Logger) (*translate.Engine, error) {
	var runner translate.Runner
	if cfg.Gemini.Enabled {
		geminiKey := os.Getenv("GEMINI_API_KEY")
		geminiRunner, err := translate.NewGeminiRunner(context.Background(), geminiKey, cfg.Gemini.Model, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini runner: %w", err)
		}
		runner = geminiRunner
	} else {
		runner = translate.NewLlamaRunner(log)
	}
	return translate.NewEngine(cfg.Gemma.ModelPath, cfg.Gemma.ContextSize, runner, log), nil
}

// runPipeline performs one capture, transcribe and translate pass and prints
// the result to stdout.
func runPipeline(cfg *config.Config, asrClient *asr.Client, engine *translate.Engine, wavPath string, seconds int, dir translate.Direction, log *logger.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	wavData, err := captureAudio(wavPath, seconds, log)
	if err != nil {
		return err
	}

	transcription, err := asrClient.Transcribe(ctx, wavData)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}
	log.Info("Transcription complete",
		logger.String("text", transcription.Text),
		logger.String("endpoint", transcription.Endpoint))
	fmt.Printf("Heard: %s\n", transcription.Text)

	result, err := engine.Translate(ctx, translate.Request{
		Text:      transcription.Text,
		Direction: dir,
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	fmt.Printf("Translation (%s): %s\n", dir, result.Text)

	if cfg.Storage.Enabled {
		storage, err := sqlite.NewTranslationStorage(cfg.Storage.DatabasePath, log)
		if err != nil {
			log.Error("Failed to open history storage", logger.Error(err))
			return nil
		}
		defer storage.Close()
		if _, err := storage.StoreTranslation(&sqlite.TranslationRecord{
			Direction:  dir.String(),
			Original:   transcription.Text,
			Translated: result.Text,
			Source:     string(result.Source),
		}); err != nil {
			log.Error("Failed to store translation", logger.Error(err))
		}
	}

	return nil
}

// captureAudio returns WAV file bytes from either a file on disk or a fresh
// microphone recording.
func captureAudio(wavPath string, seconds int, log *logger.Logger) ([]byte, error) {
	if wavPath != "" {
		clip, err := audio.LoadWAV(wavPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load WAV file: %w", err)
		}
		if clip.Channels != audio.Channels {
			log.Warn("Expected mono audio, results may degrade",
				logger.Int("channels", clip.Channels))
		}
		log.Info("Loaded WAV file",
			logger.String("path", wavPath),
			logger.Duration("duration", clip.Duration()))
		return os.ReadFile(wavPath)
	}

	recorder, err := audio.NewRecorder(log)
	if err != nil {
		return nil, err
	}
	defer recorder.Close()

	fmt.Printf("Recording for %d seconds...\n", seconds)
	clip, err := recorder.Record(seconds)
	if err != nil {
		return nil, fmt.Errorf("recording failed: %w", err)
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("habla-%d.wav", os.Getpid()))
	if err := audio.WriteWAV(tmpPath, clip); err != nil {
		return nil, fmt.Errorf("failed to write recording: %w", err)
	}
	defer os.Remove(tmpPath)

	return os.ReadFile(tmpPath)
}

// runServer starts the web UI with stats, history and translation endpoints.
func runServer(cfg *config.Config, engine *translate.Engine, log *logger.Logger) {
	log.Info("Starting habla server",
		logger.String("version", Version),
		logger.Int("port", cfg.Server.Port))

	tracker, err := metrics.NewTracker(metrics.DefaultHistorySize, log)
	if err != nil {
		log.Error("Failed to create metrics tracker", logger.Error(err))
		os.Exit(1)
	}

	var storage *sqlite.TranslationStorage
	if cfg.Storage.Enabled {
		storage, err = sqlite.NewTranslationStorage(cfg.Storage.DatabasePath, log)
		if err != nil {
			log.Error("Failed to create SQLite storage", logger.Error(err))
			os.Exit(1)
		}
		defer storage.Close()
	}

	wsServer := websocket.NewServer(log)
	go wsServer.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broadcastStats(ctx, tracker, wsServer, log)

	handler := api.NewHandler(engine, tracker, storage, wsServer, log)
	router := api.NewRouter(handler, cfg.Server.StaticFilesDir, wsServer, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error on startup", logger.String("addr", server.Addr), logger.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", logger.Error(err))
	}

	log.Info("Server fully stopped")
}

// broadcastStats pushes resource usage to WebSocket clients on a fixed
// interval while any are connected.
func broadcastStats(ctx context.Context, tracker *metrics.Tracker, wsServer *websocket.Server, log *logger.Logger) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if wsServer.ClientCount() == 0 {
				continue
			}
			snapshot, err := tracker.Sample()
			if err != nil {
				log.Debug("Failed to sample process stats", logger.Error(err))
				continue
			}
			wsServer.Broadcast(&websocket.Message{
				Type: websocket.MessageTypeStats,
				Data: map[string]any{
					"cpu_percent":      snapshot.CPUPercent,
					"memory_mb":        snapshot.MemoryMB,
					"peak_cpu_percent": snapshot.PeakCPUPercent,
					"peak_memory_mb":   snapshot.PeakMemoryMB,
				},
			})
		}
	}
}
