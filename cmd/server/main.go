package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"gridlife.ai/internal/persistence/historydb"
	persistlog "gridlife.ai/internal/persistence/log"
	"gridlife.ai/internal/policy"
	"gridlife.ai/internal/protocol"
	"gridlife.ai/internal/sim/episode"
	"gridlife.ai/internal/sim/tuning"
	"gridlife.ai/internal/transport/observer"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		seed       = flag.Int64("seed", 1337, "base seed (episode e uses seed+e-1)")
		episodes   = flag.Int("episodes", 50, "number of episodes to run")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to tuning.yaml")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableDB  = flag.Bool("disable_db", false, "disable the episode history database")
		disableLog = flag.Bool("disable_ticklog", false, "disable the per-tick jsonl log")
		policySeed = flag.Int64("policy_seed", 7331, "seed for the built-in heuristic provider")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", *tuningPath)
		tune = tuning.Defaults()
	}

	runID := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	runDir := filepath.Join(*dataDir, "runs", runID)
	_ = os.MkdirAll(runDir, 0o755)
	logger.Printf("run %s: %d episodes, seed %d", runID, *episodes, *seed)

	runner := episode.NewRunner(episode.Config{
		Tuning:   tune,
		Seed:     *seed,
		Episodes: *episodes,
		RunID:    runID,
	}, episode.FromIndices(policy.NewHeuristic(*policySeed), logger), logger)

	obsrv := observer.NewServer(protocol.WorldParams{
		GridWidth:    tune.GridWidth,
		GridHeight:   tune.GridHeight,
		NumAgents:    tune.NumAgents,
		NumFood:      tune.NumFood,
		NumObstacles: tune.NumObstacles,
		EpisodeTicks: tune.EpisodeTicks,
		Seed:         *seed,
	}, runID, logger)
	runner.SetEmitter(obsrv)

	if !*disableLog {
		tl := persistlog.NewTickLogger(runDir)
		defer tl.Close()
		runner.SetTickLogger(tl)
	}
	if !*disableDB {
		store, err := historydb.Open(filepath.Join(*dataDir, "history.db"))
		if err != nil {
			logger.Fatalf("open history db: %v", err)
		}
		defer store.Close()
		runner.SetHistory(store)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/observe", obsrv.Handler())
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Printf("run: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Printf("run %s finished", runID)
}
