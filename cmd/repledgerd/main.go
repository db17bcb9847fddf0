package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"repledger/config"
	"repledger/core"
	"repledger/core/types"
	"repledger/observability/logging"
	"repledger/rpc"
	"repledger/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	genesisFlag := flag.String("genesis", "", "Path to a genesis allocation file (overrides config GenesisFile)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := logging.Setup("repledgerd", cfg.Environment, cfg.LogFile)

	db, err := openDatabase(cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	admin, err := cfg.Admin()
	if err != nil {
		logger.Error("Invalid admin address", slog.Any("error", err))
		os.Exit(1)
	}

	node, err := core.NewNode(db, core.Params{
		MaxSupply:   cfg.MaxSupply,
		DecayRate:   cfg.DecayRate,
		DecayPeriod: cfg.DecayPeriod,
		MaxAuditors: cfg.MaxAuditors,
		RewardRate:  cfg.BaseRewardRate,
		Token: types.TokenMetadata{
			Name:     cfg.TokenName,
			Symbol:   cfg.TokenSymbol,
			Decimals: cfg.TokenDecimals,
			URI:      cfg.TokenURI,
		},
		Admin: admin,
	})
	if err != nil {
		logger.Error("Failed to initialise node", slog.Any("error", err))
		os.Exit(1)
	}

	genesisPath := strings.TrimSpace(*genesisFlag)
	if genesisPath == "" {
		genesisPath = strings.TrimSpace(cfg.GenesisFile)
	}
	// Genesis always runs: it establishes the token metadata and admin
	// identity even when no allocation file is configured, and is a no-op
	// against an already-initialised database.
	allocations, err := config.LoadGenesis(genesisPath)
	if err != nil {
		logger.Error("Failed to load genesis allocations", slog.Any("error", err))
		os.Exit(1)
	}
	if err := node.InitGenesis(allocations); err != nil {
		logger.Error("Failed to apply genesis allocations", slog.Any("error", err))
		os.Exit(1)
	}

	server := rpc.NewServer(node, logger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving ledger API", slog.String("listen", cfg.ListenAddress))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
	logger.Info("Node stopped")
}

func openDatabase(cfg *config.Config) (storage.Database, error) {
	switch cfg.Backend {
	case "leveldb":
		return storage.NewLevelDB(cfg.DataDir)
	case "bolt":
		return storage.NewBoltDB(cfg.DataDir + "/ledger.db")
	case "memory":
		return storage.NewMemDB(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
