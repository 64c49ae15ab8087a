package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rovshanmuradov/solana-web3/internal/config"
	"github.com/rovshanmuradov/solana-web3/internal/logger"
	"github.com/rovshanmuradov/solana-web3/internal/metrics"
	"github.com/rovshanmuradov/solana-web3/internal/wallet"
	"github.com/rovshanmuradov/solana-web3/pkg/web3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// app is everything one command run needs: config, logging, metrics and a
// Connection over the configured RPC nodes.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Collector
	conn    *web3.Connection

	services []namedService
}

type namedService struct {
	name  string
	close func(ctx context.Context) error
}

func newApp(cmd *cobra.Command, c *cli) (*app, error) {
	cfg, err := config.LoadConfig(c.cfgFile)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, c, cfg); err != nil {
		return nil, err
	}

	logCfg := logger.DefaultConfig()
	logCfg.LogFile = cfg.LogFile
	logCfg.Debug = cfg.DebugLogging
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		metrics: metrics.NewCollector(),
	}
	a.register("logger", func(context.Context) error { return log.Sync() })

	web3.Init(web3.DefaultLibrary(log.Logger,
		web3.WithTimeout(cfg.RequestTimeout()),
		web3.WithMetrics(a.metrics)))

	a.conn, err = web3.NewConnectionWithCommitment(strings.Join(cfg.RPCList, ","), cfg.CommitmentType())
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.MetricsAddr != "" {
		a.serveMetrics(cfg.MetricsAddr)
	}

	log.Debug("Application initialized",
		zap.Strings("rpc", cfg.RPCList),
		zap.String("commitment", cfg.Commitment),
		zap.String("command", cmd.Name()))
	return a, nil
}

// applyFlags переопределяет значения конфига флагами командной строки
func applyFlags(cmd *cobra.Command, c *cli, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("rpc") {
		urls := web3.SplitEndpoints(c.rpcURL)
		if len(urls) == 0 {
			return errors.New("--rpc is empty")
		}
		cfg.RPCList = urls
	}
	if flags.Changed("commitment") {
		cfg.Commitment = c.commitment
	}
	if flags.Changed("wallet") {
		cfg.WalletPath = c.walletPath
	}
	if flags.Changed("wallet-name") {
		cfg.WalletName = c.walletName
	}
	if flags.Changed("log-file") {
		cfg.LogFile = c.logFile
	}
	if flags.Changed("debug") {
		cfg.DebugLogging = c.debug
	}
	return config.Validate(cfg)
}

func (a *app) register(name string, closeFn func(ctx context.Context) error) {
	a.services = append(a.services, namedService{name: name, close: closeFn})
}

// serveMetrics exposes the collector on /metrics for the lifetime of the run.
func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("Metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	a.register("metrics-server", server.Shutdown)
	a.log.Info("Metrics server started", zap.String("addr", addr))
}

// Close stops registered services in reverse order (LIFO).
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i := len(a.services) - 1; i >= 0; i-- {
		svc := a.services[i]
		if err := svc.close(ctx); err != nil {
			a.log.Debug("Failed to shutdown service",
				zap.String("service", svc.name),
				zap.Error(err))
		}
	}
	a.services = nil
}

// signer loads the configured wallet.
func (a *app) signer() (*wallet.Wallet, error) {
	if a.cfg.WalletPath == "" {
		return nil, errors.New("no wallet configured: set wallet_path or pass --wallet")
	}
	wallets, err := wallet.Load(a.cfg.WalletPath)
	if err != nil {
		return nil, err
	}
	return wallet.Select(wallets, a.cfg.WalletName)
}
