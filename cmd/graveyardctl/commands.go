package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/crazycube/graveyard-api/internal/bootstrap"
	"github.com/crazycube/graveyard-api/internal/config"
	"github.com/crazycube/graveyard-api/internal/domain"
	"github.com/crazycube/graveyard-api/internal/graveyard"
	"github.com/crazycube/graveyard-api/internal/logger"
)

// app holds the state shared by every command
type app struct {
	configFile string
	envPath    string
	out        io.Writer

	loadConfig func(configFile, envPath string) (*config.GraveyardConfig, error)
	newService func(ctx context.Context, cfg *config.GraveyardConfig) (graveyard.Service, func(), error)
}

func newApp(out io.Writer) *app {
	return &app{
		out:        out,
		loadConfig: config.LoadCLIConfig,
		newService: func(ctx context.Context, cfg *config.GraveyardConfig) (graveyard.Service, func(), error) {
			rt, err := bootstrap.Build(ctx, cfg, bootstrap.Options{})
			if err != nil {
				return nil, nil, err
			}
			return rt.Service, rt.Close, nil
		},
	}
}

// newRootCmd creates the root command
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "graveyardctl",
		Short:         "Operator tool for the CrazyCube graveyard",
		Long:          `Builds the same reports as the graveyard API directly against the RPC node and prints them as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.envPath, "env", "config/", "Path to environment files")

	rootCmd.AddCommand(newClaimableCmd(a))
	rootCmd.AddCommand(newLedgerCmd(a))
	rootCmd.AddCommand(newReadyCmd(a))
	rootCmd.AddCommand(newScanBurnsCmd(a))

	return rootCmd
}

func newClaimableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "claimable <address>",
		Short: "Classify the burned tokens of an owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, svc graveyard.Service) (interface{}, error) {
				return svc.Claimable(ctx, args[0], true)
			})
		},
	}
}

func newLedgerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger <address>",
		Short: "Classify the burned tokens of an owner found in BurnScheduled events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, svc graveyard.Service) (interface{}, error) {
				return svc.LedgerClaimable(ctx, args[0], true)
			})
		},
	}
}

func newReadyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "List graveyard tokens split by grave release state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context, svc graveyard.Service) (interface{}, error) {
				return svc.GraveyardReady(ctx, true)
			})
		},
	}
}

// scanBurnsOutput is the scan-burns JSON document
type scanBurnsOutput struct {
	Owner  string                      `json:"owner"`
	Scan   domain.ScanResult           `json:"scan"`
	Events []domain.BurnScheduledEvent `json:"events"`
}

func newScanBurnsCmd(a *app) *cobra.Command {
	var (
		owner     string
		fromBlock uint64
		toBlock   uint64
	)

	cmd := &cobra.Command{
		Use:   "scan-burns",
		Short: "Print the raw BurnScheduled events of an owner",
		Long: `Scan BurnScheduled events of an owner in a block range.

Examples:
  graveyardctl scan-burns --owner 0xabc... --from-block 1000000
  graveyardctl scan-burns --owner 0xabc... --from-block 1000000 --to-block 1200000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if toBlock != 0 && toBlock < fromBlock {
				return fmt.Errorf("--to-block %d is before --from-block %d", toBlock, fromBlock)
			}
			return a.run(cmd.Context(), func(ctx context.Context, svc graveyard.Service) (interface{}, error) {
				events, result, err := svc.ScanBurns(ctx, owner, fromBlock, toBlock)
				if err != nil {
					return nil, err
				}
				return scanBurnsOutput{Owner: owner, Scan: result, Events: events}, nil
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner address")
	cmd.Flags().Uint64Var(&fromBlock, "from-block", 0, "First block to scan")
	cmd.Flags().Uint64Var(&toBlock, "to-block", 0, "Last block to scan (0 means latest)")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

// run loads the configuration, builds the service, runs fn and prints its result
func (a *app) run(ctx context.Context, fn func(ctx context.Context, svc graveyard.Service) (interface{}, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := a.loadConfig(a.configFile, a.envPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "graveyardctl",
		},
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	svc, closeFn, err := a.newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := fn(ctx, svc)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
