package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orderbridge/shipping/internal/server"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "shipping",
	Short:   "OrderBridge Shipping - carrier shipment purchase service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var shipCmd = &cobra.Command{
	Use:   "ship <order-id> <buyer-id>",
	Short: "Purchase a shipment for one order",
	Args:  cobra.ExactArgs(2),
	RunE:  runShip,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shipCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	service, err := initService(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting OrderBridge Shipping",
		zap.Int("port", cfg.Port),
		zap.String("carrier", cfg.Carrier),
		zap.String("version", cfg.Version),
	)

	srv := server.New(cfg.Port, service, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runShip(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	orderID, buyerID := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	service, err := initService(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ShipTimeout+30*time.Second)
	defer cancel()

	tracking, err := service.Ship(ctx, orderID, buyerID)
	if err != nil {
		return fmt.Errorf("shipping order %s: %w", orderID, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "order %s shipped, tracking %s\n", orderID, tracking)
	return nil
}
