package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stride-app/stride/pkg/api"
	"github.com/stride-app/stride/pkg/auth"
	"github.com/stride-app/stride/pkg/config"
	"github.com/stride-app/stride/pkg/events"
	"github.com/stride-app/stride/pkg/log"
	"github.com/stride-app/stride/pkg/manager"
	"github.com/stride-app/stride/pkg/storage"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Stride server",
	Long: `Run the Stride server: the REST API, the live event stream, and the
embedded database, all in one process.

Configuration comes from an optional YAML file with flags layered on
top. The auth secret can also be supplied via STRIDE_AUTH_SECRET.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		// Flags override file values only when set explicitly.
		if cmd.Flags().Changed("listen") {
			cfg.Listen, _ = cmd.Flags().GetString("listen")
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
		}
		if cmd.Flags().Changed("heartbeat") {
			cfg.HeartbeatInterval, _ = cmd.Flags().GetDuration("heartbeat")
		}
		if cmd.Flags().Changed("auth-secret") {
			cfg.AuthSecret, _ = cmd.Flags().GetString("auth-secret")
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("log-json") {
			cfg.Log.JSON, _ = cmd.Flags().GetBool("log-json")
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		log.Init(log.Config{
			Level:      log.Level(cfg.Log.Level),
			JSONOutput: cfg.Log.JSON,
		})
		logger := log.WithComponent("main")

		store, err := storage.NewBoltStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open storage: %v", err)
		}
		defer store.Close()
		fmt.Printf("✓ Storage ready (%s)\n", cfg.DataDir)

		registry := events.NewRegistry()
		dispatcher := events.NewDispatcher(registry)
		mgr := manager.NewManager(store, dispatcher)
		authn := auth.NewAuthenticator(cfg.AuthSecret, cfg.TokenTTL)

		server := api.NewServer(api.Config{
			Manager:           mgr,
			Registry:          registry,
			Authenticator:     authn,
			HeartbeatInterval: cfg.HeartbeatInterval,
		})

		errCh := make(chan error, 1)
		go func() {
			if err := server.Start(cfg.Listen); err != nil {
				errCh <- fmt.Errorf("server error: %v", err)
			}
		}()
		fmt.Printf("✓ Server listening on %s\n", cfg.Listen)
		fmt.Println()
		fmt.Println("Stride is running. Press Ctrl+C to stop.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			fmt.Println("\nShutting down...")
		case err := <-errCh:
			fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			logger.Warn().Err(err).Msg("Graceful shutdown incomplete")
		}

		fmt.Println("✓ Shutdown complete")
		return nil
	},
}

func init() {
	serverCmd.Flags().String("config", "", "Path to YAML config file")
	serverCmd.Flags().String("listen", ":8080", "Address for the HTTP API")
	serverCmd.Flags().String("data-dir", "./data", "Data directory for the embedded database")
	serverCmd.Flags().Duration("heartbeat", 30*time.Second, "Interval between event stream heartbeats")
	serverCmd.Flags().String("auth-secret", "", "Secret for signing user tokens")
	serverCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	serverCmd.Flags().Bool("log-json", false, "Emit JSON logs instead of console output")
}
