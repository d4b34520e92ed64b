package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dialforge/dialtone/internal/config"
	"github.com/dialforge/dialtone/sim"
)

var (
	simAddr string
	simSeed string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the local backend simulator",
	Long: `Starts a local twin of the telephony backend so the client can be
developed and tested without real telephony credentials. API docs are
served at /docs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if simAddr == "" {
			simAddr = cfg.SimAddr
		}
		if simSeed == "" {
			simSeed = cfg.SimSeedPath
		}

		s := sim.New()
		if simSeed != "" {
			if err := s.SeedFromFile(simSeed); err != nil {
				return fmt.Errorf("seeding simulator: %w", err)
			}
		}

		server := &http.Server{
			Addr:              simAddr,
			Handler:           s.Router(),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("simulator failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Simulator listening on %s\n", simAddr)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("simulator shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().StringVar(&simAddr, "addr", "", "Listen address (default from DIALTONE_SIM_ADDR)")
	simCmd.Flags().StringVar(&simSeed, "seed", "", "YAML seed file with local users and contacts")
}
