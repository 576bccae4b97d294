/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tubeshare/apiserver/config"
	"github.com/tubeshare/apiserver/internal/events"
	"github.com/tubeshare/apiserver/internal/logging"
	"github.com/tubeshare/apiserver/internal/mq"
	"github.com/tubeshare/apiserver/internal/storage"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consumes domain events and releases stored media",
	Long: `Subscribes to video.deleted events and deletes the thumbnails of
removed videos from object storage. Requires MQ_BACKEND and STORAGE_BACKEND.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		logger := logging.New(cfg.Log, cmd.OutOrStdout())
		ctx := cmd.Context()

		objects, err := storage.NewFromConfig(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		if objects == nil {
			return errors.New("worker requires STORAGE_BACKEND")
		}

		queue, err := mq.NewFromConfig(ctx, cfg.MQ)
		if err != nil {
			return fmt.Errorf("init mq: %w", err)
		}
		if queue == nil {
			return errors.New("worker requires MQ_BACKEND")
		}
		defer queue.Close()

		err = events.NewCleaner(queue, objects, logger).Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
