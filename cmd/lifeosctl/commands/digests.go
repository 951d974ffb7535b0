package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifeosapp/lifeos-api/internal/agent"
	"github.com/lifeosapp/lifeos-api/internal/client"
	"github.com/lifeosapp/lifeos-api/internal/config"
	"github.com/lifeosapp/lifeos-api/internal/queue"
)

// NewDigestsCmd creates the digests command group
func NewDigestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digests",
		Short: "Inspect and trigger retro digests",
	}

	cmd.AddCommand(newDigestsListCmd())
	cmd.AddCommand(newDigestsEnqueueCmd())

	return cmd
}

func newDigestsListCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored retro digests",
		RunE: func(cmd *cobra.Command, args []string) error {
			apiURL, _ := cmd.Flags().GetString("api-url")
			c := client.New(apiURL, nil)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			digests, err := c.ListDigests(ctx)
			if err != nil {
				return fmt.Errorf("failed to list digests: %w", err)
			}

			if len(digests) == 0 {
				fmt.Println("No digests")
				return nil
			}

			for _, d := range digests {
				fmt.Printf("%s  %s to %s\n",
					d.ID,
					d.PeriodStart.Format("2006-01-02"),
					d.PeriodEnd.Format("2006-01-02"),
				)
				if full {
					var resp agent.Response
					if err := json.Unmarshal(d.Response, &resp); err != nil {
						fmt.Printf("    (unreadable response: %v)\n", err)
						continue
					}
					for _, s := range resp.Insights {
						fmt.Printf("    - %s\n", s)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print digest insights, not just periods")

	return cmd
}

// newDigestsEnqueueCmd publishes a retro digest job directly onto the queue.
// The worker picks it up on its normal consume loop.
func newDigestsEnqueueCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Enqueue an ad-hoc retro digest job",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.RequireRabbitMQ(); err != nil {
				return err
			}

			jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			defer func() {
				if err := jobQueue.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close queue connection: %v\n", err)
				}
			}()

			now := time.Now().UTC()
			job := queue.NewRetroDigestJob(now.AddDate(0, 0, -days), now)

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := jobQueue.Enqueue(ctx, job); err != nil {
				return fmt.Errorf("failed to enqueue digest job: %w", err)
			}

			fmt.Printf("Enqueued digest job %s covering the last %d days\n", job.ID, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Lookback window in days")

	return cmd
}
