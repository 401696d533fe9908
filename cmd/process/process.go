// Package process implements the process command: bid on the projects
// already stored, without any new discovery.
package process

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdcommon "github.com/netly-dev/gobid/cmd/common"
	"github.com/netly-dev/gobid/internal/domain"
)

// Command returns the process command for use in the root command.
func Command() *cobra.Command {
	var marketplaceName string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Bid on stored unresolved projects",
		Long: `This command logs into the marketplace and runs every stored
unresolved project through the bidding pipeline, one at a time in
insertion order. No new projects are discovered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			return runProcess(cmd.Context(), deps, domain.Marketplace(marketplaceName))
		},
	}

	cmd.Flags().StringVar(&marketplaceName, "marketplace", domain.MarketplaceFreelancehunt.String(),
		"marketplace to bid on")

	return cmd
}

func runProcess(ctx context.Context, deps cmdcommon.CommandDeps, name domain.Marketplace) error {
	store, err := cmdcommon.CreateStorage(ctx, deps)
	if err != nil {
		return err
	}
	defer store.DB.Close()

	stack, err := cmdcommon.NewBidStack(ctx, deps, name, store.Repository)
	if err != nil {
		return err
	}
	defer stack.Close()

	if err := stack.Authenticator.Login(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	summary, err := stack.Service.ProcessActiveProjects(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout,
		"Processing finished: %d processed, %d bids placed, %d skipped, %d left active\n",
		summary.Processed, summary.Placed, summary.Skipped, summary.LeftActive)
	return nil
}
