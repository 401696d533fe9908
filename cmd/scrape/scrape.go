// Package scrape implements the scrape command: discover projects from
// listing pages without bidding on them.
package scrape

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cmdcommon "github.com/netly-dev/gobid/cmd/common"
	"github.com/netly-dev/gobid/cmd/run"
	"github.com/netly-dev/gobid/internal/domain"
)

// Command returns the scrape command for use in the root command.
func Command() *cobra.Command {
	var (
		marketplaceName string
		pagesFlag       string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape listing pages into storage without bidding",
		Long: `This command logs into the marketplace and scrapes the requested
listing pages into storage. Stored projects stay unresolved until a
later "process" or "run" pass bids on them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			return runScrape(cmd.Context(), deps, domain.Marketplace(marketplaceName), pagesFlag)
		},
	}

	cmd.Flags().StringVar(&marketplaceName, "marketplace", domain.MarketplaceFreelancehunt.String(),
		"marketplace to scrape")
	cmd.Flags().StringVar(&pagesFlag, "pages", "",
		`listing pages to scrape: "N" for pages 1..N or "from,to"`)

	return cmd
}

func runScrape(
	ctx context.Context,
	deps cmdcommon.CommandDeps,
	name domain.Marketplace,
	pagesFlag string,
) error {
	var (
		pages run.PageRange
		err   error
	)
	if pagesFlag != "" {
		pages, err = run.ParsePageRange(pagesFlag)
		if err != nil {
			return fmt.Errorf("--pages: %w", err)
		}
	} else {
		pages, err = run.PromptPageRange(os.Stdin, os.Stdout, 5)
		if err != nil {
			return err
		}
	}

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

	created := 0
	for page := pages.From; page <= pages.To; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := stack.Service.ScrapeAndSaveProjects(ctx, page)
		if err != nil {
			deps.Logger.Error("Listing page failed", "page", page, "error", err)
			continue
		}
		created += n
	}

	fmt.Fprintf(os.Stdout, "Scrape finished: %d new projects stored\n", created)
	return nil
}
