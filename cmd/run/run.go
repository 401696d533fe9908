// Package run implements the run command: one full bidding pass over
// a range of listing pages.
package run

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cmdcommon "github.com/netly-dev/gobid/cmd/common"
	"github.com/netly-dev/gobid/internal/domain"
)

// maxRangeTries bounds re-prompts for an invalid page range.
const maxRangeTries = 5

// ErrRangeTriesExhausted is returned when no valid page range got
// through within the prompt bound.
var ErrRangeTriesExhausted = errors.New("page range attempts exhausted")

// PageRange is an inclusive range of listing pages.
type PageRange struct {
	From int
	To   int
}

// Command returns the run command for use in the root command.
func Command() *cobra.Command {
	var (
		marketplaceName string
		pagesFlag       string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Log in, scrape listing pages, and bid on stored projects",
		Long: `This command performs one full bidding pass: it logs into the
marketplace, scrapes the requested listing pages into storage, then runs
every unresolved project through the bidding pipeline.

The page range comes from the --pages flag ("3" means pages 1 through 3,
"2,5" means pages 2 through 5). Without the flag, the range is prompted
for interactively.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}
			return runBidding(cmd.Context(), deps, domain.Marketplace(marketplaceName), pagesFlag)
		},
	}

	cmd.Flags().StringVar(&marketplaceName, "marketplace", domain.MarketplaceFreelancehunt.String(),
		"marketplace to bid on")
	cmd.Flags().StringVar(&pagesFlag, "pages", "",
		`listing pages to scrape: "N" for pages 1..N or "from,to"`)

	return cmd
}

func runBidding(
	ctx context.Context,
	deps cmdcommon.CommandDeps,
	name domain.Marketplace,
	pagesFlag string,
) error {
	pages, err := resolvePageRange(pagesFlag, os.Stdin, os.Stdout)
	if err != nil {
		return err
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
			// A broken page aborts only that page.
			deps.Logger.Error("Listing page failed", "page", page, "error", err)
			continue
		}
		created += n
	}
	deps.Logger.Info("Discovery finished",
		"pages", pages.To-pages.From+1,
		"created", created)

	summary, err := stack.Service.ProcessActiveProjects(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout,
		"Run finished: %d discovered, %d processed, %d bids placed, %d skipped, %d left active\n",
		created, summary.Processed, summary.Placed, summary.Skipped, summary.LeftActive)
	return nil
}

// resolvePageRange takes the range from the flag when given, otherwise
// prompts for it interactively.
func resolvePageRange(flag string, in io.Reader, out io.Writer) (PageRange, error) {
	if flag != "" {
		pages, err := ParsePageRange(flag)
		if err != nil {
			return PageRange{}, fmt.Errorf("--pages: %w", err)
		}
		return pages, nil
	}
	return PromptPageRange(in, out, maxRangeTries)
}

// ParsePageRange parses "N" as pages 1..N and "from,to" as the
// inclusive range from..to.
func ParsePageRange(input string) (PageRange, error) {
	input = strings.TrimSpace(input)

	if from, to, found := strings.Cut(input, ","); found {
		lo, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return PageRange{}, fmt.Errorf("invalid start page %q", from)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return PageRange{}, fmt.Errorf("invalid end page %q", to)
		}
		if lo < 1 || hi < lo {
			return PageRange{}, fmt.Errorf("invalid page range %d,%d", lo, hi)
		}
		return PageRange{From: lo, To: hi}, nil
	}

	n, err := strconv.Atoi(input)
	if err != nil {
		return PageRange{}, fmt.Errorf("invalid page count %q", input)
	}
	if n < 1 {
		return PageRange{}, fmt.Errorf("page count must be positive, got %d", n)
	}
	return PageRange{From: 1, To: n}, nil
}

// PromptPageRange asks for a page range on out and reads answers from
// in, re-prompting on invalid input up to maxTries times.
func PromptPageRange(in io.Reader, out io.Writer, maxTries int) (PageRange, error) {
	reader := bufio.NewReader(in)
	for attempt := 1; attempt <= maxTries; attempt++ {
		fmt.Fprint(out, `Pages to scrape ("N" for 1..N, or "from,to"): `)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return PageRange{}, fmt.Errorf("failed to read page range: %w", err)
		}
		pages, parseErr := ParsePageRange(line)
		if parseErr == nil {
			return pages, nil
		}
		fmt.Fprintf(out, "%v\n", parseErr)
	}
	return PageRange{}, ErrRangeTriesExhausted
}
