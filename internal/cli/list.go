package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mrlokans/bookshelf/internal/bookapi"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/viewstate"
)

// ListCommand prints the book list for one set of filters or one sort order.
type ListCommand struct {
	Filters entities.SearchFilters
	SortBy  entities.SortOption
	APIURL  string
	Timeout time.Duration

	Out io.Writer
}

func NewListCommand() *ListCommand {
	return &ListCommand{Out: os.Stdout}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)

	var sortBy string
	fs.StringVar(&cmd.Filters.Title, "title", "", "Only books whose title contains this text")
	fs.StringVar(&cmd.Filters.Author, "author", "", "Only books whose author contains this text")
	fs.StringVar(&cmd.Filters.Category, "category", "", "Only books in this category")
	fs.StringVar(&cmd.Filters.Status, "status", "", "Only books with this status (UNREAD, READING, COMPLETED)")
	fs.StringVar(&sortBy, "sort", string(entities.DefaultSortOption), "Sort order when no filter is given")
	fs.StringVar(&cmd.APIURL, "api", config.DefaultAPIBaseURL, "Base URL of the book API")
	fs.DurationVar(&cmd.Timeout, "timeout", 10*time.Second, "Request timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List books from the book API. Filters take precedence over -sort.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nSort orders:\n")
		for _, choice := range entities.SortOptions() {
			fmt.Fprintf(os.Stderr, "  %-16s %s\n", choice.Value, choice.Label)
		}
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s list -title dune\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s list -sort completed_asc\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	opt, err := entities.ParseSortOption(sortBy)
	if err != nil {
		fs.Usage()
		return err
	}
	cmd.SortBy = opt

	if cmd.Filters.Status != "" {
		if _, err := entities.ParseReadingStatus(cmd.Filters.Status); err != nil {
			fs.Usage()
			return err
		}
	}

	return nil
}

func (cmd *ListCommand) Run() error {
	ctx := context.Background()
	view := viewstate.NewController(bookapi.NewClient(cmd.APIURL, cmd.Timeout))

	if cmd.Filters.IsEmpty() {
		if err := view.SetSort(ctx, cmd.SortBy); err != nil {
			return err
		}
	} else if err := view.SetFilters(ctx, cmd.Filters); err != nil {
		return err
	}

	state := view.Snapshot()
	if state.Error != "" {
		return errors.New(state.Error)
	}

	cmd.print(state)
	return nil
}

func (cmd *ListCommand) print(state viewstate.State) {
	if state.Filters.IsEmpty() {
		fmt.Fprintf(cmd.Out, "Sorted by: %s\n", state.SortBy.Label())
	} else {
		fmt.Fprintf(cmd.Out, "Filtered by: %s\n", state.Filters.QueryValues().Encode())
	}

	if len(state.Books) == 0 {
		fmt.Fprintln(cmd.Out, "No books found.")
		return
	}

	for _, b := range state.Books {
		fmt.Fprintf(cmd.Out, "%4d  %-9s  %s by %s [%s]\n", b.ID, b.Status.Label(), b.Title, b.Author, b.Category)
		if b.CompletedAt != "" {
			fmt.Fprintf(cmd.Out, "      completed %s\n", b.CompletedAt)
		}
		if b.Memo != "" {
			fmt.Fprintf(cmd.Out, "      %s\n", b.Memo)
		}
	}
	fmt.Fprintf(cmd.Out, "\n%d book(s)\n", len(state.Books))
}
