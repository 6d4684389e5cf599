package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/ludo-technologies/jscan/internal/version"
	"github.com/ludo-technologies/jscan/service"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the jscan command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jscan",
		Short: "Structural near-duplicate finder for JavaScript and TypeScript",
		Long: `jscan groups JavaScript and TypeScript functions by structural similarity.

Every function is reduced to a tree of syntax node kinds, compared with the
pq-gram distance and clustered with average linkage. Functions that differ
only in names, literals, comments or formatting land in the same group.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log warnings and errors")

	rootCmd.AddCommand(NewClusterCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// reportError prints the error with recovery suggestions for its category
func reportError(w io.Writer, err error) {
	categorized := service.NewErrorCategorizer().Categorize(err)
	fmt.Fprintf(w, "Error: %v\n", err)
	if categorized == nil {
		return
	}
	fmt.Fprintf(w, "\n%s: %s\n", categorized.Category, categorized.Message)
	for _, suggestion := range service.NewErrorCategorizer().GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  - %s\n", suggestion)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
