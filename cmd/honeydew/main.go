// Command honeydew extracts and links C# and Visual Basic repositories from
// the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	_ = godotenv.Load(".env") // ignore error if .env missing

	var verbose bool
	rootCmd := &cobra.Command{
		Use:   "honeydew",
		Short: "Link the semantic model of multi-project .NET repositories",
		Long: `Honeydew reads the solutions, projects and source files of a C# or
Visual Basic repository, resolves every type, call and field access across
project boundaries and writes the result as a node/edge document.`,
		SilenceUsage: true,
		Version:      version,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	extractCmd := &cobra.Command{
		Use:   "extract <dir>",
		Short: "Parse a source tree into a raw fact document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, newLogger(verbose))
		},
	}
	extractCmd.Flags().StringP("output", "o", "", "Write the document to a file instead of stdout")
	extractCmd.Flags().Int("parse-workers", 8, "Files parsed in parallel")

	linkCmd := &cobra.Command{
		Use:   "link <dir|document>",
		Short: "Link a source tree or a raw fact document",
		Long: `Link resolves a repository and writes its node/edge document.
The argument is either a directory to extract first, or a raw fact document
(.json, .yaml or .yml) produced by "honeydew extract" or another extractor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, args, newLogger(verbose))
		},
	}
	linkCmd.Flags().StringP("output", "o", "", "Write the document to a file instead of stdout")
	linkCmd.Flags().StringP("repository", "r", "", "Repository name (default: base name of the path)")
	linkCmd.Flags().Int("workers", 1, "Projects linked in parallel per pass")
	linkCmd.Flags().Int("parse-workers", 8, "Files parsed in parallel")
	linkCmd.Flags().Bool("summary", false, "Print link statistics to stderr")

	rootCmd.AddCommand(extractCmd, linkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
