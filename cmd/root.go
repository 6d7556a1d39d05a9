// root.go defines the root command and CLI execution entry point,
// following the teacher's cmd/root.go shape (a package-level *cobra.Command
// plus an exported Execute()) reduced to a single command, since grep has
// no subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evanj-au/grepr/internal/colour"
	"github.com/evanj-au/grepr/internal/engine"
	"github.com/evanj-au/grepr/internal/mcpsearch"
	"github.com/evanj-au/grepr/internal/version"
)

// exitCode is set by runGrep to classic grep's 0/1/2 exit status and read
// by Execute after rootCmd.Execute returns, keeping RunE itself free of
// os.Exit so it stays directly testable.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "grepr PATTERN [FILE...]",
	Short: "Search files for lines matching a pattern",
	Long: `grepr searches named input files (or standard input) for lines
matching a pattern and prints the matching lines.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGrep,
}

func init() {
	bindFlags(rootCmd)
}

func runGrep(cmd *cobra.Command, args []string) error {
	if ok, _ := cmd.Flags().GetBool("guide"); ok {
		return runGuide(cmd)
	}
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get())
		return nil
	}

	cfg, err := resolvedDefaults(cmd)
	if err != nil {
		return err
	}

	if len(patternArgs) == 0 && len(patternFiles) == 0 {
		if len(args) == 0 {
			return fmt.Errorf("no pattern given")
		}
		positional = args[0]
		args = args[1:]
	}

	expressions, err := collectExpressions()
	if err != nil {
		return err
	}

	dialect := resolvedDialect()
	binaryPolicy, err := resolvedBinaryPolicy()
	if err != nil {
		return err
	}
	dirPolicy, err := resolvedDirectoryPolicy()
	if err != nil {
		return err
	}
	colourMode, err := resolvedColourMode()
	if err != nil {
		return err
	}
	delim, err := delimiterByte()
	if err != nil {
		return err
	}

	include, err := parseGlobFlag(includePatterns)
	if err != nil {
		return err
	}
	exclude, err := parseGlobFlag(excludePatterns)
	if err != nil {
		return err
	}
	excludeDir, err := parseGlobFlag(excludeDirGlobs)
	if err != nil {
		return err
	}

	before, after := beforeContext, afterContext
	if contextBoth > 0 {
		before, after = contextBoth, contextBoth
	}

	fileNameMode := engine.FileNameAuto
	if withFilename {
		fileNameMode = engine.FileNameAlways
	}
	if noFilename {
		fileNameMode = engine.FileNameNever
	}

	c := engine.DefaultConfig()
	c.Dialect = dialect
	c.IgnoreCase = ignoreCase
	c.WordRegexp = wordRegexp
	c.LineRegexp = lineRegexp
	c.InvertMatch = invertMatch
	c.Expressions = expressions
	c.MaxCount = maxCount
	c.FileNameMode = fileNameMode
	c.StripCR = !dosBinary
	c.LineNumberOutput = lineNumber
	c.ByteOffsetOutput = byteOffset
	c.OnlyMatching = onlyMatching
	c.LineBuffered = lineBuffered
	c.Quiet = quiet
	c.InitialTab = initialTab
	c.NullAfterHeader = nullAfterHeader
	c.BeforeContext = before
	c.AfterContext = after
	c.BinaryPolicy = binaryPolicy
	c.DirectoryPolicy = dirPolicy
	c.Include = include
	c.Exclude = exclude
	c.ExcludeDir = excludeDir
	c.Delimiter = delim
	if label != "" {
		c.Label = label
	}
	c.ColourMode = colourMode
	c.Palette = applyPalette(colour.ParseEnv(os.Getenv("GREP_COLORS")), cfg.Defaults.Palette)
	c.Paths = args
	c.OutputMode = outputModeFromFlags(cmd)
	c.NoMessages = noMessages

	res, err := engine.Execute(context.Background(), c, os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}

	if !c.NoMessages {
		for _, n := range res.Notes {
			fmt.Fprintf(cmd.ErrOrStderr(), "grepr: %s: %s\n", n.Path, n.Message)
		}
	}

	exitCode = res.ExitCode
	return nil
}

func runGuide(cmd *cobra.Command) error {
	return showGuide(cmd.OutOrStdout())
}

// Execute runs the root command and handles process lifecycle, following
// the teacher's Execute()'s shape of a thin wrapper that exits non-zero on
// error.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "grepr: %v\n", err)
		os.Exit(2)
	}
	os.Exit(exitCode)
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}

// ServeMCP starts the MCP tool server (invoked by main when run as
// `grepr --mcp`, the way the teacher dispatches to its internal/mcp.Serve
// from a dedicated flag rather than a subcommand).
func ServeMCP() error {
	return mcpsearch.Serve()
}
