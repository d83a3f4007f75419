// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bestball/adp/internal/app"
	"github.com/bestball/adp/internal/config"
	"github.com/bestball/adp/internal/ui"
)

// errReported is returned by commands that have already printed their
// failure, so Execute only sets the exit status.
var errReported = errors.New("failure already reported")

// NewRootCmd builds the adp command tree. Running it without a
// subcommand performs a scrape.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "adp",
		Short: "Scrape Underdog ADP rankings into dated snapshots",
		Long: `adp loads the DraftSharks Underdog ADP page in a headless browser, waits
for the rankings table to render, and writes the players to a dated CSV file
(underdog_adp_YYYY-MM-DD.csv).

Running adp with no command performs a scrape with the default settings.`,
		Version:       "0.1.0",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runScrape,
	}

	// Initialize the application after flags are parsed (not for -h/help)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	config.RegisterFlags(rootCmd)
	config.RegisterScrapeFlags(rootCmd)
	registerSourceFlags(rootCmd)

	rootCmd.AddCommand(newScrapeCmd(), newSnapshotsCmd(), newMoversCmd())

	rootCmd.Flags().BoolP("help", "h", false, "Help for adp")
	rootCmd.Flags().Bool("version", false, "Version for adp")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(customHelpFunc)
	rootCmd.SetUsageFunc(customUsageFunc)
	return rootCmd
}

// Execute runs the command tree with ctx and exits non-zero on failure.
// This is called by main.main().
func Execute(ctx context.Context) {
	err := run(ctx, NewRootCmd())
	if err == nil {
		return
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("Error:"), err)
	}
	os.Exit(1)
}

// run executes root and releases the application whether or not the
// command failed. Cobra skips post-run hooks after an error.
func run(ctx context.Context, root *cobra.Command) error {
	defer func() {
		a := GetAppFromCmd(root)
		if a == nil {
			return
		}
		if err := a.Close(); err != nil {
			log.Warn().Err(err).Msg("Error during shutdown")
		}
		SetApp(root, nil)
	}()
	return root.ExecuteContext(ctx)
}

// customHelpFunc provides a colorized help output
func customHelpFunc(cmd *cobra.Command, args []string) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\n%s\n", ui.Bold(ui.Code(ui.ColorCyan)+strings.ToUpper(cmd.Name())))

	if cmd.Short != "" {
		fmt.Fprintln(w, cmd.Short)
	}
	if cmd.Long != "" && cmd.Long != cmd.Short {
		fmt.Fprintf(w, "\n%s\n", wrapText(cmd.Long, 80))
	}

	writeUsage(w, cmd)

	if cmd.HasExample() {
		section(w, "Examples")
		for _, line := range strings.Split(cmd.Example, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
			case strings.HasPrefix(trimmed, "#"):
				fmt.Fprintf(w, "  %s\n", dim(trimmed))
			default:
				fmt.Fprintf(w, "  %s$ %s%s\n", ui.Code(ui.ColorGreen), trimmed, ui.Code(ui.ColorReset))
			}
		}
	}

	writeCommands(w, cmd)

	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		printFlagsTo(w, cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		section(w, "Global Flags")
		printFlagsTo(w, cmd.InheritedFlags().FlagUsages())
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "\n%s\n", dim(fmt.Sprintf("Use \"%s <command> --help\" for more information about a command.", cmd.CommandPath())))
	}
	fmt.Fprintln(w)
}

// customUsageFunc prints a short usage block on flag errors
func customUsageFunc(cmd *cobra.Command) error {
	w := cmd.ErrOrStderr()
	writeUsage(w, cmd)
	writeCommands(w, cmd)
	if cmd.HasAvailableLocalFlags() {
		section(w, "Flags")
		printFlagsTo(w, cmd.LocalFlags().FlagUsages())
	}
	fmt.Fprintf(w, "\n%s\n", dim(fmt.Sprintf("Use \"%s --help\" for more information.", cmd.CommandPath())))
	return nil
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", ui.Bold(ui.Code(ui.ColorWhite)+title))
}

func dim(s string) string {
	return ui.Code(ui.ColorDim) + s + ui.Code(ui.ColorReset)
}

func writeUsage(w io.Writer, cmd *cobra.Command) {
	section(w, "Usage")
	if cmd.Runnable() {
		fmt.Fprintf(w, "  %s%s%s\n", ui.Code(ui.ColorCyan), cmd.UseLine(), ui.Code(ui.ColorReset))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(w, "  %s%s%s %s<command>%s %s\n",
			ui.Code(ui.ColorCyan), cmd.CommandPath(), ui.Code(ui.ColorReset),
			ui.Code(ui.ColorYellow), ui.Code(ui.ColorReset),
			dim("[flags]"))
	}
}

func writeCommands(w io.Writer, cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	section(w, "Commands")

	maxLen := 0
	var available []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() && c.Name() != "help" {
			available = append(available, c)
			if len(c.Name()) > maxLen {
				maxLen = len(c.Name())
			}
		}
	}
	for _, c := range available {
		padding := strings.Repeat(" ", maxLen-len(c.Name())+2)
		fmt.Fprintf(w, "  %s%s%s%s%s\n", ui.Code(ui.ColorCyan), c.Name(), ui.Code(ui.ColorReset), padding, dim(c.Short))
	}
}

// printFlagsTo prints flag usages with aligned, colorized columns
func printFlagsTo(w io.Writer, flagUsages string) {
	lines := strings.Split(flagUsages, "\n")

	maxFlagLen := 28
	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "-") {
			flagPart := strings.TrimSpace(strings.SplitN(trimmed, "  ", 2)[0])
			if len(flagPart) > maxFlagLen {
				maxFlagLen = len(flagPart)
			}
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		trimmed := strings.TrimLeft(line, " ")

		if !strings.HasPrefix(trimmed, "-") {
			// continuation of the previous description
			fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", maxFlagLen+4), dim(trimmed))
			continue
		}

		parts := strings.SplitN(trimmed, "  ", 2)
		flagPart := strings.TrimSpace(parts[0])
		if len(parts) < 2 {
			fmt.Fprintf(w, "  %s%s%s\n", ui.Code(ui.ColorGreen), flagPart, ui.Code(ui.ColorReset))
			continue
		}
		padding := strings.Repeat(" ", maxFlagLen-len(flagPart)+2)
		fmt.Fprintf(w, "  %s%s%s%s%s\n",
			ui.Code(ui.ColorGreen), flagPart, ui.Code(ui.ColorReset),
			padding, dim(strings.TrimSpace(parts[1])))
	}
}

// wrapText wraps text at the specified width while preserving paragraphs
func wrapText(text string, width int) string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		var lines []string
		var current strings.Builder
		for _, word := range strings.Fields(para) {
			if current.Len() > 0 && current.Len()+1+len(word) > width {
				lines = append(lines, current.String())
				current.Reset()
			}
			if current.Len() > 0 {
				current.WriteString(" ")
			}
			current.WriteString(word)
		}
		if current.Len() > 0 {
			lines = append(lines, current.String())
		}
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
