package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/entryview/internal/render"
	"github.com/dgallion1/entryview/internal/toc"
)

var (
	title        string
	outputFile   string
	headingsMode string
	renderHTML   bool
	style        string
)

var rootCmd = &cobra.Command{
	Use:   "tocgen [file]",
	Short: "Insert a table of contents into a markdown document",
	Long: `tocgen replaces the first <!-- toc --> placeholder in a markdown document
with a nested table of contents built from its "##" to "######" headings.

Reads from stdin when no file (or "-") is given.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runTocgen,
}

func init() {
	rootCmd.Flags().StringVarP(&title, "title", "t", "", "container title (default: detected from content)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write result to file instead of stdout")
	rootCmd.Flags().StringVar(&headingsMode, "headings", "", "print the heading tree instead of the document: text or json")
	rootCmd.Flags().BoolVar(&renderHTML, "html", false, "render the result to sanitized HTML")
	rootCmd.Flags().StringVar(&style, "style", render.DefaultStyle, "syntax highlighting style for --html")
}

func runTocgen(cmd *cobra.Command, args []string) error {
	src, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	res := toc.Process(src, title)

	var out string
	switch {
	case headingsMode == "json":
		data, err := json.MarshalIndent(res.Headings, "", "  ")
		if err != nil {
			return fmt.Errorf("encode headings: %w", err)
		}
		out = string(data) + "\n"
	case headingsMode == "text":
		var b strings.Builder
		writeTree(&b, res.Headings, 0)
		out = b.String()
	case headingsMode != "":
		return fmt.Errorf("unknown --headings mode %q (want text or json)", headingsMode)
	case renderHTML:
		out, err = render.NewRenderer(style).Render(res.Markdown)
		if err != nil {
			return err
		}
	default:
		out = res.Markdown
	}

	if outputFile == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputFile, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d headings)\n", outputFile, toc.Count(res.Headings))
	return nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func writeTree(b *strings.Builder, headings []toc.Heading, depth int) {
	for _, h := range headings {
		fmt.Fprintf(b, "%s- %s (#%s)\n", strings.Repeat("  ", depth), h.Text, h.Slug)
		writeTree(b, h.Children, depth+1)
	}
}
