package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/subculture-collective/clipper-sub005/internal/cli/output"
	"github.com/subculture-collective/clipper-sub005/pkg/parser"
)

// NewCodesCommand creates the codes command.
func NewCodesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "codes [code]",
		Short: "List parse error codes",
		Long: `List the closed set of parse error codes with their meanings.

Every parse failure carries exactly one of these codes, so consumers can
switch on the code instead of matching message text.`,
		Example: `  # List all codes
  clipql codes

  # Show details for one code
  clipql codes QE003

  # Machine-readable listing
  clipql codes -f json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showCode(cmd, args[0])
			}
			return listCodes(cmd)
		},
	}
}

func listCodes(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	codes := parser.AllCodes()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(map[string]any{"codes": codes})
	case output.ModeMarkdown:
		return listCodesMarkdown(r, codes)
	default:
		return listCodesText(r, codes)
	}
}

func listCodesText(r *output.Renderer, codes []parser.CodeInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Title.Render(fmt.Sprintf("Parse Error Codes (%d)", len(codes))))
	r.Println("")

	for _, info := range codes {
		r.Printf("  %s  %s\n", styles.Code.Render(string(info.Code)), styles.Bold.Render(info.Name))
		r.Println(styles.Muted.Render("        " + info.Description))
	}

	r.Println("")
	r.Muted("Use 'clipql codes <code>' for details and a triggering example")
	r.Println("")
	return nil
}

func listCodesMarkdown(r *output.Renderer, codes []parser.CodeInfo) error {
	r.Println("# Parse Error Codes")
	r.Println("")
	for _, info := range codes {
		r.Printf("- **%s** %s - %s\n", info.Code, info.Name, info.Description)
	}
	r.Println("")
	return nil
}

func showCode(cmd *cobra.Command, raw string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	info, ok := parser.LookupCode(parser.Code(strings.ToUpper(raw)))
	if !ok {
		return fmt.Errorf("code %q not found", raw)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		return showCodeMarkdown(r, info)
	default:
		return showCodeText(r, info)
	}
}

func showCodeText(r *output.Renderer, info parser.CodeInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Title.Render(fmt.Sprintf("%s - %s", info.Code, info.Name)))
	r.Println("")
	r.Println("  " + info.Description)
	if info.Example != "" {
		r.Println("")
		r.Println(styles.Bold.Render("  Triggered by"))
		r.Println("    " + styles.Code.Render(info.Example))
	}
	r.Println("")
	return nil
}

func showCodeMarkdown(r *output.Renderer, info parser.CodeInfo) error {
	r.Printf("# %s - %s\n\n", info.Code, info.Name)
	r.Println(info.Description)
	if info.Example != "" {
		r.Println("")
		r.Println("Triggered by:")
		r.Println("")
		r.Println("```")
		r.Println(info.Example)
		r.Println("```")
	}
	r.Println("")
	return nil
}
