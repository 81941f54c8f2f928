package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andywolf/forge/internal/cli/wizard"
	"github.com/andywolf/forge/internal/contextmd"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate or refresh the project context file",
	Long: `Generate scans the project and writes CLAUDE.md (or the file named by
output.file) at the project root.

Only the section between the forge markers is regenerated. Anything you add
before or after it is kept as-is.

Example:
  forge generate
  forge generate --dry-run
  forge generate ./service --non-interactive`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindScanFlags,
	RunE:    runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addScanFlags(generateCmd)
	generateCmd.Flags().Bool("non-interactive", false, "Use detected values without prompting")
	generateCmd.Flags().Bool("force", false, "Regenerate without confirmation")
	generateCmd.Flags().Bool("dry-run", false, "Print the file instead of writing it")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if !nonInteractive && !isInteractive() {
		nonInteractive = true
	}

	out := cmd.OutOrStdout()

	p, err := scanProject(cfg, args, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	path := filepath.Join(p.Root, cfg.Output.File)

	// Check for existing custom content
	var hasCustomContent bool
	if existing, readErr := os.ReadFile(path); readErr == nil {
		parser := &contextmd.Parser{}
		if parsed, parseErr := parser.Parse(string(existing)); parseErr == nil {
			hasCustomContent = parsed.HasCustomContent()
		}
	}

	if hasCustomContent && !force && !nonInteractive && !dryRun {
		confirmed, err := wizard.ConfirmRegeneration(cfg.Output.File, hasCustomContent)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Generation cancelled.")
			return nil
		}
	}

	if !nonInteractive {
		p, err = wizard.ConfirmProjectInfo(p)
		if err != nil {
			return err
		}
	}

	gen, err := contextmd.NewGenerator()
	if err != nil {
		return err
	}

	if dryRun {
		content, err := gen.Render(path, p)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, content)
		return err
	}

	written, err := gen.WriteToProject(p.Root, cfg.Output.File, p)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Updated %s\n", written)
	if hasCustomContent {
		fmt.Fprintln(out, "Custom sections have been preserved.")
	}
	return nil
}
