package cli

import (
	"encoding/json"
	"fmt"

	"github.com/andywolf/forge/internal/version"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including commit hash and build date.`,
	RunE:  printVersion,
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "print verbose version information")
	versionCmd.Flags().String("format", FormatText, "output format (text, json, yaml)")
	rootCmd.AddCommand(versionCmd)
}

func printVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(version.Get())
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		if err := enc.Encode(version.Get()); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			fmt.Fprintln(out, version.Full())
		} else {
			fmt.Fprintln(out, version.Info())
		}
		return nil
	}
	return fmt.Errorf("unsupported output format: %s", format)
}
