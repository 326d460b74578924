package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getstubd/stubd/pkg/config"
)

var validateVerbose bool

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a config file without starting the server",
	Long: `Validate an endpoint config file: syntax, required fields, response
sequences, and duplicate method+path declarations. Exits non-zero when the
file would be rejected at startup.`,
	Example: `  # Validate a config file
  stubd validate stubs.yaml

  # Show the declared endpoints as well
  stubd validate stubs.yaml --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collection, err := config.LoadFromFile(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: valid (%d endpoints)\n", args[0], len(collection.Endpoints))

		if validateVerbose {
			for _, ep := range collection.Endpoints {
				fmt.Fprintf(out, "  %-7s %-30s %d response(s)\n", ep.Method, ep.Path, len(ep.Responses))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show declared endpoints")
}
