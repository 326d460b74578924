package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/getstubd/stubd/pkg/config"
	"github.com/getstubd/stubd/pkg/stub"
)

var (
	initOutput string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	Long: `Create a starter config file with example endpoints demonstrating
response sequences, delays, and the body kinds.`,
	Example: `  # Create stubs.yaml in the current directory
  stubd init

  # Create a JSON config instead
  stubd init -o stubs.json

  # Overwrite an existing file
  stubd init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !initForce {
			if _, err := os.Stat(initOutput); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", initOutput)
			}
		}

		if err := config.SaveToFile(initOutput, starterCollection()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", initOutput)
		fmt.Fprintf(cmd.OutOrStdout(), "Start the server with: stubd serve --config %s\n", initOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "stubs.yaml", "Output filename")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing config file")
}

// starterCollection builds the example collection written by 'stubd init'.
func starterCollection() *config.Collection {
	slow := 0.5
	return &config.Collection{
		Version: "1.0",
		Name:    "starter stubs",
		Server: &config.Config{
			Port:        4380,
			LogRequests: true,
		},
		Endpoints: []*stub.Endpoint{
			{
				Name:   "flaky status",
				Method: "GET",
				Path:   "/status",
				Responses: []*stub.Response{
					{Status: 503, Headers: stub.Headers{{Name: "Retry-After", Value: "1"}}},
					{Status: 200, JSON: map[string]any{"status": "ok"}},
				},
			},
			{
				Name:   "greeting",
				Method: "GET",
				Path:   "/hello",
				Responses: []*stub.Response{
					{
						Status:  200,
						Headers: stub.Headers{{Name: "Content-Type", Value: "text/plain"}},
						Text:    "hello from stubd\n",
					},
				},
			},
			{
				Name:   "slow endpoint",
				Method: "GET",
				Path:   "/slow",
				Responses: []*stub.Response{
					{Status: 200, Delay: &slow, JSON: map[string]any{"waited": slow}},
				},
			},
			{
				Name:   "create user",
				Method: "POST",
				Path:   "/users",
				Responses: []*stub.Response{
					{Status: 201, JSON: map[string]any{"id": "u-1"}},
					{Status: 409, JSON: map[string]any{"error": "already exists"}},
				},
			},
		},
	}
}
