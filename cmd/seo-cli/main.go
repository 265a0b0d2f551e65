// Package main provides seo-cli, a local front end for the SEO content
// services. Each subcommand calls the same components the Lambdas use;
// "serve" runs all three endpoints behind one local HTTP router.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/seo-content-helper/internal/cli"
	"github.com/fpang/seo-content-helper/internal/config"
	"github.com/fpang/seo-content-helper/internal/logging"
)

var (
	jsonFlag bool

	components *cli.Components
)

// rootCmd is the main Cobra command for seo-cli.
var rootCmd = &cobra.Command{
	Use:   "seo-cli",
	Short: "SEO copy helper - brand lookup, page analysis and media generation",
	Long: `seo-cli runs the SEO content services from the command line.

Configuration comes from the environment, a .env file in the working
directory, or the YAML file named by SEO_CONFIG_FILE.

Examples:
  seo-cli brand Bosch
  seo-cli category https://shop.example/phones "Смартфоны"
  seo-cli product https://shop.example/drill --json
  seo-cli image "red armchair in a loft" --size 1024x1024
  seo-cli video "drone flight over a forest" --duration 10
  seo-cli video-status 8f1c...
  seo-cli serve --addr :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print the full JSON result")
	rootCmd.AddCommand(brandCmd, categoryCmd, productCmd, imageCmd, videoCmd, videoStatusCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the components once per run.
func setup(cmd *cobra.Command, _ []string) error {
	logging.Init()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))

	components, err = cli.Build(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	log.Debug().
		Bool("storage", components.Store.Enabled()).
		Bool("enrichment", components.Enricher.Enabled()).
		Str("command", cmd.Name()).
		Msg("Components ready")
	return nil
}
