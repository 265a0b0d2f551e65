package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fpang/seo-content-helper/internal/cli"
)

var brandCmd = &cobra.Command{
	Use:   "brand [name]",
	Short: "Look up a brand description on the wiki",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := argOrPrompt(args, 0, "Brand name")
		if name == "" {
			return errors.New("brand name is required")
		}
		info, err := components.Brand.Brand(cmd.Context(), name)
		if err != nil {
			return err
		}
		if !jsonFlag {
			return cli.PrintText(os.Stdout, info.BrandInfo)
		}
		return cli.PrintJSON(os.Stdout, info)
	},
}

var categoryCmd = &cobra.Command{
	Use:   "category <url> <name>",
	Short: "Analyze a category page and write its description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := components.SEO.Category(cmd.Context(), args[0], strings.TrimSpace(args[1]))
		if err != nil {
			return err
		}
		if !jsonFlag {
			return cli.PrintText(os.Stdout, resp.Description)
		}
		return cli.PrintJSON(os.Stdout, resp)
	},
}

var productCmd = &cobra.Command{
	Use:   "product <url>",
	Short: "Analyze a product page and print the copywriter report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := components.SEO.Product(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !jsonFlag {
			return cli.PrintText(os.Stdout, resp.Report)
		}
		return cli.PrintJSON(os.Stdout, resp)
	},
}

// argOrPrompt returns args[i], or asks for it on the terminal.
func argOrPrompt(args []string, i int, label string) string {
	if i < len(args) {
		return strings.TrimSpace(args[i])
	}
	return cli.PromptFor(os.Stdin, os.Stderr, label, "")
}
