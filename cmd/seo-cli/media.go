package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/fpang/seo-content-helper/internal/cli"
)

var (
	sizeFlag      string
	styleFlag     string
	qualityFlag   string
	durationFlag  int
	videoTypeFlag string
)

var imageCmd = &cobra.Command{
	Use:   "image [prompt]",
	Short: "Generate an image and copy it to storage",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := argOrPrompt(args, 0, "Prompt")
		if prompt == "" {
			return errors.New("prompt is required")
		}
		res := components.Media.GenerateImage(cmd.Context(), prompt, map[string]any{
			"size":    sizeFlag,
			"style":   styleFlag,
			"quality": qualityFlag,
		})
		return cli.PrintJSON(os.Stdout, res)
	},
}

var videoCmd = &cobra.Command{
	Use:   "video [prompt]",
	Short: "Submit a video generation job",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := argOrPrompt(args, 0, "Prompt")
		if prompt == "" {
			return errors.New("prompt is required")
		}
		res := components.Media.GenerateVideo(cmd.Context(), prompt, map[string]any{
			"duration":   float64(durationFlag),
			"video_type": videoTypeFlag,
		})
		return cli.PrintJSON(os.Stdout, res)
	},
}

var videoStatusCmd = &cobra.Command{
	Use:   "video-status <task-id>",
	Short: "Poll a video job; finished videos are copied to storage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.PrintJSON(os.Stdout, components.Media.VideoStatus(cmd.Context(), args[0]))
	},
}

func init() {
	imageCmd.Flags().StringVar(&sizeFlag, "size", "1024x1024", "Image size (1024x1024, 1792x1024, 1024x1792)")
	imageCmd.Flags().StringVar(&styleFlag, "style", "vivid", "Image style (vivid or natural)")
	imageCmd.Flags().StringVar(&qualityFlag, "quality", "standard", "Image quality (standard or hd)")

	videoCmd.Flags().IntVarP(&durationFlag, "duration", "d", 5, "Video length in seconds (rounded to 5 or 10)")
	videoCmd.Flags().StringVar(&videoTypeFlag, "type", "video", "Video kind; \"reels\" renders portrait")
}
