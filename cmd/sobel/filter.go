package main

import (
	"github.com/anime-shed/sobel-inspector-go/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type filterOptions struct {
	input  string
	output string
	format string
}

func newFilterCmd(root *rootOptions) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter an image file and write the edge image",
		Long: "Filter reads a local path, http(s) URL or azblob://container/blob location,\n" +
			"applies the Sobel operator to its intensity and writes the result.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(cmd, root)
			if err != nil {
				return err
			}
			svc := c.EdgeService()

			result, err := svc.DetectLocation(cmd.Context(), opts.input)
			if err != nil {
				return err
			}
			if err := svc.Store(cmd.Context(), result, opts.output, opts.format); err != nil {
				return err
			}

			logger.WithFields(logrus.Fields{
				"input":     opts.input,
				"output":    opts.output,
				"width":     result.Width,
				"height":    result.Height,
				"workers":   result.Workers,
				"filter_ms": float64(result.Duration.Microseconds()) / 1000.0,
				"edge_mean": result.Stats.Mean,
			}).Info("Sobel image saved")
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input image location")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output image location")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format (png, jpeg, bmp, tiff); defaults to the output extension")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
