package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anime-shed/sobel-inspector-go/internal/capture"

	"github.com/spf13/cobra"
)

func newCameraCmd(root *rootOptions) *cobra.Command {
	opts := capture.DefaultOptions()
	var runTime int

	cmd := &cobra.Command{
		Use:   "camera",
		Short: "Show the edge image of a live camera feed",
		Long: "Keys: s save sobel.png, c toggle the camera window, f toggle the filtered\n" +
			"window, 0-9 set the thread count, q quit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(cmd, root)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts.RunTime = time.Duration(runTime) * time.Second
			opts.Publisher = c.Publisher()
			svc := c.EdgeService()
			opts.SetThreads = svc.SetThreads
			return capture.Run(ctx, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Device, "device", opts.Device, "camera device index")
	cmd.Flags().IntVarP(&runTime, "run-time", "T", 0, "stop after this many seconds (0 runs until q)")
	cmd.Flags().StringVar(&opts.SavePath, "save-path", opts.SavePath, "file written by the s key")
	return cmd
}
