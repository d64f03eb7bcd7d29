//go:build gocv

package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/anime-shed/sobel-inspector-go/internal/logger"
	"github.com/anime-shed/sobel-inspector-go/internal/sobel"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Run opens the camera and filters frames until q is pressed, ctx is done or
// opts.RunTime elapses.
func Run(ctx context.Context, opts Options) error {
	webcam, err := gocv.OpenVideoCapture(opts.Device)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	defer webcam.Close()
	if !webcam.IsOpened() {
		return fmt.Errorf("%w: device %d", ErrCameraUnavailable, opts.Device)
	}

	if opts.Width > 0 && opts.Height > 0 {
		webcam.Set(gocv.VideoCaptureFrameWidth, float64(opts.Width))
		webcam.Set(gocv.VideoCaptureFrameHeight, float64(opts.Height))
	}

	filtered := gocv.NewWindow(filteredWindowTitle)
	defer filtered.Close()
	var source *gocv.Window
	defer func() {
		if source != nil {
			source.Close()
		}
	}()

	frame := gocv.NewMat()
	defer frame.Close()
	gray := gocv.NewMat()
	defer gray.Close()

	proc := NewFrameProcessor(opts.Publisher)
	ctrl := NewController(func() error { return proc.Save(opts.SavePath) }, opts.SetThreads)

	logger.Component("capture").WithFields(logrus.Fields{
		"device":   opts.Device,
		"run_time": opts.RunTime,
		"threads":  sobel.GetThreads(),
	}).Info("Entering video loop, exit with 'q'")

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if ok := webcam.Read(&frame); !ok || frame.Empty() {
			return ErrNoFrame
		}

		if ctrl.ShowCamera {
			if source == nil {
				source = gocv.NewWindow(cameraWindowTitle)
			}
			source.IMShow(frame)
		} else if source != nil {
			source.Close()
			source = nil
		}

		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
		input := &sobel.Buffer{Rows: gray.Rows(), Cols: gray.Cols(), Pix: gray.ToBytes()}

		edges, err := proc.Process(ctx, input)
		if err != nil {
			return err
		}

		// The filtered window keeps keyboard focus, so it is paused rather than closed
		if ctrl.ShowFiltered {
			if mat, err := gocv.NewMatFromBytes(edges.Rows, edges.Cols, gocv.MatTypeCV8U, edges.Pix); err == nil {
				filtered.IMShow(mat)
				mat.Close()
			}
		}

		if ctrl.HandleKey(filtered.WaitKey(1)) {
			return nil
		}

		if runTimeElapsed(start, time.Now(), opts.RunTime) {
			logger.Component("capture").WithField("run_time", opts.RunTime).Info("Run time reached")
			return nil
		}
	}
}
