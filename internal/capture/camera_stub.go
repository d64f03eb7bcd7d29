//go:build !gocv

package capture

import (
	"context"
	"fmt"
)

// Run returns ErrCameraUnavailable; build with -tags gocv for camera support.
func Run(ctx context.Context, opts Options) error {
	return fmt.Errorf("%w: built without the gocv tag", ErrCameraUnavailable)
}
