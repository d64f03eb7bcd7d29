package sobel

import (
	"image"

	"golang.org/x/image/draw"
)

// FromImage converts img to an intensity buffer using the standard luma
// weights of color.GrayModel. *image.Gray sources are copied row by row.
func FromImage(img image.Image) (*Buffer, error) {
	bounds := img.Bounds()
	buf, err := NewBuffer(bounds.Dy(), bounds.Dx())
	if err != nil {
		return nil, err
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		gray = image.NewGray(bounds)
		draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	}

	for y := 0; y < buf.Rows; y++ {
		off := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(buf.Row(y), gray.Pix[off:off+buf.Cols])
	}
	return buf, nil
}

// Gray wraps the buffer as an *image.Gray anchored at the origin. The image
// shares storage with the buffer.
func (b *Buffer) Gray() *image.Gray {
	return &image.Gray{
		Pix:    b.Pix,
		Stride: b.Cols,
		Rect:   image.Rect(0, 0, b.Cols, b.Rows),
	}
}
