package asciiart

import (
	"bufio"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

// Channel weights of the luminance formula.
const (
	RedWeight   = 0.30
	GreenWeight = 0.11
	BlueWeight  = 0.59
)

var (
	gradients = [...]float64{240, 210, 190, 170, 120, 110, 80, 60}
	chars     = [...]byte{' ', '.', '*', '+', '^', '&', '8', '#', '@'}
)

// Luminance returns the weighted brightness of an 8-bit RGB pixel.
func Luminance(r, g, b uint8) float64 {
	return float64(r)*RedWeight + float64(b)*BlueWeight + float64(g)*GreenWeight
}

// Char maps a luminance value to its character.
func Char(lum float64) byte {
	for i, g := range gradients {
		if lum >= g {
			return chars[i]
		}
	}
	return chars[len(chars)-1]
}

// Convert writes img to w, one line per pixel row.
func Convert(img image.Image, w io.Writer) error {
	bw := bufio.NewWriter(w)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			bw.WriteByte(Char(Luminance(uint8(r>>8), uint8(g>>8), uint8(b>>8))))
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write row %d: %w", y-bounds.Min.Y, err)
		}
	}
	return bw.Flush()
}

// ConvertFile decodes the image at in and writes its text rendering to out.
func ConvertFile(in, out string) (err error) {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	img, format, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("decode %s: %w", in, err)
	}

	dst, err := os.Create(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()

	if err := Convert(img, dst); err != nil {
		return errors.NewOperationError("asciiart", "convert", err).
			WithContext(fmt.Sprintf("%s image %s", format, in))
	}
	return nil
}

// Task returns a task converting in to out. It yields true on success.
func Task(in, out string) task.Task[bool] {
	return task.Func[bool](func(ctx context.Context) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if err := ConvertFile(in, out); err != nil {
			return false, err
		}
		return true, nil
	})
}
