package linedetect

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/rdk/logging"
	"go.viam.com/test"
	"gocv.io/x/gocv"

	"github.com/viam-labs/chessboard-locator/boardpose"
)

func TestDetectGridLines(t *testing.T) {
	logger := logging.NewTestLogger(t)
	detector, err := NewDetector(nil, logger)
	test.That(t, err, test.ShouldBeNil)

	// draw a bright grid on a dark board image
	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()
	white := color.RGBA{R: 255, G: 255, B: 255}
	for i := 1; i <= 3; i++ {
		y := 120 * i
		x := 160 * i
		gocv.Line(&img, image.Pt(0, y), image.Pt(639, y), white, 3)
		gocv.Line(&img, image.Pt(x, 0), image.Pt(x, 479), white, 3)
	}

	segments, err := detector.Detect(img)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(segments), test.ShouldBeGreaterThan, 0)

	horizontal, vertical := boardpose.ClassifySegments(segments)
	test.That(t, len(horizontal), test.ShouldBeGreaterThan, 0)
	test.That(t, len(vertical), test.ShouldBeGreaterThan, 0)
}

func TestDetectEmptyImage(t *testing.T) {
	logger := logging.NewTestLogger(t)
	detector, err := NewDetector(nil, logger)
	test.That(t, err, test.ShouldBeNil)

	empty := gocv.NewMat()
	defer empty.Close()
	_, err = detector.Detect(empty)
	test.That(t, err, test.ShouldBeError, ErrImageConversion)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Validate(), test.ShouldBeNil)

	cfg.Rho = 0
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.Threshold = -1
	test.That(t, cfg.Validate(), test.ShouldNotBeNil)
}

func TestReadImageMissing(t *testing.T) {
	_, err := ReadImage("does-not-exist.png")
	test.That(t, err, test.ShouldNotBeNil)
}
