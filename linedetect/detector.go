// Package linedetect extracts candidate grid lines from a color image of the
// calibration board. The blue channel is binarized and cleaned up with one
// erode/dilate round, edges come from a Canny detector, and a probabilistic
// Hough transform turns the edge map into line segments.
package linedetect

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"gocv.io/x/gocv"

	"github.com/viam-labs/chessboard-locator/boardpose"
)

// ErrImageConversion means the input image could not be decoded or converted.
// The frame must be skipped; stale image data is never reused.
var ErrImageConversion = errors.New("image conversion failed")

// Config holds the image processing and Hough transform parameters.
type Config struct {
	BlueThreshold float32 `json:"blue_threshold"`  // binarization cutoff on the blue channel
	CannyLow      float32 `json:"canny_low"`       // lower hysteresis threshold for edge detection
	CannyHigh     float32 `json:"canny_high"`      // upper hysteresis threshold for edge detection
	Rho           float32 `json:"rho"`             // hough distance resolution in pixels
	Theta         float32 `json:"theta"`           // hough angle resolution in radians
	Threshold     int     `json:"threshold"`       // hough accumulator threshold
	MinLineLength float32 `json:"min_line_length"` // shortest segment to keep, in pixels
	MaxLineGap    float32 `json:"max_line_gap"`    // largest gap to bridge within one segment
}

// DefaultConfig returns the detection defaults.
func DefaultConfig() *Config {
	return &Config{
		BlueThreshold: 100,
		CannyLow:      30,
		CannyHigh:     200,
		Rho:           1,
		Theta:         float32(math.Pi / 180),
		Threshold:     50,
		MinLineLength: 100,
		MaxLineGap:    10,
	}
}

// Validate checks the config for usable values.
func (c *Config) Validate() error {
	if c.Rho <= 0 {
		return errors.Errorf("rho must be positive, got %f", c.Rho)
	}
	if c.Theta <= 0 {
		return errors.Errorf("theta must be positive, got %f", c.Theta)
	}
	if c.Threshold <= 0 {
		return errors.Errorf("accumulator threshold must be positive, got %d", c.Threshold)
	}
	if c.MinLineLength < 0 || c.MaxLineGap < 0 {
		return errors.New("segment length and gap cannot be negative")
	}
	return nil
}

// Detector turns color images into line segments.
type Detector struct {
	cfg    *Config
	logger logging.Logger
}

// NewDetector returns a detector with the given config; nil means defaults.
func NewDetector(cfg *Config, logger logging.Logger) (*Detector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg, logger: logger}, nil
}

// ReadImage loads a color image from disk.
func ReadImage(path string) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return img, errors.Wrapf(ErrImageConversion, "reading %q", path)
	}
	return img, nil
}

// Detect runs the full pipeline on a BGR image and returns the extracted
// segments.
func (d *Detector) Detect(img gocv.Mat) ([]boardpose.Segment, error) {
	if img.Empty() {
		return nil, ErrImageConversion
	}

	// the board squares are blue; the blue channel alone makes a usable
	// grayscale
	channels := gocv.Split(img)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()
	if len(channels) < 3 {
		return nil, errors.Wrapf(ErrImageConversion, "expected 3 channels, got %d", len(channels))
	}
	blue := channels[0]

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(blue, &binary, d.cfg.BlueThreshold, 255, gocv.ThresholdBinary)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	gocv.Erode(binary, &binary, kernel)
	gocv.Dilate(binary, &binary, kernel)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(binary, &edges, d.cfg.CannyLow, d.cfg.CannyHigh)
	gocv.Dilate(edges, &edges, kernel)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines,
		d.cfg.Rho, d.cfg.Theta, d.cfg.Threshold, d.cfg.MinLineLength, d.cfg.MaxLineGap)

	segments := make([]boardpose.Segment, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		l := lines.GetVeciAt(i, 0)
		segments = append(segments, boardpose.Segment{
			P0: r2.Point{X: float64(l[0]), Y: float64(l[1])},
			P1: r2.Point{X: float64(l[2]), Y: float64(l[3])},
		})
	}
	d.logger.Debugf("found %d lines", len(segments))
	return segments, nil
}
