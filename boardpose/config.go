package boardpose

import "github.com/pkg/errors"

// Config carries the contract constants of the locator. Every value has a
// sensor- or board-dependent default; override to match the actual hardware.
type Config struct {
	Width          int     `json:"width"`             // valid sensor image width in pixels
	Height         int     `json:"height"`            // valid sensor image height in pixels
	SquareSize     float64 `json:"square_size_m"`     // board square side length
	DedupThreshold float64 `json:"dedup_threshold_m"` // L1 distance under which intersection points merge
	DeadZone       float64 `json:"dead_zone_m"`       // centroid margin excluded from every candidate set
	TargetFrame    string  `json:"target_frame"`      // frame name the board pose is broadcast under
}

// DefaultConfig returns the locator defaults: a 640x480 sensor and a
// tournament-size board.
func DefaultConfig() *Config {
	return &Config{
		Width:          640,
		Height:         480,
		SquareSize:     DefaultSquareSize,
		DedupThreshold: 0.03,
		DeadZone:       0.05,
		TargetFrame:    "chess_board",
	}
}

// Validate checks the config for usable values.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("image bounds must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SquareSize <= 0 {
		return errors.Errorf("square size must be positive, got %f", c.SquareSize)
	}
	if c.DedupThreshold < 0 {
		return errors.Errorf("dedup threshold cannot be negative, got %f", c.DedupThreshold)
	}
	if c.DeadZone < 0 {
		return errors.Errorf("dead zone cannot be negative, got %f", c.DeadZone)
	}
	if c.TargetFrame == "" {
		return errors.New("target frame cannot be empty")
	}
	return nil
}
