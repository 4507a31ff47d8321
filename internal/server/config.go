package server

import (
	"fmt"

	"github.com/drakos74/polyfit/internal/math"
	"github.com/drakos74/polyfit/internal/series"
)

// Config is the configuration of the fit service.
type Config struct {
	Port      int     `json:"port"`
	Debug     bool    `json:"debug"`
	Level     string  `json:"level"`
	Degree    int     `json:"degree"`
	Tolerance float64 `json:"tolerance"`
	Pivoting  string  `json:"pivoting"`
	Window    int     `json:"window"`
	Cache     int     `json:"cache"`
	Start     float64 `json:"start"`
	Step      float64 `json:"step"`
}

// DefaultConfig returns the configuration used for any value left unset.
func DefaultConfig() Config {
	return Config{
		Port:      6090,
		Level:     "info",
		Degree:    3,
		Tolerance: math.DefaultTolerance,
		Pivoting:  math.NoPivoting.String(),
		Window:    200,
		Cache:     128,
		Start:     series.Start,
		Step:      series.Step,
	}
}

// WithDefaults fills the unset values from the default config.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.Level == "" {
		c.Level = d.Level
	}
	if c.Tolerance == 0 {
		c.Tolerance = d.Tolerance
	}
	if c.Pivoting == "" {
		c.Pivoting = d.Pivoting
	}
	if c.Window == 0 {
		c.Window = d.Window
	}
	if c.Cache == 0 {
		c.Cache = d.Cache
	}
	if c.Start == 0 {
		c.Start = d.Start
	}
	if c.Step == 0 {
		c.Step = d.Step
	}
	return c
}

// Validate checks the config values.
func (c Config) Validate() error {
	if c.Degree < 0 {
		return fmt.Errorf("default degree %d: %w", c.Degree, math.InvalidDegreeErr)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("negative tolerance %v", c.Tolerance)
	}
	if _, err := math.ParsePivoting(c.Pivoting); err != nil {
		return err
	}
	if c.Window < 1 || c.Cache < 1 {
		return fmt.Errorf("window (%d) and cache (%d) must be positive", c.Window, c.Cache)
	}
	return nil
}

// Solver creates the solver described by the config.
func (c Config) Solver() *math.Solver {
	pivoting, _ := math.ParsePivoting(c.Pivoting)
	return math.NewSolver().
		WithTolerance(c.Tolerance).
		WithPivoting(pivoting)
}
