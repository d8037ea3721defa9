package cost

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultDimension is used when no dimension was configured.
const DefaultDimension = "usecs"

var ErrInvalidConfig = errors.New("invalid cost configuration")

// Config describes the cost dimensions measured for every call. It is fixed
// for the lifetime of a registry.
type Config struct {
	Names   []string `yaml:"dimensions" env:"CALLCOUNT_DIMENSIONS" env-separator:","`
	Display []int    `yaml:"display" env:"CALLCOUNT_DISPLAY" env-separator:","`
}

// NewConfig returns a validated configuration. When display is empty every
// dimension is displayed.
func NewConfig(names []string, display ...int) (Config, error) {
	c := Config{
		Names:   append([]string(nil), names...),
		Display: append([]int(nil), display...),
	}
	if err := c.normalize(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// MustConfig is NewConfig for static configurations known to be valid.
func MustConfig(names []string, display ...int) Config {
	c, err := NewConfig(names, display...)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultConfig has a single microsecond dimension.
func DefaultConfig() Config {
	return MustConfig([]string{DefaultDimension})
}

// LoadConfig reads the dimensions from a YAML file and lets environment
// variables override it. An empty path reads the environment only.
func LoadConfig(path string) (Config, error) {
	var c Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &c)
	} else {
		err = cleanenv.ReadEnv(&c)
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading cost configuration: %w", err)
	}
	if len(c.Names) == 0 {
		c.Names = []string{DefaultDimension}
	}
	if err := c.normalize(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) normalize() error {
	if len(c.Names) == 0 {
		return fmt.Errorf("%w: at least one dimension is required", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Names))
	for _, n := range c.Names {
		if n == "" {
			return fmt.Errorf("%w: empty dimension name", ErrInvalidConfig)
		}
		if _, ok := seen[n]; ok {
			return fmt.Errorf("%w: duplicate dimension %q", ErrInvalidConfig, n)
		}
		seen[n] = struct{}{}
	}
	if len(c.Display) == 0 {
		c.Display = make([]int, len(c.Names))
		for i := range c.Names {
			c.Display[i] = i
		}
		return nil
	}
	for _, i := range c.Display {
		if i < 0 || i >= len(c.Names) {
			return fmt.Errorf("%w: display index %d out of range [0, %d)", ErrInvalidConfig, i, len(c.Names))
		}
	}
	return nil
}

// Dimensions returns the number of cost dimensions.
func (c Config) Dimensions() int {
	return len(c.Names)
}

// Name returns the display name of dimension i.
func (c Config) Name(i int) string {
	return c.Names[i]
}

// DisplayIndices returns the dimensions shown by wide reports.
func (c Config) DisplayIndices() []int {
	return c.Display
}

// NewVector returns a zeroed vector sized for this configuration.
func (c Config) NewVector() Vector {
	return Vector{values: make([]int64, len(c.Names))}
}

// VectorOf builds a vector from values, which must have one entry per
// dimension.
func (c Config) VectorOf(values ...int64) (Vector, error) {
	if len(values) != len(c.Names) {
		return Vector{}, fmt.Errorf("got %d cost values, expected %d", len(values), len(c.Names))
	}
	v := c.NewVector()
	copy(v.values, values)
	return v, nil
}

// MustVector is VectorOf for values known to have the right length.
func (c Config) MustVector(values ...int64) Vector {
	v, err := c.VectorOf(values...)
	if err != nil {
		panic(err)
	}
	return v
}
