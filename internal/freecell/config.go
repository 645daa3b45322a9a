package freecell

import (
	"encoding/json"
	"fmt"
)

// Pile count bounds.
const (
	MinCascades     = 4
	MaxCascades     = 8
	MinOpens        = 1
	MaxOpens        = 4
	FoundationCount = 4
)

// Variant selects how many cards a single move may carry.
type Variant string

const (
	// VariantSingle moves exactly one card at a time.
	VariantSingle Variant = "single"
	// VariantMulti also moves builds between cascade piles.
	VariantMulti Variant = "multi"
)

// Config is the immutable shape of a game.
type Config struct {
	Cascades int     `json:"cascades"`
	Opens    int     `json:"opens"`
	Variant  Variant `json:"variant"`
}

// DefaultConfig is 4 cascades, 1 open pile, single-card moves.
func DefaultConfig() Config {
	return Config{Cascades: MinCascades, Opens: MinOpens, Variant: VariantSingle}
}

// Validate reports whether every field is in range.
func (c Config) Validate() error {
	if c.Cascades < MinCascades || c.Cascades > MaxCascades {
		return fmt.Errorf("%w: cascade piles must be between %d and %d, got %d",
			ErrInvalidConfig, MinCascades, MaxCascades, c.Cascades)
	}
	if c.Opens < MinOpens || c.Opens > MaxOpens {
		return fmt.Errorf("%w: open piles must be between %d and %d, got %d",
			ErrInvalidConfig, MinOpens, MaxOpens, c.Opens)
	}
	switch c.Variant {
	case VariantSingle, VariantMulti:
	default:
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, c.Variant)
	}
	return nil
}

// UnmarshalJSON fills omitted fields from DefaultConfig.
func (c *Config) UnmarshalJSON(b []byte) error {
	type plain Config
	p := plain(DefaultConfig())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

// Builder assembles a Config. The first invalid setter call is remembered and
// reported by Build.
type Builder struct {
	cfg Config
	err error
}

// NewBuilder starts from DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// Cascades sets the number of cascade piles.
func (b *Builder) Cascades(n int) *Builder {
	if b.err == nil && (n < MinCascades || n > MaxCascades) {
		b.err = fmt.Errorf("%w: cascade piles must be between %d and %d, got %d",
			ErrInvalidConfig, MinCascades, MaxCascades, n)
	}
	b.cfg.Cascades = n
	return b
}

// Opens sets the number of open piles.
func (b *Builder) Opens(n int) *Builder {
	if b.err == nil && (n < MinOpens || n > MaxOpens) {
		b.err = fmt.Errorf("%w: open piles must be between %d and %d, got %d",
			ErrInvalidConfig, MinOpens, MaxOpens, n)
	}
	b.cfg.Opens = n
	return b
}

// Variant sets the move variant.
func (b *Builder) Variant(v Variant) *Builder {
	b.cfg.Variant = v
	return b
}

// Build returns the validated configuration.
func (b *Builder) Build() (Config, error) {
	if b.err != nil {
		return Config{}, b.err
	}
	if err := b.cfg.Validate(); err != nil {
		return Config{}, err
	}
	return b.cfg, nil
}
