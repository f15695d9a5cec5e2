package force

import (
	"math"

	"github.com/matzehuels/memgraph/pkg/errors"
)

// Default tuning constants. They reproduce the behaviour of the browser
// memory graph: 800x600 canvas, link distance 100/strength, charge -200,
// 30 unit collision discs.
const (
	DefaultWidth             = 800.0
	DefaultHeight            = 600.0
	DefaultLinkDistance      = 100.0
	DefaultChargeStrength    = -200.0
	DefaultChargeTheta       = 0.9
	DefaultChargeDistanceMin = 1.0
	DefaultCenterStrength    = 1.0
	DefaultCollideRadius     = 30.0
	DefaultCollideStrength   = 0.7
	DefaultCollideIterations = 4
	DefaultAlphaMin          = 0.001
	DefaultVelocityDecay     = 0.4
	DefaultDragAlphaTarget   = 0.3
	DefaultSeed              = 1

	// initialRadius and initialAngle place fresh nodes on a phyllotaxis
	// spiral so no two nodes start at the same point.
	initialRadius = 10.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Off sets a parameter to zero where a zero field would select its default,
// for example Config{CenterStrength: Off}. It applies to CenterStrength,
// CollideRadius, CollideStrength, CollideIterations, VelocityDecay and
// DragAlphaTarget. ChargeStrength has no off value since negative
// strengths repel; a zero ChargeStrength always means the default.
const Off = -1

// Config holds the tunable parameters of the simulation. In a Config that
// has not been through [Config.WithDefaults] a zero field means "use the
// default". Once materialised, fields keep their values, zeros included, so
// a config file decoded over [DefaultConfig] can set a force to 0 directly.
type Config struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`

	// LinkDistance is the base separation; an edge of strength s targets
	// LinkDistance/s.
	LinkDistance float64 `toml:"link_distance"`

	// ChargeStrength is the many-body strength. Negative values repel.
	ChargeStrength    float64 `toml:"charge_strength"`
	ChargeTheta       float64 `toml:"charge_theta"`
	ChargeDistanceMin float64 `toml:"charge_distance_min"`

	// CenterStrength is the fraction of the centroid offset removed per tick.
	CenterStrength float64 `toml:"center_strength"`

	// CollideRadius is the disc radius of every node; two centres are kept
	// at least 2*CollideRadius apart.
	CollideRadius     float64 `toml:"collide_radius"`
	CollideStrength   float64 `toml:"collide_strength"`
	CollideIterations int     `toml:"collide_iterations"`

	AlphaMin        float64 `toml:"alpha_min"`
	AlphaDecay      float64 `toml:"alpha_decay"`
	VelocityDecay   float64 `toml:"velocity_decay"`
	DragAlphaTarget float64 `toml:"drag_alpha_target"`

	Seed uint64 `toml:"seed"`

	materialised bool
}

// DefaultConfig returns the default simulation parameters.
func DefaultConfig() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy of c with every zero field replaced by its
// default value and every [Off] field set to zero. It is idempotent.
func (c Config) WithDefaults() Config {
	if !c.materialised {
		setDefault(&c.Width, DefaultWidth)
		setDefault(&c.Height, DefaultHeight)
		setDefault(&c.LinkDistance, DefaultLinkDistance)
		setDefault(&c.ChargeStrength, DefaultChargeStrength)
		setDefault(&c.ChargeTheta, DefaultChargeTheta)
		setDefault(&c.ChargeDistanceMin, DefaultChargeDistanceMin)
		setDefault(&c.CenterStrength, DefaultCenterStrength)
		setDefault(&c.CollideRadius, DefaultCollideRadius)
		setDefault(&c.CollideStrength, DefaultCollideStrength)
		setDefault(&c.AlphaMin, DefaultAlphaMin)
		setDefault(&c.VelocityDecay, DefaultVelocityDecay)
		setDefault(&c.DragAlphaTarget, DefaultDragAlphaTarget)
		if c.AlphaDecay == 0 {
			c.AlphaDecay = 1 - math.Pow(c.AlphaMin, 1.0/300)
		}
		if c.CollideIterations == 0 {
			c.CollideIterations = DefaultCollideIterations
		}
		if c.Seed == 0 {
			c.Seed = DefaultSeed
		}
		c.materialised = true
	}
	for _, v := range []*float64{&c.CenterStrength, &c.CollideRadius, &c.CollideStrength, &c.VelocityDecay, &c.DragAlphaTarget} {
		if *v == Off {
			*v = 0
		}
	}
	if c.CollideIterations == Off {
		c.CollideIterations = 0
	}
	return c
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate reports parameters that would make the simulation diverge.
func (c Config) Validate() error {
	checks := []struct {
		ok   bool
		name string
		v    any
	}{
		{c.Width > 0 && c.Height > 0, "canvas size", [2]float64{c.Width, c.Height}},
		{c.LinkDistance > 0, "link_distance", c.LinkDistance},
		{c.ChargeTheta > 0, "charge_theta", c.ChargeTheta},
		{c.ChargeDistanceMin > 0, "charge_distance_min", c.ChargeDistanceMin},
		{c.CenterStrength >= 0 && c.CenterStrength <= 1, "center_strength", c.CenterStrength},
		{c.CollideRadius >= 0, "collide_radius", c.CollideRadius},
		{c.CollideStrength >= 0 && c.CollideStrength <= 1, "collide_strength", c.CollideStrength},
		{c.CollideIterations >= 0, "collide_iterations", c.CollideIterations},
		{c.AlphaMin > 0 && c.AlphaMin < 1, "alpha_min", c.AlphaMin},
		{c.AlphaDecay > 0 && c.AlphaDecay < 1, "alpha_decay", c.AlphaDecay},
		{c.VelocityDecay >= 0 && c.VelocityDecay <= 1, "velocity_decay", c.VelocityDecay},
		{c.DragAlphaTarget >= 0 && c.DragAlphaTarget <= 1, "drag_alpha_target", c.DragAlphaTarget},
	}
	for _, chk := range checks {
		if !chk.ok {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid layout %s: %v", chk.name, chk.v)
		}
	}
	return nil
}

// Center returns the canvas centre the centering force pulls toward.
func (c Config) Center() (x, y float64) {
	return c.Width / 2, c.Height / 2
}

// TargetDistance returns the rest length of an edge with the given strength.
func (c Config) TargetDistance(strength float64) float64 {
	return c.LinkDistance / strength
}
