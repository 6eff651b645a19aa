package core

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float32
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float32 in [0, 1)
func (r *RandomSampler) Get1D() float32 {
	return r.random.Float32()
}

// Get2D returns two random float32 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float32(), r.random.Float32())
}

// SampleOnUnitSphere maps a 2D sample to a uniform direction on the unit sphere
func SampleOnUnitSphere(sample Vec2) Vec3 {
	z := 1 - 2*sample.X // z ∈ [-1, 1]
	r := math32.Sqrt(max(0, 1-z*z))
	phi := 2 * math32.Pi * sample.Y
	return NewVec3(r*math32.Cos(phi), r*math32.Sin(phi), z)
}

// RandomUnitVector draws a uniformly distributed unit vector from the sampler
func RandomUnitVector(sampler Sampler) Vec3 {
	return SampleOnUnitSphere(sampler.Get2D())
}
