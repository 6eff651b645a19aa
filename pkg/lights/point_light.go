package lights

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
)

// PointLight is an infinitesimal light with inverse-square-like falloff
type PointLight struct {
	Position  core.Vec3 // Location of the light
	Color     core.Vec3 // Emitted color
	Intensity float32   // Scalar brightness, never negative
}

// LightSample contains information about a light as seen from a shading point
type LightSample struct {
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float32   // Distance to light
	Emission  core.Vec3 // Color scaled by intensity and falloff
}

// NewPointLight creates a new point light. Negative intensity is clamped to zero.
func NewPointLight(position, color core.Vec3, intensity float32) PointLight {
	if intensity < 0 {
		intensity = 0
	}
	return PointLight{Position: position, Color: color, Intensity: intensity}
}

// Sample returns direction, distance and attenuated emission toward point
func (p PointLight) Sample(point core.Vec3) LightSample {
	toLight := p.Position.Subtract(point)
	distance := toLight.Length()
	return LightSample{
		Direction: toLight.Normalize(),
		Distance:  distance,
		Emission:  p.Color.Multiply(p.Falloff(distance)),
	}
}

// Falloff returns intensity/(distance²+1). The +1 keeps nearby points finite.
func (p PointLight) Falloff(distance float32) float32 {
	return max(p.Intensity, 0) / (distance*distance + 1)
}
