package geometry

import (
	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
// Hits are only reported strictly inside the interval (tMin, tMax).
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float32) (*material.HitRecord, bool)
}

// inRange reports whether t lies in the open interval (tMin, tMax)
func inRange(t, tMin, tMax float32) bool {
	return t > tMin && t < tMax
}

// materialOrDefault substitutes the neutral material for a nil one
func materialOrDefault(m material.Material) material.Material {
	if m == nil {
		return material.Default()
	}
	return m
}
