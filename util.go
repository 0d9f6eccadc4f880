package main

import (
	"crypto/rand"
	"encoding/hex"
	"math"
)

// GenerateID returns a random hex string of the given byte length
func GenerateID(byteLen int) string {
	b := make([]byte, byteLen)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// PlanarDistance returns the distance between two points on the XZ plane
func PlanarDistance(x1, z1, x2, z2 float64) float64 {
	dx := x2 - x1
	dz := z2 - z1
	return math.Sqrt(dx*dx + dz*dz)
}

// DtScale converts a frame delta in seconds to a 60fps-relative step scale.
// The clamp bounds the effect of hitched or bursty tick delivery.
func DtScale(dtSeconds float64) float64 {
	return Clamp(dtSeconds*60, 0.25, 2.5)
}
