// Package formula derives the ASTM D2216 moisture-content values from the raw
// masses entered by the operator.
//
// Every value is a *float64: nil means "absent". Absence propagates through each
// step; no step substitutes a default or returns an error.
package formula

import (
	"errors"
	"fmt"
	"math"
)

// Raw holds the operator-entered masses, in grams.
type Raw struct {
	// WetMass is the container plus wet specimen (h).
	WetMass *float64
	// OvenDryMass is the container plus oven-dried specimen. Recorded for audit,
	// no formula reads it.
	OvenDryMass *float64
	// ConstantDryMass is the container plus specimen dried to constant mass (sc).
	ConstantDryMass *float64
	// ContainerMass is the tare (r).
	ContainerMass *float64
}

// Derived holds the computed values. Each field is nil when an input it
// depends on is absent.
type Derived struct {
	WaterMass       *float64 `json:"masa_agua,omitempty"`
	DrySpecimenMass *float64 `json:"masa_muestra_seca,omitempty"`
	MoistureContent *float64 `json:"contenido_humedad,omitempty"`
	NetSpecimenMass *float64 `json:"masa_muestra_neta,omitempty"`
}

// ErrInvalidMass is returned by Validate for a negative or non-finite mass.
var ErrInvalidMass = errors.New("invalid mass")

// Round2 rounds x to two decimals, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// WaterMass returns round2(h - sc).
func WaterMass(h, sc *float64) *float64 {
	if h == nil || sc == nil {
		return nil
	}
	return Float(Round2(*h - *sc))
}

// DrySpecimenMass returns round2(sc - r).
func DrySpecimenMass(sc, r *float64) *float64 {
	if sc == nil || r == nil {
		return nil
	}
	return Float(Round2(*sc - *r))
}

// MoistureContent returns the water content as a percentage of the dry mass,
// rounded to two decimals. The inputs are expected to be the already rounded
// intermediates. A zero dry mass yields nil.
func MoistureContent(water, dry *float64) *float64 {
	if water == nil || dry == nil || *dry == 0 {
		return nil
	}
	return Float(math.Round(*water / *dry * 10000) / 100)
}

// NetSpecimenMass returns round2(h - r), the wet specimen without its container.
func NetSpecimenMass(h, r *float64) *float64 {
	if h == nil || r == nil {
		return nil
	}
	return Float(Round2(*h - *r))
}

// Compute runs the whole pipeline on one snapshot of raw masses.
func Compute(raw Raw) Derived {
	water := WaterMass(raw.WetMass, raw.ConstantDryMass)
	dry := DrySpecimenMass(raw.ConstantDryMass, raw.ContainerMass)
	return Derived{
		WaterMass:       water,
		DrySpecimenMass: dry,
		MoistureContent: MoistureContent(water, dry),
		NetSpecimenMass: NetSpecimenMass(raw.WetMass, raw.ContainerMass),
	}
}

// Validate reports the first present mass that is negative, NaN or infinite.
func Validate(raw Raw) error {
	fields := []struct {
		name string
		v    *float64
	}{
		{"masa_recipiente_muestra_humeda", raw.WetMass},
		{"masa_recipiente_muestra_seca", raw.OvenDryMass},
		{"masa_recipiente_muestra_seca_constante", raw.ConstantDryMass},
		{"masa_recipiente", raw.ContainerMass},
	}
	for _, f := range fields {
		if f.v == nil {
			continue
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v < 0 {
			return fmt.Errorf("%s: %w: %v", f.name, ErrInvalidMass, *f.v)
		}
	}
	return nil
}

// Float returns a pointer to v. Handy for building Raw values.
func Float(v float64) *float64 {
	return &v
}
