// Package units holds the one conversion table between the oilfield units
// found in input decks and the SI units used everywhere inside the simulator.
//
// Internally pressure is in Pa, permeability in m², viscosity in Pa·s and
// time in s. Conversions happen once, at the boundary.
package units

const (
	KgfPerCm2  = 98066.5        // Pa
	Bar        = 1e5            // Pa
	Psi        = 6894.757293168 // Pa
	MilliDarcy = 9.869233e-16   // m²
	Centipoise = 1e-3           // Pa·s
	Day        = 86400.0        // s
)

// System identifies the unit system of a case file.
type System string

const (
	SI       System = "si"
	Oilfield System = "oilfield"
)

// PressureFactor returns the multiplier taking a pressure in s to Pa.
func (s System) PressureFactor() float64 {
	if s == Oilfield {
		return KgfPerCm2
	}
	return 1
}

// ViscosityFactor returns the multiplier taking a viscosity in s to Pa·s.
func (s System) ViscosityFactor() float64 {
	if s == Oilfield {
		return Centipoise
	}
	return 1
}

// TimeFactor returns the multiplier taking a time in s to seconds.
func (s System) TimeFactor() float64 {
	if s == Oilfield {
		return Day
	}
	return 1
}

func (s System) Valid() bool { return s == SI || s == Oilfield }
