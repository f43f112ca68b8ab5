package units

import (
	"math"

	"github.com/arloliu/qty/dimension"
)

// Definition describes one named unit symbol.
//
// Scale converts one unit into the SI base of its dimension. Offset is non-zero
// only for affine temperature scales; base = (v - Offset) * Scale.
type Definition struct {
	Symbol     string
	Aliases    []string
	Dimension  dimension.Dimension
	Scale      float64
	Offset     float64
	Prefixable bool
}

// IsAffine reports whether the unit needs an offset to reach its base.
func (d Definition) IsAffine() bool {
	return d.Offset != 0
}

// Prefix is an SI prefix such as "k" or "µ".
type Prefix struct {
	Symbol  string
	Aliases []string
	Value   float64
}

var siPrefixes = []Prefix{
	{Symbol: "Y", Value: math.Pow10(24)},
	{Symbol: "Z", Value: math.Pow10(21)},
	{Symbol: "E", Value: math.Pow10(18)},
	{Symbol: "P", Value: math.Pow10(15)},
	{Symbol: "T", Value: math.Pow10(12)},
	{Symbol: "G", Value: math.Pow10(9)},
	{Symbol: "M", Value: math.Pow10(6)},
	{Symbol: "k", Value: math.Pow10(3)},
	{Symbol: "h", Value: math.Pow10(2)},
	{Symbol: "da", Value: math.Pow10(1)},
	{Symbol: "d", Value: math.Pow10(-1)},
	{Symbol: "c", Value: math.Pow10(-2)},
	{Symbol: "m", Value: math.Pow10(-3)},
	{Symbol: "u", Aliases: []string{"µ", "μ"}, Value: math.Pow10(-6)},
	{Symbol: "n", Value: math.Pow10(-9)},
	{Symbol: "p", Value: math.Pow10(-12)},
	{Symbol: "f", Value: math.Pow10(-15)},
	{Symbol: "a", Value: math.Pow10(-18)},
	{Symbol: "z", Value: math.Pow10(-21)},
	{Symbol: "y", Value: math.Pow10(-24)},
}

func dim(exps ...float64) dimension.Dimension {
	var d dimension.Dimension
	copy(d[:], exps)

	return d
}

var (
	dLength      = dimension.Of(dimension.Length)
	dMass        = dimension.Of(dimension.Mass)
	dTime        = dimension.Of(dimension.Time)
	dTemperature = dimension.Of(dimension.Temperature)
	dCurrent     = dimension.Of(dimension.Current)
	dAmount      = dimension.Of(dimension.Amount)
	dLuminosity  = dimension.Of(dimension.Luminosity)
	dAngle       = dimension.Of(dimension.Angle)

	//              L   M   T   Θ  I
	dFrequency   = dim(0, 0, -1)
	dForce       = dim(1, 1, -2)
	dEnergy      = dim(2, 1, -2)
	dPower       = dim(2, 1, -3)
	dPressure    = dim(-1, 1, -2)
	dCharge      = dim(0, 0, 1, 0, 1)
	dVoltage     = dim(2, 1, -3, 0, -1)
	dResistance  = dim(2, 1, -3, 0, -2)
	dCapacitance = dim(-2, -1, 4, 0, 2)
	dVolume      = dim(3)
)

var builtinDefinitions = []Definition{
	// SI base units; mass is based on the kilogram so "g" carries 1e-3.
	{Symbol: "m", Aliases: []string{"meter", "meters", "metre", "metres"}, Dimension: dLength, Scale: 1, Prefixable: true},
	{Symbol: "g", Aliases: []string{"gram", "grams"}, Dimension: dMass, Scale: 1e-3, Prefixable: true},
	{Symbol: "s", Aliases: []string{"sec", "second", "seconds"}, Dimension: dTime, Scale: 1, Prefixable: true},
	{Symbol: "K", Aliases: []string{"kelvin"}, Dimension: dTemperature, Scale: 1, Prefixable: true},
	{Symbol: "A", Aliases: []string{"ampere", "amp", "amps"}, Dimension: dCurrent, Scale: 1, Prefixable: true},
	{Symbol: "mol", Aliases: []string{"mole", "moles"}, Dimension: dAmount, Scale: 1, Prefixable: true},
	{Symbol: "cd", Aliases: []string{"candela"}, Dimension: dLuminosity, Scale: 1, Prefixable: true},
	{Symbol: "rad", Aliases: []string{"radian", "radians"}, Dimension: dAngle, Scale: 1, Prefixable: true},

	// time
	{Symbol: "min", Aliases: []string{"minute", "minutes"}, Dimension: dTime, Scale: 60},
	{Symbol: "hr", Aliases: []string{"h", "hour", "hours"}, Dimension: dTime, Scale: 3600},
	{Symbol: "d", Aliases: []string{"day", "days"}, Dimension: dTime, Scale: 86400},
	{Symbol: "wk", Aliases: []string{"week", "weeks"}, Dimension: dTime, Scale: 604800},
	{Symbol: "yr", Aliases: []string{"year", "years"}, Dimension: dTime, Scale: 31557600},

	// temperature scales
	{Symbol: "degC", Aliases: []string{"°C", "celsius", "Celsius"}, Dimension: dTemperature, Scale: 1, Offset: -273.15},
	{Symbol: "degF", Aliases: []string{"°F", "fahrenheit", "Fahrenheit"}, Dimension: dTemperature, Scale: 5.0 / 9.0, Offset: -459.67},
	{Symbol: "degR", Aliases: []string{"°R", "rankine"}, Dimension: dTemperature, Scale: 5.0 / 9.0},

	// angle
	{Symbol: "deg", Aliases: []string{"°", "degree", "degrees"}, Dimension: dAngle, Scale: math.Pi / 180},

	// derived SI
	{Symbol: "Hz", Aliases: []string{"hertz"}, Dimension: dFrequency, Scale: 1, Prefixable: true},
	{Symbol: "N", Aliases: []string{"newton", "newtons"}, Dimension: dForce, Scale: 1, Prefixable: true},
	{Symbol: "J", Aliases: []string{"joule", "joules"}, Dimension: dEnergy, Scale: 1, Prefixable: true},
	{Symbol: "W", Aliases: []string{"watt", "watts"}, Dimension: dPower, Scale: 1, Prefixable: true},
	{Symbol: "Pa", Aliases: []string{"pascal"}, Dimension: dPressure, Scale: 1, Prefixable: true},
	{Symbol: "C", Aliases: []string{"coulomb"}, Dimension: dCharge, Scale: 1, Prefixable: true},
	{Symbol: "V", Aliases: []string{"volt", "volts"}, Dimension: dVoltage, Scale: 1, Prefixable: true},
	{Symbol: "ohm", Aliases: []string{"Ω", "ohms"}, Dimension: dResistance, Scale: 1, Prefixable: true},
	{Symbol: "F", Aliases: []string{"farad"}, Dimension: dCapacitance, Scale: 1, Prefixable: true},
	{Symbol: "L", Aliases: []string{"l", "liter", "liters", "litre", "litres"}, Dimension: dVolume, Scale: 1e-3, Prefixable: true},
	{Symbol: "eV", Aliases: []string{"electronvolt"}, Dimension: dEnergy, Scale: 1.602176634e-19, Prefixable: true},
	{Symbol: "cal", Aliases: []string{"calorie", "calories"}, Dimension: dEnergy, Scale: 4.184, Prefixable: true},
	{Symbol: "bar", Dimension: dPressure, Scale: 1e5, Prefixable: true},
	{Symbol: "atm", Aliases: []string{"atmosphere"}, Dimension: dPressure, Scale: 101325},

	// imperial
	{Symbol: "in", Aliases: []string{"inch", "inches"}, Dimension: dLength, Scale: 0.0254},
	{Symbol: "ft", Aliases: []string{"foot", "feet"}, Dimension: dLength, Scale: 0.3048},
	{Symbol: "yd", Aliases: []string{"yard", "yards"}, Dimension: dLength, Scale: 0.9144},
	{Symbol: "mi", Aliases: []string{"mile", "miles"}, Dimension: dLength, Scale: 1609.344},
	{Symbol: "lb", Aliases: []string{"lbs", "pound", "pounds"}, Dimension: dMass, Scale: 0.45359237},
	{Symbol: "oz", Aliases: []string{"ounce", "ounces"}, Dimension: dMass, Scale: 0.028349523125},
}
