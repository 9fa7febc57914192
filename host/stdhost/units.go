package stdhost

import (
	"golang.org/x/text/cases"

	"github.com/dekarrin/mathscript/internal/util"
)

// foldUnitName case-folds a unit name so "CM", "Cm", and "cm" all resolve to
// the same entry in unitFactors, the same way the teacher's go.mod pulls in
// x/text for locale-aware rune folding rather than a bare strings.ToLower.
var foldUnitName = cases.Fold().String

// unitFactors maps a unit name to its size relative to a fixed base unit for
// its quantity (meters for length, grams for mass, seconds for time). Only
// a small, commonly used set is registered; this is meant to cover ordinary
// conversions, not to be a complete units-of-measure system.
var unitFactors = map[string]float64{
	// length, base = meter
	"m": 1, "meter": 1, "meters": 1,
	"cm": 0.01, "centimeter": 0.01, "centimeters": 0.01,
	"mm": 0.001, "millimeter": 0.001, "millimeters": 0.001,
	"km": 1000, "kilometer": 1000, "kilometers": 1000,
	"in": 0.0254, "inch": 0.0254, "inches": 0.0254,
	"ft": 0.3048, "foot": 0.3048, "feet": 0.3048,
	"yd": 0.9144, "yard": 0.9144, "yards": 0.9144,
	"mi": 1609.344, "mile": 1609.344, "miles": 1609.344,

	// mass, base = gram
	"g": 1, "gram": 1, "grams": 1,
	"kg": 1000, "kilogram": 1000, "kilograms": 1000,
	"lb": 453.59237, "lbs": 453.59237, "pound": 453.59237, "pounds": 453.59237,
	"oz": 28.349523125, "ounce": 28.349523125, "ounces": 28.349523125,

	// time, base = second
	"s": 1, "sec": 1, "second": 1, "seconds": 1,
	"min": 60, "minute": 60, "minutes": 60,
	"h": 3600, "hr": 3600, "hour": 3600, "hours": 3600,
	"day": 86400, "days": 86400,
}

// quantityOf reports which dimension a unit belongs to, so that conversions
// across dimensions (e.g. grams to meters) are rejected.
func quantityOf(unit string) string {
	switch foldUnitName(unit) {
	case "m", "meter", "meters", "cm", "centimeter", "centimeters",
		"mm", "millimeter", "millimeters", "km", "kilometer", "kilometers",
		"in", "inch", "inches", "ft", "foot", "feet", "yd", "yard", "yards",
		"mi", "mile", "miles":
		return "length"
	case "g", "gram", "grams", "kg", "kilogram", "kilograms",
		"lb", "lbs", "pound", "pounds", "oz", "ounce", "ounces":
		return "mass"
	case "s", "sec", "second", "seconds", "min", "minute", "minutes",
		"h", "hr", "hour", "hours", "day", "days":
		return "time"
	default:
		return ""
	}
}

// convertUnit implements the "to"/"in" operator for stdhost. a is treated as
// already being in the base unit of its (inferred) quantity when it carries
// no unit of its own -- this host does not track a unit tag on Value, so
// "5 to cm" treats 5 as 5 base units and reports it in cm. A number written
// next to a unit name (e.g. "5cm") is normalized into base units earlier,
// by Host.Unit when the adjacency is compiled.

// unitsOfQuantity lists the canonical (plural, non-abbreviated) unit
// names belonging to a quantity, grouping quantityOf's classification the
// other direction.
func unitsOfQuantity(quantity string) []string {
	switch quantity {
	case "length":
		return []string{"meters", "centimeters", "millimeters", "kilometers", "inches", "feet", "yards", "miles"}
	case "mass":
		return []string{"grams", "kilograms", "pounds", "ounces"}
	case "time":
		return []string{"seconds", "minutes", "hours", "days"}
	default:
		return nil
	}
}

var allKnownUnits = func() []string {
	var all []string
	for _, q := range []string{"length", "mass", "time"} {
		all = append(all, unitsOfQuantity(q)...)
	}
	return all
}()

func convertUnit(a Value, unitName string) (Value, error) {
	factor, ok := unitFactors[foldUnitName(unitName)]
	if !ok {
		// MakeTextList mutates its argument's last element in place, so pass
		// it a fresh copy rather than the shared allKnownUnits slice.
		known := append([]string(nil), allKnownUnits...)
		return Value{}, typeErrorf("unknown unit %q (known units: %s)", unitName, util.MakeTextList(known))
	}
	n, err := a.toNumber()
	if err != nil {
		return Value{}, err
	}
	return Number(n / factor), nil
}

// UnitsOf reports the canonical unit names for the quantity that unitName
// belongs to (e.g. "cm" -> the other length units), used by the server's
// /info endpoint to advertise supported units grouped by kind.
func UnitsOf(unitName string) []string {
	return append([]string(nil), unitsOfQuantity(quantityOf(unitName))...)
}
