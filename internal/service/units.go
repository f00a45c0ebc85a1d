package service

// Unit classes. Substitution ratios only make sense between ingredients
// measured in the same class; cross-class rules are configuration errors.
const (
	unitClassMass    = "mass"
	unitClassVolume  = "volume"
	unitClassCount   = "count"
	unitClassUnknown = ""
)

var unitClasses = map[string]string{
	"kg":    unitClassMass,
	"g":     unitClassMass,
	"l":     unitClassVolume,
	"cl":    unitClassVolume,
	"ml":    unitClassVolume,
	"piece": unitClassCount,
}

func unitClass(unit string) string {
	return unitClasses[unit]
}

// compatibleUnits reports whether two units belong to the same known class.
// Unknown units never match anything, including themselves.
func compatibleUnits(a, b string) bool {
	ca, cb := unitClass(a), unitClass(b)
	return ca != unitClassUnknown && ca == cb
}
