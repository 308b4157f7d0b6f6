package lexer

// units maps each reserved unit keyword to its multiplier. SI decimal
// units (k..Y) and IEC binary units (Ki..Yi) per spec.md §4.1.
var units = map[string]float64{
	"k": 1e3, "M": 1e6, "G": 1e9, "T": 1e12,
	"P": 1e15, "E": 1e18, "Z": 1e21, "Y": 1e24,
	"Ki": 1 << 10, "Mi": 1 << 20, "Gi": 1 << 30, "Ti": 1 << 40,
	"Pi": 1 << 50, "Ei": 1 << 60,
	"Zi": (1 << 60) * 1024, "Yi": (1 << 60) * 1024 * 1024,
}

// reserved maps every reserved identifier (booleans, include, and every
// unit keyword) to the token Kind the lexer reclassifies a NAME into.
var reserved = map[string]Kind{
	"yes":     YES,
	"no":      NO,
	"include": INCLUDE,
}

func init() {
	for name := range units {
		reserved[name] = UNIT
	}
}

// intSafeUnits holds, for each unit whose multiplier is exactly
// representable as an int64, that int64 value — used so "4 Ki" produces
// the integer 4096 rather than the float 4096.0, matching spec.md's
// property 5. Zi and Yi overflow int64 and always produce a float.
var intSafeUnits = map[string]int64{
	"k": 1e3, "M": 1e6, "G": 1e9, "T": 1e12,
	"P": 1e15, "E": 1e18,
	"Ki": 1 << 10, "Mi": 1 << 20, "Gi": 1 << 30, "Ti": 1 << 40,
	"Pi": 1 << 50, "Ei": 1 << 60,
}

// UnitIntMultiplier returns the unit's multiplier as an int64 when it is
// exactly representable, so the parser can keep "4 Ki" an integer 4096
// instead of promoting it to a float.
func UnitIntMultiplier(word string) (int64, bool) {
	v, ok := intSafeUnits[word]
	return v, ok
}

// UnitWords reports whether word is a recognized unit keyword.
func UnitWords(word string) bool {
	_, ok := units[word]
	return ok
}
