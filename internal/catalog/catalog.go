// Package catalog holds the fixed vocabularies recipe drafts are
// validated against. Pure lookup data, no behavior beyond membership.
package catalog

// Units lists the valid ingredient measurement units, in form order.
var Units = []string{"g", "kg", "ml", "dl", "L", "ts", "ss", "stk"}

// Cuisines lists the selectable cuisines.
var Cuisines = []string{"italiensk", "indisk", "annet"}

// MealTypes lists the selectable meal types.
var MealTypes = []string{
	"frokost", "lunsj", "middag", "dessert", "snack", "saus",
	"forrett", "siderett", "drikke", "suppe", "annet",
}

// SpiceLevels lists the selectable spice levels.
var SpiceLevels = []string{"mild", "medium", "spicy"}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ValidUnit reports whether code is a known measurement unit.
func ValidUnit(code string) bool { return contains(Units, code) }

// ValidCuisine reports whether v is a known cuisine.
func ValidCuisine(v string) bool { return contains(Cuisines, v) }

// ValidMealType reports whether v is a known meal type.
func ValidMealType(v string) bool { return contains(MealTypes, v) }

// ValidSpiceLevel reports whether v is a known spice level.
func ValidSpiceLevel(v string) bool { return contains(SpiceLevels, v) }
