package services

import "github.com/joeys1992/Date/models"

func acceptsGender(pref, gender string) bool {
	return pref == models.PrefBoth || pref == gender
}

// MutuallyCompatible reports whether each user's gender preference accepts
// the other's gender. Symmetric by construction: argument order never
// changes the result.
func MutuallyCompatible(a, b *models.User) bool {
	return acceptsGender(a.GenderPreference, b.Gender) &&
		acceptsGender(b.GenderPreference, a.Gender)
}
