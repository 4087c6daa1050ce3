// Package domain contains core concepts of the chat relay.
// This file defines the fixed group directory and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// Groups are compiled in. There is no dynamic group creation, and the
// protocol never accepts a name outside this set.
var existingGroups = []string{"HEIG-VD", "SPORT", "VOITURE"}

// MaxMessageRunes is the maximum content length accepted by
// SEND_PRIVATE and SEND_GROUP, counted in runes.
const MaxMessageRunes = 100

// Groups returns the fixed set of valid group names, in declaration order.
func Groups() []string {
	out := make([]string, len(existingGroups))
	copy(out, existingGroups)
	return out
}

// IsValidGroup reports whether name is one of the fixed groups.
// Matching is exact: clients uppercase group names before transmission
// and the server trusts that normalization.
func IsValidGroup(name string) bool {
	for _, g := range existingGroups {
		if g == name {
			return true
		}
	}
	return false
}
