package model

// Belts lists the graduation ranks in ascending order.
var Belts = []string{
	"Branca",
	"Cinza/Branca", "Cinza", "Cinza/Preta",
	"Amarela/Branca", "Amarela", "Amarela/Preta",
	"Laranja/Branca", "Laranja", "Laranja/Preta",
	"Verde/Branca", "Verde", "Verde/Preta",
	"Azul", "Roxa", "Marrom", "Preta", "Coral", "Vermelha",
}

// DefaultBelt is assigned to new students that do not specify one.
const DefaultBelt = "Branca"

// ValidBelt reports whether name is a known rank.
func ValidBelt(name string) bool {
	for _, b := range Belts {
		if b == name {
			return true
		}
	}
	return false
}
