package card

// Suit 花色
type Suit string

const (
	SuitMajorArcana Suit = "Major Arcana"
	SuitWands       Suit = "Wands"
	SuitCups        Suit = "Cups"
	SuitSwords      Suit = "Swords"
	SuitPentacles   Suit = "Pentacles"
)

const (
	TypeMajor = "major"
	TypeMinor = "minor"
)

// IsValid 检查花色是否合法
func (s Suit) IsValid() bool {
	switch s {
	case SuitMajorArcana, SuitWands, SuitCups, SuitSwords, SuitPentacles:
		return true
	}
	return false
}
