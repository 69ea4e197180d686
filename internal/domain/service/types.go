package service

type Kind string

const (
	KindEquipment     Kind = "equipment"
	KindSupply        Kind = "supply"
	KindTimeExclusive Kind = "time_exclusive"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindEquipment, KindSupply, KindTimeExclusive:
		return true
	default:
		return false
	}
}

// IsStocked reports whether the kind carries numeric stock. TimeExclusive
// services have one effective unit of capacity per date instead.
func (k Kind) IsStocked() bool {
	return k == KindEquipment || k == KindSupply
}
