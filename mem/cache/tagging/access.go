package tagging

// AccessType classifies a last-level-cache access.
type AccessType uint8

// The access types a last-level cache receives.
const (
	Load AccessType = iota
	RFO
	Prefetch
	Writeback
)

func (t AccessType) String() string {
	switch t {
	case Load:
		return "load"
	case RFO:
		return "rfo"
	case Prefetch:
		return "prefetch"
	case Writeback:
		return "writeback"
	default:
		return "unknown"
	}
}

// ParseAccessType converts the name printed by String back to an AccessType.
func ParseAccessType(name string) (AccessType, bool) {
	for t := Load; t <= Writeback; t++ {
		if t.String() == name {
			return t, true
		}
	}

	return 0, false
}

// An Access is one request that reaches the last-level cache.
type Access struct {
	CoreID  int
	PC      uint64
	Address uint64
	Type    AccessType
}
