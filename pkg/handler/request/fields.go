package request

// SentinelMode selects how "never co-occurs" cells are filled before
// display: with the fixed display ceiling, or with the log2-dampened
// maximum of the observed finite ratios.
type SentinelMode int

const (
	SentinelFixed SentinelMode = iota
	SentinelAdjusted
)

func (s SentinelMode) String() string {
	switch s {
	case SentinelFixed:
		return "fixed"
	case SentinelAdjusted:
		return "adjusted"
	default:
		return "fixed"
	}
}

func NewSentinelMode(mode string) SentinelMode {
	switch mode {
	case "adjusted", "adjust", "true", "1":
		return SentinelAdjusted
	default:
		return SentinelFixed
	}
}
