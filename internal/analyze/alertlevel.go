// Package analyze is the cluster analyzer: a pure, reentrant evaluator that
// scores a Configuration against a fixed catalogue of resource and
// capability rules, streaming graded violations to a caller-supplied sink.
package analyze

// AlertLevel is the totally-ordered severity of a single rule violation.
// Zero value is AlertLevelNone, so an unset AlertLevel reads as "no
// problem", which is the safe default.
type AlertLevel int

const (
	AlertLevelNone AlertLevel = iota
	AlertLevelLow
	AlertLevelMedium
	AlertLevelHigh
	AlertLevelCritical
)

func (l AlertLevel) String() string {
	switch l {
	case AlertLevelNone:
		return "NONE"
	case AlertLevelLow:
		return "LOW"
	case AlertLevelMedium:
		return "MEDIUM"
	case AlertLevelHigh:
		return "HIGH"
	case AlertLevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}
