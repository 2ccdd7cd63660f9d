package debate

import "fmt"

// The client never runs its own authoritative countdown: it only reflects the
// server's per-second snapshots into a progress value. Phase totals are fixed
// protocol constants known independently of any payload.
const (
	PrepTotalSeconds = 180
	TurnTotalSeconds = 120
)

type Kind string

const (
	KindPrep Kind = "prep"
	KindTurn Kind = "turn"
)

// Snapshot is the most recent server-pushed countdown state for one kind.
type Snapshot struct {
	Kind             Kind
	Display          string
	RemainingSeconds int
}

func Total(kind Kind) int {
	if kind == KindPrep {
		return PrepTotalSeconds
	}
	return TurnTotalSeconds
}

// Progress maps a remaining-seconds snapshot onto [0,1]. Out-of-range input
// from the server clamps instead of producing a bogus bar.
func Progress(kind Kind, remainingSeconds int) float64 {
	total := Total(kind)
	p := float64(total-remainingSeconds) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// FormatDisplay renders remaining seconds as mm:ss, matching the server's
// display strings.
func FormatDisplay(remainingSeconds int) string {
	if remainingSeconds < 0 {
		remainingSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", remainingSeconds/60, remainingSeconds%60)
}
