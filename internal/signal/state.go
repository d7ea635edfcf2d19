package signal

import "strings"

// State is the outcome of classifying one frame.
type State string

const (
	StateStop     State = "STOP"
	StateGo       State = "GO"
	StateWait     State = "WAIT"
	StateUnknown  State = "UNKNOWN"
	StateNoSignal State = "NO SIGNAL"
)

// Separator joins labels when more than one band matches.
const Separator = " & "

// MatchThreshold is the ratio a band must exceed (strictly) to match.
const MatchThreshold = 0.4

// Resolve turns band ratios into a State.
//
// Matching labels are collected in the order red, green, yellow. Two or more
// matches are joined with Separator and reported as-is; none gives StateUnknown.
func Resolve(r ColorRatios) State {
	labels := make([]string, 0, 3)
	if r.Red > MatchThreshold {
		labels = append(labels, string(StateStop))
	}
	if r.Green > MatchThreshold {
		labels = append(labels, string(StateGo))
	}
	if r.Yellow > MatchThreshold {
		labels = append(labels, string(StateWait))
	}

	if len(labels) == 0 {
		return StateUnknown
	}
	return State(strings.Join(labels, Separator))
}

// Labels returns the colour labels carried by s, in resolution order.
// StateUnknown and StateNoSignal carry none.
func (s State) Labels() []string {
	switch s {
	case StateUnknown, StateNoSignal, "":
		return nil
	}
	return strings.Split(string(s), Separator)
}

// Ambiguous reports whether more than one band matched.
func (s State) Ambiguous() bool {
	return len(s.Labels()) > 1
}

// Detected reports whether a candidate was classified, whatever the outcome.
func (s State) Detected() bool {
	return s != StateNoSignal && s != ""
}

func (s State) String() string {
	return string(s)
}
