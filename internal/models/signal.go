package models

import "strings"

type SignalKind string

const (
	SignalHold       SignalKind = "HOLD"
	SignalEnterLong  SignalKind = "ENTER-LONG"
	SignalExitLong   SignalKind = "EXIT-LONG"
	SignalEnterShort SignalKind = "ENTER-SHORT"
	SignalExitShort  SignalKind = "EXIT-SHORT"
)

// IsExit reports whether the kind closes a position.
func (k SignalKind) IsExit() bool {
	return k == SignalExitLong || k == SignalExitShort
}

// Signal: ответ стратегии за один цикл.
type Signal struct {
	Kind   SignalKind
	Price  float64
	Reason string

	// Exit is the exit the same reading also qualifies for, SignalHold if none.
	// An ENTER-SHORT produced by opposing pressure is also a valid EXIT-LONG;
	// the position gate picks whichever transition is legal.
	Exit SignalKind
}

func Hold(price float64) Signal {
	return Signal{Kind: SignalHold, Price: price, Exit: SignalHold}
}

// ParseSignalKind accepts both "ENTER-LONG" and "enter_long" spellings.
func ParseSignalKind(s string) (SignalKind, bool) {
	k := SignalKind(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", "-")))
	switch k {
	case SignalHold, SignalEnterLong, SignalExitLong, SignalEnterShort, SignalExitShort:
		return k, true
	}
	return SignalHold, false
}
