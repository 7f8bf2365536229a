package engine

// IsCompatible reports whether a player at playerPos may occupy a slot that
// requires slotPos. FLEX takes RB, WR and TE.
func IsCompatible(playerPos, slotPos Position) bool {
	if playerPos == slotPos {
		return playerPos.IsPlayerPosition()
	}
	if slotPos == PosFLEX {
		return isFlexEligible(playerPos)
	}
	return false
}

func isFlexEligible(p Position) bool {
	return p == PosRB || p == PosWR || p == PosTE
}
