package game

// Paytable maps a landing bin to its payout multiplier
var Paytable = [Rows + 1]float64{
	18, // bin 0
	9,
	6,
	4.5,
	3,
	2,
	1,
	2,
	3,
	4.5,
	6,
	9,
	18, // bin 12
}

// PayoutMultiplier returns the multiplier for a bin, or 0 outside the table
func PayoutMultiplier(binIndex int) float64 {
	if binIndex < 0 || binIndex >= len(Paytable) {
		return 0
	}
	return Paytable[binIndex]
}
