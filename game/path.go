package game

// DropAdjustment is the bias shift applied for a drop column
func DropAdjustment(dropColumn int) float64 {
	return RoundToDecimal(float64(dropColumn-CenterColumn)*AdjustmentPerColumn, BiasPrecision)
}

// SimulatePath continues the round's stream after BuildPegMap and walks the
// ball down Rows rows. The drop column is checked before any draw is taken.
func SimulatePath(rng *XorShift32, dropColumn int, pegMap PegMap) (*Simulation, error) {
	if err := ValidateDropColumn(dropColumn); err != nil {
		return nil, err
	}
	if err := validatePegMap(pegMap); err != nil {
		return nil, err
	}

	adj := DropAdjustment(dropColumn)

	pos := 0
	steps := make([]PathStep, 0, Rows)

	for row := 0; row < Rows; row++ {
		// peg under the current path
		pegIndex := min(pos, row)
		leftBias := pegMap[row][pegIndex]
		adjusted := RoundToDecimal(clamp(leftBias+adj, 0, 1), BiasPrecision)

		rnd := rng.Next()
		direction := Left
		if rnd >= adjusted {
			direction = Right
			pos++
		}

		steps = append(steps, PathStep{
			Row:          row,
			Rnd:          RoundToDecimal(rnd, RandomPrecision),
			Direction:    direction,
			Position:     pos,
			PegIndex:     pegIndex,
			LeftBias:     leftBias,
			AdjustedBias: adjusted,
		})
	}

	return &Simulation{
		BinIndex:         pos,
		PayoutMultiplier: PayoutMultiplier(pos),
		Path:             steps,
		Adjustment:       adj,
	}, nil
}
