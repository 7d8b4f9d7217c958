package game

const (
	// Rows is the number of peg rows a ball falls through
	Rows = 12
	// CenterColumn is the drop column with no bias adjustment
	CenterColumn = Rows / 2
	// MinDropColumn and MaxDropColumn bound the accepted drop columns
	MinDropColumn = 0
	MaxDropColumn = Rows

	// BiasSpread maps a draw in [0,1) onto a left bias in [0.4, 0.6]
	BiasSpread = 0.2
	// AdjustmentPerColumn is added to every left bias per column left of centre
	AdjustmentPerColumn = 0.01

	BiasPrecision   = 6
	RandomPrecision = 10

	// PegCount is the number of draws peg map construction consumes
	PegCount = Rows * (Rows + 1) / 2
	// DrawsPerRound is PegCount plus one draw per row of the descent
	DrawsPerRound = PegCount + Rows
)

// Direction is the branch taken at a peg
type Direction string

const (
	Left  Direction = "L"
	Right Direction = "R"
)

// PathStep records one row of the descent
type PathStep struct {
	Row          int       `json:"row"`
	Rnd          float64   `json:"rnd"`
	Direction    Direction `json:"direction"`
	Position     int       `json:"position"`
	PegIndex     int       `json:"pegIndex"`
	LeftBias     float64   `json:"leftBias"`
	AdjustedBias float64   `json:"adjustedBias"`
}

// Simulation is the result of one descent
type Simulation struct {
	BinIndex         int        `json:"binIndex"`
	PayoutMultiplier float64    `json:"payoutMultiplier"`
	Path             []PathStep `json:"path"`
	Adjustment       float64    `json:"adjustment"`
}
