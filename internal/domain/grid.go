package domain

// Grid dimensions for the four-in-a-row game.
const (
	GridRows     = 6
	GridCols     = 7
	GridMaxMoves = GridRows * GridCols
)

// GridCell records which player occupies a board cell.
type GridCell struct {
	Username string `json:"username"`
	Color    string `json:"color"`
}

// GridState is the four-in-a-row board. Row 0 is the top row; pieces fall to
// the highest-indexed empty row of their column.
type GridState struct {
	Board [GridRows][GridCols]*GridCell `json:"board"`
	Moves int                           `json:"moves"`
}

// NewGridState returns an empty board.
func NewGridState() *GridState {
	return &GridState{}
}

// CellCoord addresses a board cell as [row, col].
type CellCoord [2]int

// DropResult describes the outcome of a valid drop.
type DropResult struct {
	Row          int
	GameOver     bool
	Win          bool
	WinningCells []CellCoord
}

// Drop places a piece for the given occupant in the column, filling from the
// bottom. It returns false when the column is out of range or full. On a
// valid drop it reports whether the placement ended the game: a four-in-a-row
// through the placed cell wins, a full board without one is a draw.
func (g *GridState) Drop(column int, occupant GridCell) (DropResult, bool) {
	if column < 0 || column >= GridCols {
		return DropResult{}, false
	}
	for row := GridRows - 1; row >= 0; row-- {
		if g.Board[row][column] != nil {
			continue
		}
		g.Board[row][column] = &occupant
		g.Moves++

		win, cells := g.checkWin(row, column)
		return DropResult{
			Row:          row,
			GameOver:     win || g.Moves == GridMaxMoves,
			Win:          win,
			WinningCells: cells,
		}, true
	}
	return DropResult{}, false
}

// checkWin scans the four axes through the placed cell, counting contiguous
// same-owner cells in both directions, and collects the contributing cells.
func (g *GridState) checkWin(row, col int) (bool, []CellCoord) {
	directions := [4][2]int{
		{0, 1},  // horizontal
		{1, 0},  // vertical
		{1, 1},  // diagonal down-right
		{1, -1}, // diagonal down-left
	}

	owner := g.Board[row][col]
	for _, d := range directions {
		cells := []CellCoord{{row, col}}

		for r, c := row+d[0], col+d[1]; g.ownedBy(r, c, owner.Username); r, c = r+d[0], c+d[1] {
			cells = append(cells, CellCoord{r, c})
		}
		for r, c := row-d[0], col-d[1]; g.ownedBy(r, c, owner.Username); r, c = r-d[0], c-d[1] {
			cells = append(cells, CellCoord{r, c})
		}

		if len(cells) >= 4 {
			return true, cells
		}
	}
	return false, nil
}

func (g *GridState) ownedBy(row, col int, username string) bool {
	if row < 0 || row >= GridRows || col < 0 || col >= GridCols {
		return false
	}
	cell := g.Board[row][col]
	return cell != nil && cell.Username == username
}
