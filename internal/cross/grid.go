package cross

import "github.com/JKrag/punnett-simulator/internal/genetics"

// Cell is one square of the Punnett grid.
type Cell struct {
	Row           int               `json:"row"`
	Col           int               `json:"col"`
	Parent1Gamete Gamete            `json:"parent1_gamete"`
	Parent2Gamete Gamete            `json:"parent2_gamete"`
	Offspring     genetics.Genotype `json:"offspring"`
}

// Grid lays a cross out with parent1 gametes as rows and parent2 gametes as
// columns. Cells is row-major.
type Grid struct {
	Rows  []Gamete `json:"rows"`
	Cols  []Gamete `json:"cols"`
	Cells []Cell   `json:"cells"`
}

// Square builds the full grid in the same order Cross iterates.
func Square(parent1, parent2 genetics.Genotype) Grid {
	rows := Gametes(parent1)
	cols := Gametes(parent2)

	cells := make([]Cell, 0, len(rows)*len(cols))
	for i, a := range rows {
		for j, b := range cols {
			cells = append(cells, Cell{
				Row:           i,
				Col:           j,
				Parent1Gamete: a,
				Parent2Gamete: b,
				Offspring:     Combine(a, b),
			})
		}
	}
	return Grid{Rows: rows, Cols: cols, Cells: cells}
}

func (g Grid) Cell(row, col int) (Cell, bool) {
	if row < 0 || col < 0 || row >= len(g.Rows) || col >= len(g.Cols) {
		return Cell{}, false
	}
	return g.Cells[row*len(g.Cols)+col], true
}
