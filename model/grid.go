package model

// Cell is a grid slot. It either holds a movie or pads a short row.
type Cell struct {
	movie  Movie
	filled bool
}

// Movie returns the movie in the cell. ok is false for padding.
func (c Cell) Movie() (Movie, bool) {
	return c.movie, c.filled
}

func (c Cell) IsPadding() bool {
	return !c.filled
}

type Row []Cell

// Grid lays movies out in rows of exactly columns cells, padding the
// last row. A non-positive column count is treated as one column.
func Grid(movies []Movie, columns int) []Row {
	if columns < 1 {
		columns = 1
	}
	if len(movies) == 0 {
		return nil
	}
	rows := make([]Row, 0, (len(movies)+columns-1)/columns)
	for start := 0; start < len(movies); start += columns {
		row := make(Row, columns)
		for i := 0; i < columns; i++ {
			if start+i < len(movies) {
				row[i] = Cell{movie: movies[start+i], filled: true}
			}
		}
		rows = append(rows, row)
	}
	return rows
}
