package game

// Matrix is one rotation state of a shape, indexed [row][col]. True marks an occupied cell.
type Matrix [][]bool

// Rotate returns the matrix turned 90 degrees clockwise. The receiver is not modified.
func (m Matrix) Rotate() Matrix {
	rows := len(m)
	if rows == 0 {
		return Matrix{}
	}
	cols := len(m[0])
	out := make(Matrix, cols)
	for c := range out {
		out[c] = make([]bool, rows)
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[c][rows-1-r] = m[r][c]
		}
	}
	return out
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for r, row := range m {
		out[r] = append([]bool(nil), row...)
	}
	return out
}

// Equal reports whether both matrices have the same size and cells.
func (m Matrix) Equal(o Matrix) bool {
	if len(m) != len(o) {
		return false
	}
	for r := range m {
		if len(m[r]) != len(o[r]) {
			return false
		}
		for c := range m[r] {
			if m[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// Occupied returns the (row, col) offsets of every occupied cell in row-major order.
func (m Matrix) Occupied() [][2]int {
	var out [][2]int
	for r, row := range m {
		for c, v := range row {
			if v {
				out = append(out, [2]int{r, c})
			}
		}
	}
	return out
}

// Kind identifies one of the seven tetrominoes.
type Kind int

const (
	KindS Kind = iota
	KindZ
	KindL
	KindJ
	KindO
	KindI
	KindT
)

// NumKinds is the number of distinct shapes.
const NumKinds = 7

func (k Kind) String() string {
	switch k {
	case KindS:
		return "S"
	case KindZ:
		return "Z"
	case KindL:
		return "L"
	case KindJ:
		return "J"
	case KindO:
		return "O"
	case KindI:
		return "I"
	case KindT:
		return "T"
	default:
		return "?"
	}
}

// Shape pairs a tetromino's spawn matrix with its color.
type Shape struct {
	Kind   Kind
	Matrix Matrix
	Color  Color
}

// templates are never handed out directly; ShapeOf copies them.
var templates = [NumKinds]Shape{
	KindS: {KindS, parseMatrix(".##", "##.", "..."), "#ff0055"},
	KindZ: {KindZ, parseMatrix("##.", ".##", "..."), "#00ff00"},
	KindL: {KindL, parseMatrix(".#.", ".#.", ".##"), "#ffa500"},
	KindJ: {KindJ, parseMatrix(".#.", ".#.", "##."), "#a020f0"},
	KindO: {KindO, parseMatrix("##", "##"), "#ffff00"},
	KindI: {KindI, parseMatrix("####", "....", "....", "...."), "#00f2fe"},
	KindT: {KindT, parseMatrix("###", ".#.", "..."), "#ff0000"},
}

// parseMatrix builds a Matrix from rows where '#' marks an occupied cell.
func parseMatrix(rows ...string) Matrix {
	m := make(Matrix, len(rows))
	for r, row := range rows {
		m[r] = make([]bool, len(row))
		for c, ch := range row {
			m[r][c] = ch == '#'
		}
	}
	return m
}

// ShapeOf returns a fresh copy of the template for kind.
func ShapeOf(kind Kind) Shape {
	t := templates[kind]
	return Shape{Kind: t.Kind, Matrix: t.Matrix.Clone(), Color: t.Color}
}

// Shapes returns fresh copies of all seven templates in Kind order.
func Shapes() []Shape {
	out := make([]Shape, NumKinds)
	for k := range out {
		out[k] = ShapeOf(Kind(k))
	}
	return out
}
