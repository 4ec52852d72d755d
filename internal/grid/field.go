package grid

// Field is a square scalar field stored row-major.
type Field struct {
	side int
	data []float64
}

func NewField(side int) *Field {
	return &Field{side: side, data: make([]float64, side*side)}
}

func (f *Field) Side() int { return f.side }

func (f *Field) At(row, col int) float64 { return f.data[row*f.side+col] }

func (f *Field) Set(row, col int, v float64) { f.data[row*f.side+col] = v }

// Data exposes the backing slice; index row*Side()+col.
func (f *Field) Data() []float64 { return f.data }

// CopyFrom overwrites f with src. Both fields must share a side length.
func (f *Field) CopyFrom(src *Field) { copy(f.data, src.data) }

func (f *Field) Fill(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

// ColorField is a square RGBA field stored row-major.
type ColorField struct {
	side int
	data []Color
}

func NewColorField(side int) *ColorField {
	return &ColorField{side: side, data: make([]Color, side*side)}
}

func (f *ColorField) Side() int { return f.side }

func (f *ColorField) At(row, col int) Color { return f.data[row*f.side+col] }

func (f *ColorField) Set(row, col int, c Color) { f.data[row*f.side+col] = c }

func (f *ColorField) Data() []Color { return f.data }

func (f *ColorField) CopyFrom(src *ColorField) { copy(f.data, src.data) }

func (f *ColorField) Fill(c Color) {
	for i := range f.data {
		f.data[i] = c
	}
}
