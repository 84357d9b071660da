// pkg/render/ascii.go
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/arvheim/boxsim/pkg/entity"
)

// ASCIISurface renders rectangles into a rune buffer and writes the
// framed result to an io.Writer on Present. World coordinates map
// linearly onto the cell grid: (0,0) is the top-left of the viewport.
type ASCIISurface struct {
	mu         sync.Mutex
	out        io.Writer
	cols       int
	rows       int
	buffer     [][]rune
	viewWidth  float64
	viewHeight float64
	attached   map[entity.ID]struct{}
	frameCount uint64
}

// NewASCIISurface creates a surface with the given cell grid, writing
// frames to out.
func NewASCIISurface(cols, rows int, out io.Writer) *ASCIISurface {
	buffer := make([][]rune, rows)
	for i := range buffer {
		buffer[i] = make([]rune, cols)
		for j := range buffer[i] {
			buffer[i][j] = ' '
		}
	}

	return &ASCIISurface{
		out:      out,
		cols:     cols,
		rows:     rows,
		buffer:   buffer,
		attached: make(map[entity.ID]struct{}),
	}
}

// Resize implements entity.Renderer. The cell grid is fixed; resizing
// adjusts the world-to-cell mapping.
func (s *ASCIISurface) Resize(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewWidth = width
	s.viewHeight = height
}

// Attach implements entity.Renderer.
func (s *ASCIISurface) Attach(e entity.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached[e.GetID()] = struct{}{}
}

// Clear implements entity.Renderer.
func (s *ASCIISurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for y := range s.buffer {
		for x := range s.buffer[y] {
			s.buffer[y][x] = ' '
		}
	}
}

// RenderRectangle implements entity.Renderer. The rectangle's bounding
// box is drawn as an outline, clipped to the grid.
func (s *ASCIISurface) RenderRectangle(r *entity.Rectangle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := r.Bounds()
	left, top := s.worldToCell(b.Left, b.Top)
	right, bottom := s.worldToCell(b.Right, b.Bottom)

	for y := top; y <= bottom; y++ {
		for x := left; x <= right; x++ {
			if x < 0 || x >= s.cols || y < 0 || y >= s.rows {
				continue
			}
			onEdge := y == top || y == bottom || x == left || x == right
			if !onEdge {
				continue
			}
			switch {
			case (y == top || y == bottom) && (x == left || x == right):
				s.buffer[y][x] = '+'
			case y == top || y == bottom:
				s.buffer[y][x] = '-'
			default:
				s.buffer[y][x] = '|'
			}
		}
	}
}

// SetFrameCount implements entity.Renderer.
func (s *ASCIISurface) SetFrameCount(count uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frameCount = count
}

// Present implements entity.Renderer: it writes the current frame to
// the output writer.
func (s *ASCIISurface) Present() {
	fmt.Fprint(s.out, s.String())
}

// String renders the buffer with a border and a status line. The live
// view uses this directly instead of Present.
func (s *ASCIISurface) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("+" + strings.Repeat("-", s.cols) + "+\n")
	for y := range s.buffer {
		sb.WriteString("|")
		sb.WriteString(string(s.buffer[y]))
		sb.WriteString("|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", s.cols) + "+\n")
	fmt.Fprintf(&sb, "frame %d  entities %d\n", s.frameCount, len(s.attached))
	return sb.String()
}

// worldToCell converts world coordinates to grid coordinates. Callers
// hold the lock.
func (s *ASCIISurface) worldToCell(x, y float64) (int, int) {
	if s.viewWidth <= 0 || s.viewHeight <= 0 {
		return -1, -1
	}
	col := int(x / s.viewWidth * float64(s.cols))
	row := int(y / s.viewHeight * float64(s.rows))
	return col, row
}
