package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/timpalpant/go-selfplay/quixo"
)

// renderer prints boards to a terminal, coloring each player's cubes.
type renderer struct {
	w     io.Writer
	out   *termenv.Output
	color bool
}

func newRenderer(w io.Writer, color bool) *renderer {
	return &renderer{
		w:     w,
		out:   termenv.NewOutput(w),
		color: color,
	}
}

func (r *renderer) mark(m quixo.Mark) string {
	s := m.String()
	if !r.color {
		return s
	}

	switch m {
	case quixo.PlayerA:
		return r.out.String(s).Foreground(r.out.Color("#e06c75")).Bold().String()
	case quixo.PlayerB:
		return r.out.String(s).Foreground(r.out.Color("#61afef")).Bold().String()
	}

	return r.out.String(s).Faint().String()
}

// board prints b with row and column indices.
func (r *renderer) board(b quixo.Board) {
	var sb strings.Builder
	sb.WriteString("   0 1 2 3 4\n")
	for i, row := range b {
		fmt.Fprintf(&sb, "%d |", i)
		for _, m := range row {
			sb.WriteString(r.mark(m))
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}

	fmt.Fprint(r.w, sb.String())
}

func (r *renderer) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format, args...)
}
