package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the chat banner with the library's colors.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	title := out.String(" 라그소 도서관 도우미 ").Bold().Foreground(p.Color("#f8fafc")).Background(p.Color("#4f46e5"))
	sub := out.String(" 좌석 예약 · 도서 검색 · 북 사이렌오더 ").Foreground(p.Color("#a78bfa"))
	ver := out.String(" v" + version).Faint()

	fmt.Fprintln(w)
	fmt.Fprintln(w, title.String()+ver.String())
	fmt.Fprintln(w, sub.String())
	fmt.Fprintln(w)
}
