package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/homeworkhelper/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle  MascotVariant = iota // Signed out
	MascotHappy                      // Signed in and ready
	MascotAlert                      // Out of credits
)

const mascotIdle = `┌───────┐
│ ◉   ◉ │
│   ▽   │
│ A B C │
└───────┘`

const mascotHappy = `┌───────┐
│ ^   ^ │
│   ◡   │
│ 1 2 3 │
└─╥───╥─┘
  ╚═══╝`

const mascotAlert = `┌───────┐
│ ◉   ◉ │ !
│   ○   │
│ 0 0 0 │
└───────┘`

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(variant MascotVariant) string {
	var art string
	fg := theme.Primary

	switch variant {
	case MascotHappy:
		art = mascotHappy
		fg = theme.Chalk
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
