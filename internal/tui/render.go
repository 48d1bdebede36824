package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/rewind/internal/engine/history"
)

const header = "rewind: editor timeline (^Z undo, ^Y redo, ^S commit, Esc quit)"

// draw renders the whole screen.
func (b *Browser) draw() {
	b.screen.Clear()
	width, height := b.screen.Size()
	if height < 3 {
		b.screen.Show()
		return
	}

	cur := b.session.Current()
	entries := b.session.History().Entries()

	drawText(b.screen, 0, 0, width, header, styleHeader)

	// Content takes what the history list leaves over, at least one row.
	lines := strings.Split(cur.Content(), "\n")
	historyRows := min(len(entries)+1, (height-2)/2)
	contentRows := max(height-2-historyRows, 1)

	y := 1
	for i := 0; i < len(lines) && i < contentRows; i++ {
		drawText(b.screen, 0, y, width, lines[i], styleText)
		y++
	}

	y = height - 1 - historyRows
	if historyRows > 0 {
		drawText(b.screen, 0, y, width, "history", styleHeader)
		drawHistory(b.screen, y+1, width, historyRows-1, entries)
	}

	b.drawStatus(width, height-1)
	b.screen.Show()
}

func (b *Browser) drawStatus(width, y int) {
	cur := b.session.Current()
	tl := b.session.History()

	dirty := "clean"
	if cur.Dirty() {
		dirty = "modified"
	}
	status := fmt.Sprintf(" %d/%d  %s  %d chars", tl.Pos()+1, tl.Len(), dirty, uniseg.GraphemeClusterCount(cur.Content()))
	if msg := b.currentMessage(); msg != "" {
		status += "  | " + msg
	}

	for x := range width {
		b.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	drawText(b.screen, 0, y, width, status, styleStatus)
}

// drawHistory lists entries from row y, keeping the current entry visible.
func drawHistory(screen tcell.Screen, y, width, rows int, entries []history.EntryInfo) {
	if rows <= 0 {
		return
	}

	current := 0
	for i, e := range entries {
		if e.Current {
			current = i
		}
	}
	start := 0
	if len(entries) > rows {
		start = min(max(current-rows/2, 0), len(entries)-rows)
	}

	for i := start; i < len(entries) && i < start+rows; i++ {
		e := entries[i]
		marker, style := "  ", styleEntry
		if e.Current {
			marker, style = "> ", styleCurrent
		}
		line := fmt.Sprintf("%s%3d  %s  %s", marker, e.Index, e.Timestamp.Format("15:04:05.000"), e.ID.String()[:8])
		drawText(screen, 0, y+i-start, width, line, style)
	}
}

// drawText writes text one grapheme cluster per cell group, clipped to width.
// Returns the column after the last cluster drawn.
func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	rest := text
	gstate := -1
	for len(rest) > 0 && x < width {
		var cluster string
		var w int
		cluster, rest, w, gstate = uniseg.FirstGraphemeClusterInString(rest, gstate)
		runes := []rune(cluster)
		if w == 0 {
			continue
		}
		if x+w > width {
			break
		}
		screen.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}
