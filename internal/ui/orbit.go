package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/pokedeck/internal/scene"
)

// cardMark is what the orbit draws for one card.
type cardMark struct {
	at        scene.Screen
	label     string
	color     string
	hovered   bool
	selected  bool
	particles []scene.Screen
}

// orbitMarks projects card descriptions onto a width x height grid.
func orbitMarks(cards []*scene.Node, cam scene.Camera, width, height int) []cardMark {
	marks := make([]cardMark, 0, len(cards))
	for _, card := range cards {
		var m cardMark
		var glyph, name, dex string
		for _, p := range scene.Flatten(card) {
			n := p.Node
			switch {
			case n == card:
				m.at = cam.Project(p.Position, width, height)
				m.hovered = p.Scale > 1.1
			case n.Name == "body":
				m.color = n.Material.Color.Hex()
			case n.Name == "name":
				name = n.Shape.Label
			case n.Name == "dex":
				dex = n.Shape.Label
			case strings.HasPrefix(n.Name, "emblem:"):
				glyph = n.Shape.Label
			case n.Name == "selection":
				m.selected = true
			case n.Name == "particle":
				m.particles = append(m.particles, cam.Project(p.Position, width, height))
			}
		}
		m.label = name
		if glyph != "" {
			m.label = glyph + " " + name
		}
		if m.hovered || m.selected {
			m.label = dex + " " + m.label
		}
		marks = append(marks, m)
	}
	return marks
}

// renderOrbit draws the cards far to near so nearer labels overwrite.
func renderOrbit(cards []*scene.Node, hovered int, cam scene.Camera, width, height int) string {
	c := newCanvas(width, height)
	marks := orbitMarks(cards, cam, width, height)

	order := make([]int, len(marks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return marks[order[a]].at.Depth > marks[order[b]].at.Depth
	})

	for _, i := range order {
		m := marks[i]
		if m.at.Depth < 0.1 {
			continue
		}
		for _, p := range m.particles {
			if p.Visible {
				c.put(p.X, p.Y, "·", SelectedCard)
			}
		}

		st := CardLabel.Foreground(lipgloss.Color(m.color))
		switch {
		case i == hovered:
			st = HoveredCard
		case m.selected:
			st = SelectedCard
		case m.at.Depth > cam.Distance:
			st = FarCard
		}
		c.putCentered(m.at.X, m.at.Y, m.label, st)
	}
	return c.String()
}
