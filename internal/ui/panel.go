package ui

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/abelbrown/pokedeck/internal/catalog"
	"github.com/abelbrown/pokedeck/internal/scene"
	"github.com/abelbrown/pokedeck/internal/sprite"
)

const statBarCells = 16

// panelView is the text rendition of a card description.
type panelView struct {
	dex, name      string
	types          []badge
	height, weight string
	stats          []statLine
	emblem         string
}

type badge struct {
	label string
	color string
}

type statLine struct {
	label string
	frac  float64
	color string
}

// panelVisitor reads the parts of a card the terminal can show.
type panelVisitor struct {
	v panelView
}

func (pv *panelVisitor) Enter(n *scene.Node, _ int) bool {
	switch {
	case n.Name == "dex":
		pv.v.dex = n.Shape.Label
	case n.Name == "name":
		pv.v.name = n.Shape.Label
	case n.Name == "height":
		pv.v.height = n.Shape.Label
	case n.Name == "weight":
		pv.v.weight = n.Shape.Label
	case strings.HasPrefix(n.Name, "type:"):
		pv.v.types = append(pv.v.types, badge{label: n.Shape.Label, color: n.Material.Color.Hex()})
	case strings.HasPrefix(n.Name, "stat:"):
		pv.v.stats = append(pv.v.stats, statLine{
			label: n.Shape.Label,
			frac:  n.Shape.Size.X / scene.StatBarWidth,
			color: n.Material.Color.Hex(),
		})
	case strings.HasPrefix(n.Name, "emblem:"):
		pv.v.emblem = n.Shape.Label
	case n.Name == "selection":
		return false
	}
	return true
}

func (pv *panelVisitor) Leave(*scene.Node, int) {}

// readPanel extracts a panelView from a card description.
func readPanel(card *scene.Node) panelView {
	pv := &panelVisitor{}
	scene.Walk(card, pv)
	return pv.v
}

// renderPanel draws the detail panel for d. art is the sprite block, or a
// status line when there is none.
func renderPanel(d *catalog.Detail, art string, width int) string {
	if d == nil {
		return PanelStyle.Width(width).Render(PanelMuted.Render("Nothing selected"))
	}
	card := scene.BuildCard(scene.CardSpec{
		Item:     catalog.SummaryItem{ID: d.ID, Name: d.Name},
		Detail:   d,
		Selected: true,
	})
	v := readPanel(card)

	var lines []string
	lines = append(lines, PanelMuted.Render(v.dex)+" "+PanelHeader.Render(v.name)+" "+v.emblem)

	var badges []string
	for _, b := range v.types {
		badges = append(badges, TypeBadge.Background(lipgloss.Color(b.color)).Render(b.label))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, badges...))
	lines = append(lines, "")
	lines = append(lines, art)
	lines = append(lines, "")
	lines = append(lines, PanelMuted.Render("Height ")+v.height+PanelMuted.Render("   Weight ")+v.weight)

	for i, s := range v.stats {
		value, _ := d.BaseStat(catalog.CardStats[i])
		lines = append(lines, fmt.Sprintf("%-4s %s %3d", s.label, statBar(s.frac, s.color), value))
	}
	return PanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// statBar renders frac of statBarCells as a filled bar.
func statBar(frac float64, color string) string {
	filled := int(math.Round(math.Max(0, math.Min(1, frac)) * statBarCells))
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled)) +
		PanelMuted.Render(strings.Repeat("░", statBarCells-filled))
}

// spriteArt renders a loaded sprite with half blocks: each cell shows two
// vertically stacked pixels. Fully transparent pixels are left blank.
func spriteArt(r sprite.Result) string {
	if r.State != sprite.StateLoaded || r.Thumb == nil {
		return PanelMuted.Render("[ no image ]")
	}
	return halfBlocks(r.Thumb)
}

func halfBlocks(img image.Image) string {
	b := img.Bounds()
	var out strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top, topOK := pixel(img, x, y)
			bottom, bottomOK := pixel(img, x, y+1)
			switch {
			case topOK && bottomOK:
				out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(top)).Background(lipgloss.Color(bottom)).Render("▀"))
			case topOK:
				out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(top)).Render("▀"))
			case bottomOK:
				out.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(bottom)).Render("▄"))
			default:
				out.WriteByte(' ')
			}
		}
		if y+2 < b.Max.Y {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// pixel returns the hex color at (x, y), or false for transparent or
// out-of-bounds pixels.
func pixel(img image.Image, x, y int) (string, bool) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return "", false
	}
	c := img.At(x, y)
	if _, _, _, a := c.RGBA(); a < 0x4000 {
		return "", false
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "", false
	}
	return cf.Hex(), true
}
