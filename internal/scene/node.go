package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/abelbrown/pokedeck/internal/catalog"
)

// ShapeKind names a primitive a renderer knows how to draw.
type ShapeKind string

const (
	ShapeGroup      ShapeKind = "group"
	ShapeRoundedBox ShapeKind = "rounded-box"
	ShapeBox        ShapeKind = "box"
	ShapePlane      ShapeKind = "plane"
	ShapeSphere     ShapeKind = "sphere"
	ShapeCone       ShapeKind = "cone"
	ShapeTorus      ShapeKind = "torus"
	ShapeOctahedron ShapeKind = "octahedron"
	ShapeText       ShapeKind = "text"
	ShapeImage      ShapeKind = "image"
	ShapeLight      ShapeKind = "point-light"
)

// Shape is a primitive with its dimensions. Text and Image use Label and
// Source; other kinds ignore them.
type Shape struct {
	Kind   ShapeKind
	Size   Vec3
	Label  string
	Source string
}

// Material describes surface appearance.
type Material struct {
	Color     colorful.Color
	Emissive  float64
	Metalness float64
	Roughness float64
}

// Placement positions a node relative to its parent: the child is scaled,
// turned about Y by the parent's rotation, then offset by the parent's
// position.
type Placement struct {
	Position Vec3
	Rotation Vec3
	Scale    float64
}

// Node is one element of a scene description. Nodes are plain data; a
// renderer adapter walks them and draws what it supports.
type Node struct {
	Name      string
	Shape     Shape
	Material  Material
	Placement Placement
	Children  []*Node
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Visitor receives nodes in depth-first order. Returning false from Enter
// skips the node's children; Leave is still called.
type Visitor interface {
	Enter(n *Node, depth int) bool
	Leave(n *Node, depth int)
}

// Walk visits n and its descendants.
func Walk(n *Node, v Visitor) {
	walk(n, v, 0)
}

func walk(n *Node, v Visitor, depth int) {
	if n == nil {
		return
	}
	if v.Enter(n, depth) {
		for _, c := range n.Children {
			walk(c, v, depth+1)
		}
	}
	v.Leave(n, depth)
}

// Find returns the first node named name, depth first.
func Find(root *Node, name string) *Node {
	var found *Node
	Walk(root, visitFunc(func(n *Node, _ int) bool {
		if found != nil {
			return false
		}
		if n.Name == name {
			found = n
			return false
		}
		return true
	}))
	return found
}

type visitFunc func(n *Node, depth int) bool

func (f visitFunc) Enter(n *Node, depth int) bool { return f(n, depth) }
func (f visitFunc) Leave(*Node, int)              {}

// ParseColor parses a hex color, yielding mid gray when it is invalid.
func ParseColor(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}
	return c
}

var (
	white = ParseColor("#FFFFFF")
	panel = ParseColor("#F0F0F0")
	gold  = ParseColor("#FFD700")
	ink   = ParseColor("#2C2C2C")
	muted = ParseColor("#666666")
)

// CardSpec is everything BuildCard needs for one card.
type CardSpec struct {
	Item      catalog.SummaryItem
	Detail    *catalog.Detail // nil until the detail is loaded
	Base      Vec3
	Transform Transform
	Sprite    string
	Hovered   bool
	Selected  bool
}

// BuildCard describes a card: body tinted with the primary type color,
// header text, sprite, type badges, physical info, stat bars, emblem and,
// when selected, a ring of particles below it.
func BuildCard(spec CardSpec) *Node {
	types := spec.Detail.TypeNames()
	mainColor := ParseColor(catalog.MainColor(types))

	emissive := 0.2
	if spec.Selected {
		emissive = 0.5
	}
	light := 0.8
	if spec.Hovered {
		light = 2
	}

	root := &Node{
		Name:  "card:" + spec.Item.Name,
		Shape: Shape{Kind: ShapeGroup},
		Placement: Placement{
			Position: Vec3{X: spec.Base.X, Y: spec.Transform.Y, Z: spec.Base.Z},
			Rotation: Vec3{Y: spec.Transform.Rotation},
			Scale:    spec.Transform.Scale,
		},
	}

	root.Add(
		&Node{
			Name:     "body",
			Shape:    Shape{Kind: ShapeRoundedBox, Size: Vec3{2.6, 4, 0.15}},
			Material: Material{Color: mainColor, Emissive: emissive, Metalness: 0.6, Roughness: 0.15},
		},
		&Node{
			Name:      "face",
			Shape:     Shape{Kind: ShapeBox, Size: Vec3{2.4, 3.8, 0.02}},
			Material:  Material{Color: white, Roughness: 0.05},
			Placement: at(0, 0, 0.08),
		},
		text("dex", catalog.FormatDexNumber(spec.Item.ID), muted, at(0, 1.5, 0.11)),
		text("name", catalog.DisplayName(spec.Item.Name), ink, at(0, 1.15, 0.11)),
	)

	if spec.Sprite != "" {
		root.Add(&Node{
			Name:      "sprite",
			Shape:     Shape{Kind: ShapeImage, Size: Vec3{1.9, 1.9, 0}, Source: spec.Sprite},
			Placement: at(0, 0.35, 0.12),
		})
	}

	if spec.Detail != nil {
		root.Add(typeBadges(types), physicalInfo(spec.Detail), statBars(spec.Detail))
		if len(types) > 0 {
			emblem := BuildEmblem(types[0])
			emblem.Placement.Position = Vec3{-1, 1.4, 0.3}
			root.Add(emblem)
		}
	}

	if spec.Selected {
		root.Add(selectionRing())
	}

	root.Add(&Node{
		Name:      "light",
		Shape:     Shape{Kind: ShapeLight},
		Material:  Material{Color: mainColor, Emissive: light},
		Placement: at(0, 0, 2.5),
	})
	return root
}

func at(x, y, z float64) Placement {
	return Placement{Position: Vec3{x, y, z}, Scale: 1}
}

func text(name, label string, c colorful.Color, p Placement) *Node {
	return &Node{
		Name:      name,
		Shape:     Shape{Kind: ShapeText, Label: label},
		Material:  Material{Color: c},
		Placement: p,
	}
}

func typeBadges(types []string) *Node {
	group := &Node{Name: "types", Shape: Shape{Kind: ShapeGroup}, Placement: at(0, -0.55, 0.11)}
	for i, t := range types {
		x := 0.0
		if len(types) > 1 {
			x = -0.55 + 1.1*float64(i)
		}
		badge := &Node{
			Name:      "type:" + t,
			Shape:     Shape{Kind: ShapeRoundedBox, Size: Vec3{0.95, 0.28, 0.03}, Label: catalog.Capitalize(t)},
			Material:  Material{Color: ParseColor(catalog.TypeColor(t)), Metalness: 0.2, Roughness: 0.4},
			Placement: at(x, 0, 0),
		}
		group.Add(badge)
	}
	return group
}

func physicalInfo(d *catalog.Detail) *Node {
	group := &Node{Name: "physical", Shape: Shape{Kind: ShapeGroup}, Placement: at(0, -0.9, 0.11)}
	group.Add(
		&Node{
			Name:      "height",
			Shape:     Shape{Kind: ShapeBox, Size: Vec3{0.9, 0.22, 0.01}, Label: catalog.FormatHeight(d.Height)},
			Material:  Material{Color: panel},
			Placement: at(-0.55, 0, 0),
		},
		&Node{
			Name:      "weight",
			Shape:     Shape{Kind: ShapeBox, Size: Vec3{0.9, 0.22, 0.01}, Label: catalog.FormatWeight(d.Weight)},
			Material:  Material{Color: panel},
			Placement: at(0.55, 0, 0),
		},
	)
	return group
}

// StatBarWidth is the full width of a stat bar at 100%.
const StatBarWidth = 1.6

func statBars(d *catalog.Detail) *Node {
	group := &Node{Name: "stats", Shape: Shape{Kind: ShapeGroup}, Placement: at(0, -1.35, 0.11)}
	for i, s := range catalog.CardStats {
		value, _ := d.BaseStat(s)
		frac := catalog.StatPercent(value, s) / 100
		width := StatBarWidth * frac
		group.Add(&Node{
			Name:      "stat:" + s.Label(),
			Shape:     Shape{Kind: ShapeBox, Size: Vec3{width, 0.1, 0.015}, Label: s.Label()},
			Material:  Material{Color: ParseColor(s.Color()), Emissive: 0.2},
			Placement: at(-StatBarWidth/2+width/2, 0.15-0.15*float64(i), 0),
		})
	}
	return group
}

func selectionRing() *Node {
	ring := &Node{
		Name:      "selection",
		Shape:     Shape{Kind: ShapeTorus, Size: Vec3{1.5, 0.08, 0}},
		Material:  Material{Color: gold, Emissive: 1, Metalness: 0.9, Roughness: 0.1},
		Placement: at(0, -2.4, 0),
	}
	const particles = 8
	for i := 0; i < particles; i++ {
		p := PositionOnCircle(i, particles, 1.6)
		ring.Add(&Node{
			Name:      "particle",
			Shape:     Shape{Kind: ShapeSphere, Size: Vec3{0.05, 0.05, 0.05}},
			Material:  Material{Color: gold, Emissive: 1.5},
			Placement: at(p.X, 0, p.Z),
		})
	}
	return ring
}

// Placed is a node with its placement resolved to world space.
type Placed struct {
	Node     *Node
	Position Vec3
	Scale    float64
	Yaw      float64 // accumulated rotation about Y
}

// Flatten resolves every node under root to world space, depth first.
// A zero Scale is treated as 1.
func Flatten(root *Node) []Placed {
	f := &flattener{}
	Walk(root, f)
	return f.out
}

type flattener struct {
	stack []Placed
	out   []Placed
}

func (f *flattener) Enter(n *Node, _ int) bool {
	parent := Placed{Scale: 1}
	if len(f.stack) > 0 {
		parent = f.stack[len(f.stack)-1]
	}
	scale := n.Placement.Scale
	if scale == 0 {
		scale = 1
	}
	local := RotateY(n.Placement.Position.Scale(parent.Scale), parent.Yaw)
	p := Placed{
		Node:     n,
		Position: parent.Position.Add(local),
		Scale:    parent.Scale * scale,
		Yaw:      parent.Yaw + n.Placement.Rotation.Y,
	}
	f.stack = append(f.stack, p)
	f.out = append(f.out, p)
	return true
}

func (f *flattener) Leave(*Node, int) {
	f.stack = f.stack[:len(f.stack)-1]
}
