package scene

import "github.com/abelbrown/pokedeck/internal/catalog"

// emblemShapes gives each type a characteristic primitive.
var emblemShapes = map[string]ShapeKind{
	"fire":     ShapeCone,
	"water":    ShapeSphere,
	"grass":    ShapeBox,
	"electric": ShapeBox,
	"ice":      ShapeOctahedron,
	"poison":   ShapeSphere,
	"ground":   ShapeCone,
	"rock":     ShapeOctahedron,
	"bug":      ShapeSphere,
	"ghost":    ShapeSphere,
	"dragon":   ShapeCone,
	"psychic":  ShapeTorus,
	"fairy":    ShapeOctahedron,
	"steel":    ShapeTorus,
}

// emblemGlyphs are the single-cell stand-ins text renderers use.
var emblemGlyphs = map[string]string{
	"normal":   "●",
	"fire":     "▲",
	"water":    "◉",
	"electric": "ϟ",
	"grass":    "♣",
	"ice":      "✱",
	"fighting": "✦",
	"poison":   "☠",
	"ground":   "▼",
	"flying":   "➶",
	"psychic":  "◎",
	"bug":      "✲",
	"rock":     "◆",
	"ghost":    "☁",
	"dragon":   "♆",
	"dark":     "☾",
	"steel":    "◈",
	"fairy":    "✿",
}

// EmblemGlyph returns the glyph for a type, or a plain dot.
func EmblemGlyph(typeName string) string {
	if g, ok := emblemGlyphs[typeName]; ok {
		return g
	}
	return emblemGlyphs["normal"]
}

// BuildEmblem describes the decorative emblem for a type.
func BuildEmblem(typeName string) *Node {
	kind, ok := emblemShapes[typeName]
	if !ok {
		kind = ShapeSphere
	}
	c := ParseColor(catalog.TypeColor(typeName))
	return &Node{
		Name:      "emblem:" + typeName,
		Shape:     Shape{Kind: kind, Size: Vec3{0.3, 0.3, 0.3}, Label: EmblemGlyph(typeName)},
		Material:  Material{Color: c, Emissive: 0.4, Metalness: 0.5, Roughness: 0.3},
		Placement: Placement{Scale: 1},
	}
}
