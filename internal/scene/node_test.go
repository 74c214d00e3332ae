package scene

import (
	"math"
	"testing"

	"github.com/abelbrown/pokedeck/internal/catalog"
)

func sampleDetail() *catalog.Detail {
	return &catalog.Detail{
		ID:     1,
		Name:   "bulbasaur",
		Height: 7,
		Weight: 69,
		Types:  []catalog.TypeSlot{{Slot: 1, Name: "grass"}, {Slot: 2, Name: "poison"}},
		Stats: []catalog.Stat{
			{Name: "hp", Base: 45}, {Name: "attack", Base: 49}, {Name: "defense", Base: 49},
			{Name: "special-attack", Base: 65}, {Name: "special-defense", Base: 65}, {Name: "speed", Base: 90},
		},
	}
}

type countingVisitor struct {
	entered, left int
	maxDepth      int
	names         []string
}

func (v *countingVisitor) Enter(n *Node, depth int) bool {
	v.entered++
	v.maxDepth = max(v.maxDepth, depth)
	v.names = append(v.names, n.Name)
	return true
}

func (v *countingVisitor) Leave(*Node, int) { v.left++ }

func TestBuildCardWithDetail(t *testing.T) {
	card := BuildCard(CardSpec{
		Item:      catalog.SummaryItem{ID: 1, Name: "bulbasaur"},
		Detail:    sampleDetail(),
		Base:      Vec3{X: 5},
		Transform: Transform{Scale: 1.1, Y: 0.2, Rotation: 0.7},
		Sprite:    "https://sprites.example/1.png",
		Selected:  true,
	})

	if card.Placement.Position != (Vec3{X: 5, Y: 0.2}) || card.Placement.Scale != 1.1 {
		t.Errorf("card placement = %+v", card.Placement)
	}
	if card.Placement.Rotation.Y != 0.7 {
		t.Errorf("rotation = %v", card.Placement.Rotation)
	}

	for _, name := range []string{"body", "sprite", "type:grass", "type:poison", "height", "weight", "emblem:grass", "selection"} {
		if Find(card, name) == nil {
			t.Errorf("missing node %q", name)
		}
	}

	if got := Find(card, "name").Shape.Label; got != "Bulbasaur" {
		t.Errorf("name label = %q", got)
	}
	if got := Find(card, "dex").Shape.Label; got != "#001" {
		t.Errorf("dex label = %q", got)
	}
	if got := Find(card, "height").Shape.Label; got != "0.7 m" {
		t.Errorf("height label = %q", got)
	}
	if got := Find(card, "body").Material.Emissive; got != 0.5 {
		t.Errorf("selected body emissive = %v, want 0.5", got)
	}
	if got := Find(card, "body").Material.Color.Hex(); got != "#78c850" {
		t.Errorf("body color = %s, want grass", got)
	}

	speed := Find(card, "stat:SPD")
	if speed == nil {
		t.Fatal("missing speed bar")
	}
	if !near(speed.Shape.Size.X, StatBarWidth*0.5) {
		t.Errorf("speed bar width = %v, want half", speed.Shape.Size.X)
	}
}

func TestBuildCardWithoutDetail(t *testing.T) {
	card := BuildCard(CardSpec{Item: catalog.SummaryItem{ID: 4, Name: "charmander"}})

	if Find(card, "stats") != nil || Find(card, "sprite") != nil || Find(card, "selection") != nil {
		t.Error("card without detail should only have chrome")
	}
	if got := Find(card, "body").Material.Color.Hex(); got != "#a8a878" {
		t.Errorf("fallback color = %s", got)
	}
}

func TestWalkVisitsEveryNode(t *testing.T) {
	root := (&Node{Name: "root"}).Add(
		(&Node{Name: "a"}).Add(&Node{Name: "a1"}),
		&Node{Name: "b"},
	)
	v := &countingVisitor{}
	Walk(root, v)

	if v.entered != 4 || v.left != 4 {
		t.Errorf("entered=%d left=%d, want 4/4", v.entered, v.left)
	}
	if v.maxDepth != 2 {
		t.Errorf("maxDepth=%d", v.maxDepth)
	}
	want := []string{"root", "a", "a1", "b"}
	for i, n := range want {
		if v.names[i] != n {
			t.Errorf("order[%d]=%s, want %s", i, v.names[i], n)
		}
	}
}

func TestEmblem(t *testing.T) {
	e := BuildEmblem("fire")
	if e.Shape.Kind != ShapeCone || e.Shape.Label != "▲" {
		t.Errorf("fire emblem = %+v", e.Shape)
	}
	if unknown := BuildEmblem("shadow"); unknown.Shape.Kind != ShapeSphere || unknown.Shape.Label != "●" {
		t.Errorf("unknown emblem = %+v", unknown.Shape)
	}
}

func TestParseColorFallback(t *testing.T) {
	if got := ParseColor("nope").Hex(); got != "#808080" {
		t.Errorf("ParseColor fallback = %s", got)
	}
}

func TestFlattenComposesPlacements(t *testing.T) {
	child := &Node{Name: "child", Placement: at(1, 0, 0)}
	root := (&Node{
		Name:      "root",
		Placement: Placement{Position: Vec3{X: 10}, Rotation: Vec3{Y: math.Pi / 2}, Scale: 2},
	}).Add(child)

	placed := Flatten(root)
	if len(placed) != 2 {
		t.Fatalf("len = %d", len(placed))
	}
	c := placed[1]
	if c.Node != child {
		t.Fatal("order")
	}
	// (1,0,0) scaled by 2 then turned a quarter about Y lands on -Z.
	if !near(c.Position.X, 10) || !near(c.Position.Z, -2) {
		t.Errorf("child at %+v, want (10,0,-2)", c.Position)
	}
	if c.Scale != 2 || !near(c.Yaw, math.Pi/2) {
		t.Errorf("scale=%v yaw=%v", c.Scale, c.Yaw)
	}
}

func TestFlattenSelectionParticlesCircleTheCard(t *testing.T) {
	card := BuildCard(CardSpec{
		Item:      catalog.SummaryItem{ID: 1, Name: "bulbasaur"},
		Detail:    sampleDetail(),
		Base:      Vec3{X: 5},
		Transform: Transform{Scale: 1, Y: 0.5},
		Selected:  true,
	})
	n := 0
	for _, p := range Flatten(card) {
		if p.Node.Name != "particle" {
			continue
		}
		n++
		if !near(p.Position.Y, 0.5-2.4) {
			t.Errorf("particle y = %v", p.Position.Y)
		}
		if r := math.Hypot(p.Position.X-5, p.Position.Z); !near(r, 1.6) {
			t.Errorf("particle radius = %v", r)
		}
	}
	if n != 8 {
		t.Errorf("particles = %d, want 8", n)
	}
}
