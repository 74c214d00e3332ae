package sprite

import "fmt"

// spriteRoot is where the public sprite repository serves raw files.
const spriteRoot = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon"

// Placeholder is shown in place of a sprite that could not be resolved.
const Placeholder = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/items/poke-ball.png"

// Template builds a sprite URL from an entry id.
type Template func(id int) string

// Root returns templates that resolve under root instead of the public
// sprite repository. Used to point the loader at a mirror.
func Root(root string) Templates {
	return Templates{
		Home:            func(id int) string { return fmt.Sprintf("%s/other/home/%d.png", root, id) },
		Shiny:           func(id int) string { return fmt.Sprintf("%s/other/home/shiny/%d.png", root, id) },
		OfficialArtwork: func(id int) string { return fmt.Sprintf("%s/other/official-artwork/%d.png", root, id) },
		DreamWorld:      func(id int) string { return fmt.Sprintf("%s/other/dream-world/%d.svg", root, id) },
	}
}

// Templates groups the known sprite variants.
type Templates struct {
	Home            Template
	Shiny           Template
	OfficialArtwork Template
	DreamWorld      Template
}

// Default is the public sprite repository.
var Default = Root(spriteRoot)

// Home is the 3D-rendered front sprite.
func Home(id int) string { return Default.Home(id) }

// Shiny is the shiny variant of Home.
func Shiny(id int) string { return Default.Shiny(id) }

// OfficialArtwork is the large painted artwork.
func OfficialArtwork(id int) string { return Default.OfficialArtwork(id) }

// DreamWorld is the vector artwork. Terminals cannot decode it, so the
// loader never uses it as a source; it is exposed for link-outs.
func DreamWorld(id int) string { return Default.DreamWorld(id) }
