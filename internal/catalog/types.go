package catalog

// SummaryItem is one entry of a catalog page.
type SummaryItem struct {
	ID   int // 0 when the URL carries no usable id
	Name string
	URL  string
}

// Page is one page of the catalog as returned by the remote source.
// Next and Previous are opaque continuation tokens, empty when absent.
type Page struct {
	Items    []SummaryItem
	Count    int
	Next     string
	Previous string
}

// TypeSlot is one of an entry's elemental types.
type TypeSlot struct {
	Slot int
	Name string
}

// Stat is one base stat. Detail.Stats keeps the remote order.
type Stat struct {
	Name   string
	Base   int
	Effort int
}

// Sprites lists the image URLs the remote detail advertises.
type Sprites struct {
	FrontDefault    string
	FrontShiny      string
	Home            string
	HomeShiny       string
	OfficialArtwork string
	DreamWorld      string
}

// Detail is the fully expanded record for one entry.
type Detail struct {
	ID             int
	Name           string
	Height         int // decimeters
	Weight         int // hectograms
	BaseExperience int
	Types          []TypeSlot
	Stats          []Stat
	Sprites        Sprites
}

// TypeNames returns the type names in slot order.
func (d *Detail) TypeNames() []string {
	if d == nil || len(d.Types) == 0 {
		return nil
	}
	names := make([]string, len(d.Types))
	for i, t := range d.Types {
		names[i] = t.Name
	}
	return names
}

// PrimaryType returns the first type name, or "" when the entry has none.
func (d *Detail) PrimaryType() string {
	if names := d.TypeNames(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// BaseStat returns the base value of stat s.
func (d *Detail) BaseStat(s StatIndex) (int, bool) {
	if d == nil || int(s) < 0 || int(s) >= len(d.Stats) {
		return 0, false
	}
	return d.Stats[s].Base, true
}

// wire shapes

type rawResult struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type rawPage struct {
	Count    int          `json:"count"`
	Next     *string      `json:"next"`
	Previous *string      `json:"previous"`
	Results  *[]rawResult `json:"results"`
}

type rawNamed struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type rawImage struct {
	FrontDefault string `json:"front_default"`
	FrontShiny   string `json:"front_shiny"`
}

type rawDetail struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	BaseExperience int    `json:"base_experience"`
	Types          []struct {
		Slot int      `json:"slot"`
		Type rawNamed `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int      `json:"base_stat"`
		Effort   int      `json:"effort"`
		Stat     rawNamed `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		rawImage
		Other struct {
			Home            rawImage `json:"home"`
			OfficialArtwork rawImage `json:"official-artwork"`
			DreamWorld      rawImage `json:"dream_world"`
		} `json:"other"`
	} `json:"sprites"`
}

func (r rawPage) toPage() Page {
	p := Page{Count: r.Count}
	if r.Next != nil {
		p.Next = *r.Next
	}
	if r.Previous != nil {
		p.Previous = *r.Previous
	}
	p.Items = make([]SummaryItem, 0, len(*r.Results))
	for _, res := range *r.Results {
		id, _ := ExtractID(res.URL)
		p.Items = append(p.Items, SummaryItem{ID: id, Name: res.Name, URL: res.URL})
	}
	return p
}

func (r rawDetail) toDetail() *Detail {
	d := &Detail{
		ID:             r.ID,
		Name:           r.Name,
		Height:         r.Height,
		Weight:         r.Weight,
		BaseExperience: r.BaseExperience,
		Sprites: Sprites{
			FrontDefault:    r.Sprites.FrontDefault,
			FrontShiny:      r.Sprites.FrontShiny,
			Home:            r.Sprites.Other.Home.FrontDefault,
			HomeShiny:       r.Sprites.Other.Home.FrontShiny,
			OfficialArtwork: r.Sprites.Other.OfficialArtwork.FrontDefault,
			DreamWorld:      r.Sprites.Other.DreamWorld.FrontDefault,
		},
	}
	for _, t := range r.Types {
		d.Types = append(d.Types, TypeSlot{Slot: t.Slot, Name: t.Type.Name})
	}
	for _, s := range r.Stats {
		d.Stats = append(d.Stats, Stat{Name: s.Stat.Name, Base: s.BaseStat, Effort: s.Effort})
	}
	return d
}
