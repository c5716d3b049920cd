// Package catalog is the static table of collectible items shown on tile faces
// and the rarity tier to gradient mapping used to paint them.
package catalog

import (
	"fmt"
	"image/color"
)

// Rarity is an item's classification tier
type Rarity string

const (
	Consumer   Rarity = "consumer"
	Industrial Rarity = "industrial"
	MilSpec    Rarity = "mil-spec"
	Restricted Rarity = "restricted"
	Classified Rarity = "classified"
	Covert     Rarity = "covert"
	Contraband Rarity = "contraband"
)

// LogoPath is the face-down placeholder image
const LogoPath = "/img/cs2logo.png"

// Item is one collectible; two tiles per game carry the same Item
type Item struct {
	ID         int    `json:"id"`
	WeaponName string `json:"weaponName"`
	SkinName   string `json:"skinName"`
	Rarity     Rarity `json:"rarity"`
	Image      string `json:"image"`
}

// Gradient is the two-stop face fill for a rarity tier
type Gradient struct {
	From color.RGBA
	To   color.RGBA
}

// ImagePath returns the asset path convention for an item id
func ImagePath(id int) string {
	return fmt.Sprintf("/img/skins/%d.png", id)
}

func hex(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

var gradients = map[Rarity]Gradient{
	Consumer:   {From: hex(0xb0c3d9), To: hex(0x8da5c2)},
	Industrial: {From: hex(0x5e98d9), To: hex(0x4b7bba)},
	MilSpec:    {From: hex(0x4b69ff), To: hex(0x8847ff)},
	Restricted: {From: hex(0x8847ff), To: hex(0xd32ce6)},
	Classified: {From: hex(0xd32ce6), To: hex(0xeb4b4b)},
	Covert:     {From: hex(0xeb4b4b), To: hex(0xe4ae39)},
	Contraband: {From: hex(0xe4ae39), To: hex(0xffd700)},
}

// GradientFor maps a rarity to its gradient; unknown tiers get the consumer one
func GradientFor(r Rarity) Gradient {
	if g, ok := gradients[r]; ok {
		return g
	}
	return gradients[Consumer]
}

// Catalog is an ordered, read-only item list with id lookup
type Catalog struct {
	items []Item
	byID  map[int]int
}

// New builds a catalog; later duplicates of an id are ignored by Lookup
func New(items []Item) *Catalog {
	c := &Catalog{
		items: append([]Item(nil), items...),
		byID:  make(map[int]int, len(items)),
	}
	for i, it := range c.items {
		if _, dup := c.byID[it.ID]; !dup {
			c.byID[it.ID] = i
		}
	}
	return c
}

// Items returns a copy of the ordered item list
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Len is the item count
func (c *Catalog) Len() int { return len(c.items) }

// Lookup resolves an item id
func (c *Catalog) Lookup(id int) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

func item(id int, weapon, skin string, r Rarity) Item {
	return Item{ID: id, WeaponName: weapon, SkinName: skin, Rarity: r, Image: ImagePath(id)}
}

// Default returns the shipped item table
func Default() *Catalog {
	return New([]Item{
		item(1, "AK-47", "Redline", Classified),
		item(2, "AWP", "Dragon Lore", Covert),
		item(3, "M4A4", "Howl", Contraband),
		item(4, "Glock-18", "Fade", Restricted),
		item(5, "USP-S", "Kill Confirmed", Covert),
		item(6, "AK-47", "Fire Serpent", Covert),
		item(7, "M4A1-S", "Hyper Beast", Covert),
		item(8, "AWP", "Asiimov", Covert),
		item(9, "Desert Eagle", "Blaze", Restricted),
		item(10, "P90", "Asiimov", Classified),
		item(11, "MAC-10", "Neon Rider", Restricted),
		item(12, "Galil AR", "Eco", MilSpec),
		item(13, "FAMAS", "Djinn", Restricted),
		item(14, "UMP-45", "Primal Saber", Classified),
		item(15, "P250", "Asiimov", Industrial),
		item(16, "Tec-9", "Fuel Injector", Classified),
		item(17, "Five-SeveN", "Monkey Business", Restricted),
		item(18, "CZ75-Auto", "Victoria", Classified),
		item(19, "Negev", "Loudmouth", MilSpec),
		item(20, "Nova", "Antique", Consumer),
	})
}
