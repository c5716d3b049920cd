package catalog

import (
	"image/color"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() != 20 {
		t.Fatalf("Expected 20 items, got %d", c.Len())
	}

	it, ok := c.Lookup(2)
	if !ok {
		t.Fatal("Expected item 2 to resolve")
	}
	if it.WeaponName != "AWP" || it.SkinName != "Dragon Lore" || it.Rarity != Covert {
		t.Errorf("Unexpected item 2: %+v", it)
	}
	if it.Image != "/img/skins/2.png" {
		t.Errorf("Expected image path /img/skins/2.png, got %s", it.Image)
	}

	if _, ok := c.Lookup(999); ok {
		t.Error("Expected unknown id to miss")
	}
}

func TestItemsIsCopy(t *testing.T) {
	c := Default()
	items := c.Items()
	items[0].WeaponName = "changed"
	if got, _ := c.Lookup(items[0].ID); got.WeaponName == "changed" {
		t.Error("Expected Items to return a copy")
	}
}

func TestGradientFor(t *testing.T) {
	g := GradientFor(Covert)
	if g.From != (color.RGBA{0xeb, 0x4b, 0x4b, 0xff}) || g.To != (color.RGBA{0xe4, 0xae, 0x39, 0xff}) {
		t.Errorf("Unexpected covert gradient: %+v", g)
	}

	if GradientFor("unknown") != GradientFor(Consumer) {
		t.Error("Expected unknown rarity to fall back to consumer")
	}
}

func TestDuplicateIDFirstWins(t *testing.T) {
	c := New([]Item{
		{ID: 1, WeaponName: "first"},
		{ID: 1, WeaponName: "second"},
	})
	it, _ := c.Lookup(1)
	if it.WeaponName != "first" {
		t.Errorf("Expected first item to win, got %s", it.WeaponName)
	}
}
