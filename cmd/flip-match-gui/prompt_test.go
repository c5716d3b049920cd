package main

import (
	"strings"
	"testing"
)

func TestSeedPromptEditing(t *testing.T) {
	var p seedPrompt
	p.open("seed")
	if !p.active {
		t.Fatal("Expected prompt active after open")
	}

	p.insert([]rune("1 \t\x7f"))
	if p.text() != "seed1" {
		t.Errorf("Expected seed1, got %q", p.text())
	}

	p.backspace()
	p.backspace()
	if p.text() != "see" {
		t.Errorf("Expected see, got %q", p.text())
	}

	p.open("")
	p.backspace()
	if p.text() != "" {
		t.Errorf("Expected empty input, got %q", p.text())
	}

	p.insert([]rune(strings.Repeat("x", maxSeedInput+10)))
	if len(p.text()) != maxSeedInput {
		t.Errorf("Expected input capped at %d, got %d", maxSeedInput, len(p.text()))
	}

	p.close()
	if p.active {
		t.Error("Expected prompt closed")
	}
}
