package main

import "unicode"

// maxSeedInput bounds the typed seed id
const maxSeedInput = 64

// seedPrompt is the in-window seed entry line
type seedPrompt struct {
	active bool
	input  []rune
}

func (p *seedPrompt) open(initial string) {
	p.active = true
	p.input = []rune(initial)
}

func (p *seedPrompt) close() {
	p.active = false
}

// insert appends printable characters up to maxSeedInput
func (p *seedPrompt) insert(rs []rune) {
	for _, r := range rs {
		if len(p.input) >= maxSeedInput {
			return
		}
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			p.input = append(p.input, r)
		}
	}
}

func (p *seedPrompt) backspace() {
	if len(p.input) > 0 {
		p.input = p.input[:len(p.input)-1]
	}
}

func (p *seedPrompt) text() string { return string(p.input) }
