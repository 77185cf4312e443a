package lensblur

import (
	"math"
	"unicode"
	"unicode/utf8"
)

// PlacedGlyph is one laid-out glyph quad in font-unit text-local space
// (origin at the top-left of the line cell, Y down). UV is the glyph's atlas
// rect normalized to [0,1]².
type PlacedGlyph struct {
	Pos  Vec2
	Size Vec2
	UV   Rect
}

// TextLayout is the result of laying out one line of text.
type TextLayout struct {
	// Glyphs holds the emitted quads in input-text order, capped at MaxGlyphs.
	Glyphs []PlacedGlyph
	// Width is the total cursor advance in font units, including advances of
	// blank characters and of glyphs dropped past the capacity.
	Width float64
	// Bounds is the tight bounding box of the emitted glyphs in font units.
	// Zero when no glyphs were emitted.
	Bounds Rect
	// Truncated reports that the text produced more than MaxGlyphs quads;
	// the excess quads were dropped.
	Truncated bool
}

// Layout places the runes of text left to right using the font's character
// and kerning tables. It is a pure function: identical inputs always produce
// identical results.
//
// Runes with no CharDef are skipped entirely: they emit no quad and do not
// move the cursor, so the surrounding glyphs land exactly where they would if
// the rune were deleted from the string. Blank characters (spaces, or chars
// with a zero-area atlas rect) advance the cursor but emit no quad. A missing
// kerning pair means zero adjustment.
func Layout(text string, font *FontMetrics) *TextLayout {
	l := &TextLayout{}

	var cursor float64
	var prev rune
	var hasPrev bool

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size

		c := font.Char(r)
		if c == nil {
			continue
		}

		if hasPrev {
			cursor += font.Kern(prev, r)
		}

		blank := unicode.IsSpace(r) || c.Width <= 0 || c.Height <= 0
		if !blank {
			if len(l.Glyphs) < MaxGlyphs {
				g := PlacedGlyph{
					Pos:  Vec2{X: cursor + c.XOffset, Y: c.YOffset},
					Size: Vec2{X: c.Width, Y: c.Height},
					UV: Rect{
						X:      c.X / font.AtlasWidth,
						Y:      c.Y / font.AtlasHeight,
						Width:  c.Width / font.AtlasWidth,
						Height: c.Height / font.AtlasHeight,
					},
				}
				l.Glyphs = append(l.Glyphs, g)

				minX = math.Min(minX, g.Pos.X)
				minY = math.Min(minY, g.Pos.Y)
				maxX = math.Max(maxX, g.Pos.X+g.Size.X)
				maxY = math.Max(maxY, g.Pos.Y+g.Size.Y)
			} else {
				l.Truncated = true
			}
		}

		cursor += c.XAdvance
		prev = r
		hasPrev = true
	}

	l.Width = cursor
	if len(l.Glyphs) > 0 {
		l.Bounds = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}
	return l
}
