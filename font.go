package lensblur

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CharDef describes one glyph in the MSDF atlas. All measurements are in font
// units, which for these atlases coincide with atlas pixels.
type CharDef struct {
	ID       rune
	X, Y     float64 // top-left corner of the glyph's atlas rect
	Width    float64
	Height   float64
	XOffset  float64 // placement offset from the cursor
	YOffset  float64 // placement offset from the top of the line cell
	XAdvance float64 // horizontal cursor advance
}

// FontMetrics holds everything the layout engine and compositor need to know
// about an MSDF glyph atlas: the character table, kerning pairs, atlas
// dimensions, line height, and the distance-field range. Immutable once loaded.
type FontMetrics struct {
	AtlasWidth    float64
	AtlasHeight   float64
	LineHeight    float64
	DistanceRange float64 // font units spanned by the encoded [0,1] distance

	asciiChars [asciiCharCount]CharDef // fixed array for ASCII, zero-alloc lookup
	asciiSet   [asciiCharCount]bool    // which ASCII entries are populated
	extChars   map[rune]*CharDef       // extended Unicode (pointer avoids per-lookup alloc)

	kernings map[[2]rune]float64
}

const asciiCharCount = 128

// Char returns the definition for the given rune, or nil if the font has none.
func (m *FontMetrics) Char(r rune) *CharDef {
	if r >= 0 && r < asciiCharCount {
		if m.asciiSet[r] {
			return &m.asciiChars[r]
		}
		return nil
	}
	if c, ok := m.extChars[r]; ok {
		return c
	}
	return nil
}

// Kern returns the kerning adjustment for the ordered rune pair.
// A missing entry is zero adjustment.
func (m *FontMetrics) Kern(first, second rune) float64 {
	if m.kernings == nil {
		return 0
	}
	return m.kernings[[2]rune{first, second}]
}

func (m *FontMetrics) addChar(c CharDef) {
	if c.ID >= 0 && c.ID < asciiCharCount {
		m.asciiChars[c.ID] = c
		m.asciiSet[c.ID] = true
		return
	}
	if m.extChars == nil {
		m.extChars = make(map[rune]*CharDef)
	}
	// The parameter is already a per-call copy; its address is safe to keep.
	m.extChars[c.ID] = &c
}

func (m *FontMetrics) addKerning(first, second rune, amount float64) {
	if m.kernings == nil {
		m.kernings = make(map[[2]rune]float64)
	}
	m.kernings[[2]rune{first, second}] = amount
}

// LoadFontMetrics parses BMFont .fnt text-format data as produced by
// msdf-bmfont-xml, including the distanceField tag that carries the
// distance-field range. Returns an error if the data is missing the common
// block, the distanceField block, or has no char definitions.
func LoadFontMetrics(fntData []byte) (*FontMetrics, error) {
	m := &FontMetrics{}

	scanner := bufio.NewScanner(bytes.NewReader(fntData))
	var charCount int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tag, rest := splitTag(line)
		fields := parseFields(rest)

		switch tag {
		case "common":
			if v, ok := fields["lineHeight"]; ok {
				m.LineHeight, _ = strconv.ParseFloat(v, 64)
			}
			if v, ok := fields["scaleW"]; ok {
				m.AtlasWidth, _ = strconv.ParseFloat(v, 64)
			}
			if v, ok := fields["scaleH"]; ok {
				m.AtlasHeight, _ = strconv.ParseFloat(v, 64)
			}

		case "distanceField":
			if v, ok := fields["distanceRange"]; ok {
				m.DistanceRange, _ = strconv.ParseFloat(v, 64)
			}

		case "char":
			charCount++
			c := CharDef{}
			if v, ok := fields["id"]; ok {
				id, _ := strconv.Atoi(v)
				c.ID = rune(id)
			}
			c.X = floatField(fields, "x")
			c.Y = floatField(fields, "y")
			c.Width = floatField(fields, "width")
			c.Height = floatField(fields, "height")
			c.XOffset = floatField(fields, "xoffset")
			c.YOffset = floatField(fields, "yoffset")
			c.XAdvance = floatField(fields, "xadvance")
			m.addChar(c)

		case "kerning":
			var first, second rune
			if v, ok := fields["first"]; ok {
				val, _ := strconv.Atoi(v)
				first = rune(val)
			}
			if v, ok := fields["second"]; ok {
				val, _ := strconv.Atoi(v)
				second = rune(val)
			}
			m.addKerning(first, second, floatField(fields, "amount"))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lensblur: error reading .fnt data: %w", err)
	}

	if m.LineHeight == 0 {
		return nil, fmt.Errorf("lensblur: .fnt data missing common lineHeight")
	}
	if m.AtlasWidth == 0 || m.AtlasHeight == 0 {
		return nil, fmt.Errorf("lensblur: .fnt data missing atlas scaleW/scaleH")
	}
	if charCount == 0 {
		return nil, fmt.Errorf("lensblur: .fnt data has no char definitions")
	}
	if m.DistanceRange == 0 {
		return nil, fmt.Errorf("lensblur: .fnt data missing distanceField distanceRange (not an MSDF font?)")
	}

	return m, nil
}

func floatField(fields map[string]string, key string) float64 {
	v, ok := fields[key]
	if !ok {
		return 0
	}
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

// parseFields parses "key=value key=value ..." into a map.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Fields(s) {
		eq := strings.IndexByte(part, '=')
		if eq == -1 {
			continue
		}
		key := part[:eq]
		val := part[eq+1:]
		// Strip quotes from values like face="Arial"
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}

// --- msdf-atlas-gen JSON format ---

type jsonBounds struct {
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
}

type jsonGlyph struct {
	Unicode     int32       `json:"unicode"`
	Advance     float64     `json:"advance"`
	PlaneBounds *jsonBounds `json:"planeBounds"` // glyph quad relative to the baseline, em units, Y-up
	AtlasBounds *jsonBounds `json:"atlasBounds"` // glyph rect in the atlas, pixels
}

type jsonAtlas struct {
	DistanceRange float64 `json:"distanceRange"`
	Size          float64 `json:"size"` // pixels per em
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	YOrigin       string  `json:"yOrigin"` // "bottom" (default) or "top"
}

type jsonMetrics struct {
	EmSize     float64 `json:"emSize"`
	LineHeight float64 `json:"lineHeight"`
	Ascender   float64 `json:"ascender"`
	Descender  float64 `json:"descender"`
}

type jsonKerning struct {
	Unicode1 int32   `json:"unicode1"`
	Unicode2 int32   `json:"unicode2"`
	Advance  float64 `json:"advance"`
}

type jsonFont struct {
	Atlas   jsonAtlas     `json:"atlas"`
	Metrics jsonMetrics   `json:"metrics"`
	Glyphs  []jsonGlyph   `json:"glyphs"`
	Kerning []jsonKerning `json:"kerning"`
}

// LoadFontMetricsJSON parses msdf-atlas-gen JSON metrics. The em-relative
// plane bounds are converted to the same pixel-valued font units the .fnt
// loader produces, with Y measured down from the top of the line cell.
func LoadFontMetricsJSON(jsonData []byte) (*FontMetrics, error) {
	var f jsonFont
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("lensblur: parse font JSON: %w", err)
	}
	if f.Atlas.Width == 0 || f.Atlas.Height == 0 {
		return nil, fmt.Errorf("lensblur: font JSON missing atlas dimensions")
	}
	if f.Atlas.Size == 0 {
		return nil, fmt.Errorf("lensblur: font JSON missing atlas size")
	}
	if len(f.Glyphs) == 0 {
		return nil, fmt.Errorf("lensblur: font JSON has no glyphs")
	}

	// Pixels per em unit. emSize is normally 1.0 in msdf-atlas-gen output.
	px := f.Atlas.Size
	if f.Metrics.EmSize > 0 {
		px = f.Atlas.Size / f.Metrics.EmSize
	}

	m := &FontMetrics{
		AtlasWidth:    f.Atlas.Width,
		AtlasHeight:   f.Atlas.Height,
		LineHeight:    f.Metrics.LineHeight * px,
		DistanceRange: f.Atlas.DistanceRange,
	}
	if m.LineHeight == 0 {
		m.LineHeight = f.Atlas.Size
	}
	if m.DistanceRange == 0 {
		return nil, fmt.Errorf("lensblur: font JSON missing atlas distanceRange")
	}

	ascender := f.Metrics.Ascender * px

	for _, g := range f.Glyphs {
		c := CharDef{
			ID:       rune(g.Unicode),
			XAdvance: g.Advance * px,
		}
		if g.PlaneBounds != nil && g.AtlasBounds != nil {
			c.XOffset = g.PlaneBounds.Left * px
			c.YOffset = ascender - g.PlaneBounds.Top*px
			c.X = g.AtlasBounds.Left
			c.Width = g.AtlasBounds.Right - g.AtlasBounds.Left
			if f.Atlas.YOrigin == "top" {
				c.Y = g.AtlasBounds.Top
				c.Height = g.AtlasBounds.Bottom - g.AtlasBounds.Top
			} else {
				c.Y = f.Atlas.Height - g.AtlasBounds.Top
				c.Height = g.AtlasBounds.Top - g.AtlasBounds.Bottom
			}
		}
		m.addChar(c)
	}

	for _, k := range f.Kerning {
		m.addKerning(rune(k.Unicode1), rune(k.Unicode2), k.Advance*px)
	}

	return m, nil
}
