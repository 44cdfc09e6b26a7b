// Package textshape measures text for overlay bounding boxes. The
// cheap Heuristic needs no font data; FaceMeasurer shapes the text
// through HarfBuzz against a real TTF for exact advances.
package textshape

import (
	"bytes"
	"errors"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/wudi/pdfview/overlay"
)

// ErrNoFontData is returned when a measurer is built without a font.
var ErrNoFontData = errors.New("textshape: no font data")

var (
	_ overlay.Measurer = Heuristic{}
	_ overlay.Measurer = (*FaceMeasurer)(nil)
)

// Heuristic approximates text extent from character count: 0.6 em per
// rune, 1.2 em line height. Good enough for hit boxes when no font is
// available.
type Heuristic struct{}

func (Heuristic) Measure(text string, size float64) (w, h float64) {
	runes := len([]rune(text))
	return float64(runes) * size * 0.6, size * 1.2
}

// FaceMeasurer measures text by shaping it against a parsed font face.
type FaceMeasurer struct {
	face   *gofont.Face
	shaper shaping.HarfbuzzShaper
}

// NewFaceMeasurer parses TTF (or OTF) font data into a measurer.
func NewFaceMeasurer(fontData []byte) (*FaceMeasurer, error) {
	if len(fontData) == 0 {
		return nil, ErrNoFontData
	}
	face, err := gofont.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, err
	}
	return &FaceMeasurer{face: face}, nil
}

// Measure shapes text at the given point size and returns the summed
// advance width and the font's line height. fixed.Int26_6 carries 6
// fraction bits, so 1.0 is 64.
func (m *FaceMeasurer) Measure(text string, size float64) (w, h float64) {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0, size * 1.2
	}

	script := detectScript(runes)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      m.face,
		Size:      fixed.Int26_6(size * 64),
		Script:    script,
		Language:  language.DefaultLanguage(),
	}
	output := m.shaper.Shape(input)

	var advance fixed.Int26_6
	for _, g := range output.Glyphs {
		advance += g.XAdvance
	}
	height := output.LineBounds.Ascent - output.LineBounds.Descent + output.LineBounds.Gap
	return float64(advance) / 64.0, float64(height) / 64.0
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// detectScript picks the dominant script of the text, defaulting to
// Latin.
func detectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	best := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			best = script
		}
	}
	return best
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	case unicode.Is(unicode.Devanagari, r):
		return language.Devanagari
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	}
	return language.Unknown
}
