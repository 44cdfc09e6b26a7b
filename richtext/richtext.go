// Package richtext turns markdown input into styled text blocks the
// overlay layer can place on a page. It covers the subset a text
// annotation editor needs: headings, paragraphs, bold, italic and
// bullet lists.
package richtext

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/wudi/pdfview/coords"
	"github.com/wudi/pdfview/overlay"
)

// DefaultFontSize is the body text size blocks are scaled from.
const DefaultFontSize = 12.0

// Heading size multipliers by level; deeper levels reuse the last.
var headingScale = []float64{2.0, 1.5, 1.25}

// Block is one styled run of text produced from markdown.
type Block struct {
	Text     string
	FontSize float64
	Bold     bool
	Italic   bool
	Bullet   bool
}

// Parse converts markdown source into a flat list of styled blocks.
func Parse(source string) []Block {
	md := goldmark.New()
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))
	return walk(doc, src, nil)
}

func walk(node ast.Node, source []byte, blocks []Block) []Block {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			blocks = append(blocks, headingBlock(n, source))
		case *ast.Paragraph:
			blocks = append(blocks, inlineBlocks(n, source, false)...)
		case *ast.List:
			blocks = walk(n, source, blocks)
		case *ast.ListItem:
			blocks = append(blocks, listItemBlocks(n, source)...)
		}
	}
	return blocks
}

func headingBlock(n *ast.Heading, source []byte) Block {
	scale := headingScale[len(headingScale)-1]
	if n.Level-1 < len(headingScale) {
		scale = headingScale[n.Level-1]
	}
	return Block{
		Text:     string(n.Text(source)),
		FontSize: DefaultFontSize * scale,
		Bold:     true,
	}
}

func listItemBlocks(n *ast.ListItem, source []byte) []Block {
	var blocks []Block
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if p, ok := child.(*ast.Paragraph); ok {
			blocks = append(blocks, inlineBlocks(p, source, true)...)
		} else if _, ok := child.(*ast.TextBlock); ok {
			blocks = append(blocks, inlineBlocks(child, source, true)...)
		}
	}
	return blocks
}

// inlineBlocks flattens a paragraph's inline nodes into styled runs.
// Adjacent runs with the same style are merged.
func inlineBlocks(node ast.Node, source []byte, bullet bool) []Block {
	var blocks []Block
	appendRun := func(text string, bold, italic bool) {
		if text == "" {
			return
		}
		if n := len(blocks); n > 0 && blocks[n-1].Bold == bold && blocks[n-1].Italic == italic {
			blocks[n-1].Text += text
			return
		}
		blocks = append(blocks, Block{
			Text:     text,
			FontSize: DefaultFontSize,
			Bold:     bold,
			Italic:   italic,
		})
	}

	var visit func(n ast.Node, bold, italic bool)
	visit = func(n ast.Node, bold, italic bool) {
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Text:
				run := string(c.Segment.Value(source))
				if c.SoftLineBreak() || c.HardLineBreak() {
					run += " "
				}
				appendRun(run, bold, italic)
			case *ast.Emphasis:
				// Level 1 is *italic*, level 2 is **bold**.
				if c.Level >= 2 {
					visit(c, true, italic)
				} else {
					visit(c, bold, true)
				}
			case *ast.CodeSpan:
				appendRun(string(c.Text(source)), bold, italic)
			default:
				visit(child, bold, italic)
			}
		}
	}
	visit(node, false, false)

	if n := len(blocks); n > 0 {
		blocks[n-1].Text = strings.TrimRight(blocks[n-1].Text, " ")
		if blocks[n-1].Text == "" {
			blocks = blocks[:n-1]
		}
	}
	if bullet && len(blocks) > 0 {
		blocks[0].Bullet = true
	}
	return blocks
}

// LayoutOptions controls how TextObjects positions blocks.
type LayoutOptions struct {
	Page       int
	Origin     coords.Point
	LineGap    float64 // extra spacing between blocks, in points
	BulletChar string  // defaults to "•"
}

// TextObjects places blocks top-down starting at the origin, producing
// overlay text objects ready for insertion into a store.
func TextObjects(blocks []Block, opts LayoutOptions) []*overlay.TextObject {
	bullet := opts.BulletChar
	if bullet == "" {
		bullet = "•"
	}
	objects := make([]*overlay.TextObject, 0, len(blocks))
	y := opts.Origin.Y
	for _, b := range blocks {
		content := b.Text
		if b.Bullet {
			content = bullet + " " + content
		}
		obj := overlay.NewTextObject(opts.Page, coords.Point{X: opts.Origin.X, Y: y}, content)
		obj.SetFontSize(b.FontSize)
		obj.SetBold(b.Bold)
		obj.SetItalic(b.Italic)
		objects = append(objects, obj)
		y -= b.FontSize*1.2 + opts.LineGap
	}
	return objects
}
