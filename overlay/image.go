package overlay

import "github.com/wudi/pdfview/coords"

// ImageObject is a raster image element overlaid on a page. The source
// dimensions are in pixels; Scale converts them to page units.
type ImageObject struct {
	base

	sourceW int
	sourceH int
	scale   float64
}

// NewImageObject creates an image object with the given source
// dimensions, displayed at scale 1.
func NewImageObject(page int, pos coords.Point, sourceW, sourceH int) *ImageObject {
	img := &ImageObject{sourceW: sourceW, sourceH: sourceH, scale: 1}
	img.page = page
	img.pos = pos
	return img
}

func (i *ImageObject) Kind() Kind { return KindImage }

func (i *ImageObject) SourceSize() (w, h int) { return i.sourceW, i.sourceH }

func (i *ImageObject) Scale() float64 { return i.scale }

// SetScale sets the display scale. Non-positive values are ignored.
func (i *ImageObject) SetScale(scale float64) {
	if scale > 0 {
		i.scale = scale
	}
}

func (i *ImageObject) Bounds() coords.Rect {
	return coords.Rect{
		Llx: i.pos.X,
		Lly: i.pos.Y,
		Urx: i.pos.X + float64(i.sourceW)*i.scale,
		Ury: i.pos.Y + float64(i.sourceH)*i.scale,
	}
}

func (i *ImageObject) Contains(p coords.Point) bool { return i.Bounds().Contains(p) }

func (i *ImageObject) Encode() State {
	s := State{
		"type":     string(KindImage),
		"source_w": i.sourceW,
		"source_h": i.sourceH,
		"scale":    i.scale,
	}
	i.encodeInto(s)
	return s
}

func (i *ImageObject) Decode(s State) error {
	if err := i.decodeFrom(s); err != nil {
		return err
	}
	w, err := intValue(s, "source_w")
	if err != nil {
		return err
	}
	h, err := intValue(s, "source_h")
	if err != nil {
		return err
	}
	i.sourceW, i.sourceH = w, h
	i.scale = 1
	if scale, err := floatValue(s, "scale"); err == nil {
		i.SetScale(scale)
	}
	return nil
}
