package baseline

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
)

// planesFromImage splits img into component planes: one for grey images,
// Y/Cb/Cr otherwise with chroma scaled down by the luma factors.
func planesFromImage(img image.Image, opts *Options) []Input {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if g, ok := img.(*image.Gray); ok {
		p := Plane{Width: w, Height: h, Stride: w, Pix: make([]byte, w*h)}
		for y := 0; y < h; y++ {
			copy(p.Pix[y*w:(y+1)*w], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return []Input{{Plane: p, H: 1, V: 1}}
	}

	ys := Plane{Width: w, Height: h, Stride: w, Pix: make([]byte, w*h)}
	cb := Plane{Width: w, Height: h, Stride: w, Pix: make([]byte, w*h)}
	cr := Plane{Width: w, Height: h, Stride: w, Pix: make([]byte, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var yy, u, v uint8
			switch src := img.(type) {
			case *image.YCbCr:
				c := src.YCbCrAt(b.Min.X+x, b.Min.Y+y)
				yy, u, v = c.Y, c.Cb, c.Cr
			default:
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				yy, u, v = color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			}
			i := y*w + x
			ys.Pix[i], cb.Pix[i], cr.Pix[i] = yy, u, v
		}
	}

	hf, vf := opts.Subsampling.lumaFactors()
	cw, ch := (w+hf-1)/hf, (h+vf-1)/vf
	return []Input{
		{Plane: ys, H: hf, V: vf},
		{Plane: resample(cb, cw, ch, opts.Filter), H: 1, V: 1},
		{Plane: resample(cr, cw, ch, opts.Filter), H: 1, V: 1},
	}
}

// resample scales the visible part of p to w by h.
func resample(p Plane, w, h int, f Filter) Plane {
	if p.Width == w && p.Height == h {
		return p
	}
	src := &image.Gray{Pix: p.Pix, Stride: p.Stride, Rect: image.Rect(0, 0, p.Width, p.Height)}
	dst := asGray(resize.Resize(uint(w), uint(h), src, f.interpolation()))
	return Plane{Width: w, Height: h, Stride: dst.Stride, Pix: dst.Pix}
}

// asGray returns img as a zero-origin *image.Gray, converting if needed.
func asGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Rect, img, b.Min, draw.Src)
	return g
}

// imageFromPlanes assembles decoded planes into *image.Gray or, for three
// components, *image.RGBA with subsampled planes scaled up by f.
func imageFromPlanes(frame *Frame, planes []Plane, f Filter) image.Image {
	w, h := frame.Width, frame.Height
	rect := image.Rect(0, 0, w, h)
	if len(planes) == 1 {
		img := image.NewGray(rect)
		for y := 0; y < h; y++ {
			copy(img.Pix[y*img.Stride:y*img.Stride+w], planes[0].Pix[y*planes[0].Stride:])
		}
		return img
	}

	maxH, maxV := 1, 1
	for _, c := range frame.Components {
		maxH, maxV = max(maxH, c.H), max(maxV, c.V)
	}
	full := make([]Plane, len(planes))
	for i, c := range frame.Components {
		p := planes[i]
		full[i] = resample(p, p.Width*maxH/c.H, p.Height*maxV/c.V, f)
	}

	img := image.NewRGBA(rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yy := full[0].Pix[y*full[0].Stride+x]
			cb := full[1].Pix[y*full[1].Stride+x]
			cr := full[2].Pix[y*full[2].Stride+x]
			r, g, b := color.YCbCrToRGB(yy, cb, cr)
			o := img.PixOffset(x, y)
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = r, g, b, 0xFF
		}
	}
	return img
}
