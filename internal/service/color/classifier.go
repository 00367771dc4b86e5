package color

import (
	"image"
	imgcolor "image/color"
	"math"
	"sort"

	"golang.org/x/image/draw"
)

const (
	// sampleSize bounds the longest side of the image that is voted on.
	sampleSize = 150
	// minAlpha is the lowest alpha, in 0-255, of a pixel that counts as garment.
	minAlpha = 200
	// runnerUpShare is the vote share above which a colorful runner-up
	// overrides a dark neutral winner.
	runnerUpShare = 0.20
)

// Classify returns the dominant palette color of img. Pixels that are mostly
// transparent are ignored; an image with no opaque pixels is Unknown.
func Classify(img image.Image) Label {
	sample := downsample(img)
	b := sample.Bounds()

	counts := make(map[Label]int)
	var order []Label
	total := 0

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := sample.NRGBAAt(x, y)
			if c.A < minAlpha {
				continue
			}
			h, s, v := toHSV(c)
			label := FromHSV(h, s, v)
			if counts[label] == 0 {
				order = append(order, label)
			}
			counts[label]++
			total++
		}
	}

	if total == 0 {
		return Unknown
	}

	// Stable sort keeps first-seen order among equal counts.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	winner := order[0]
	if winner.isDark() && len(order) > 1 {
		second := order[1]
		if float64(counts[second]) > float64(total)*runnerUpShare && !second.isDark() && second != White {
			return second
		}
	}
	return winner
}

// FromHSV maps one pixel to a palette label. h is in degrees [0,360],
// s and v are percentages [0,100]. Rules are checked in order.
func FromHSV(h, s, v float64) Label {
	switch {
	case v < 15:
		return Black
	case v > 90 && s < 10:
		return White
	case s < 15:
		if v < 40 {
			return Anthracite
		}
		return Gray
	case h < 15 || h >= 345:
		return Red
	case h < 40:
		if v < 60 {
			return Brown
		}
		return Orange
	case h < 70:
		if s < 50 {
			return Beige
		}
		return Yellow
	case h < 160:
		if s < 40 {
			return Khaki
		}
		return Green
	case h < 190:
		return Turquoise
	case h < 250:
		if v < 35 {
			return Navy
		}
		return Blue
	case h < 290:
		return Purple
	case h < 345:
		return Pink
	}
	return Unknown
}

// downsample returns img as NRGBA, shrunk so neither side exceeds sampleSize.
// Aspect ratio is kept and small images are never enlarged.
func downsample(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > sampleSize || h > sampleSize {
		if w >= h {
			h = max(1, h*sampleSize/w)
			w = sampleSize
		} else {
			w = max(1, w*sampleSize/h)
			h = sampleSize
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// toHSV converts a non-premultiplied pixel to hue degrees and
// saturation/value percentages.
func toHSV(c imgcolor.NRGBA) (h, s, v float64) {
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	bl := float64(c.B) / 255

	maxc := math.Max(r, math.Max(g, bl))
	minc := math.Min(r, math.Min(g, bl))
	v = maxc * 100
	if maxc == minc {
		return 0, 0, v
	}

	delta := maxc - minc
	s = delta / maxc * 100

	var hue float64
	switch maxc {
	case r:
		hue = math.Mod((g-bl)/delta, 6)
	case g:
		hue = (bl-r)/delta + 2
	default:
		hue = (r-g)/delta + 4
	}
	h = hue * 60
	if h < 0 {
		h += 360
	}
	return h, s, v
}
