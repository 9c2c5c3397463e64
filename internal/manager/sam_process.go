package manager

import (
	"image"

	"github.com/up-zero/gotool/imageutil"

	"segd/pkg/types"
)

// ImageNet mean/std per channel.
const (
	meanR = 0.485
	meanG = 0.456
	meanB = 0.406

	stdR = 0.229
	stdG = 0.224
	stdB = 0.225
)

const (
	// samInputSize is the long side of the encoder input.
	samInputSize = 1024
	// samLowResSize is the side of the decoder's mask logit planes.
	samLowResSize = 256
	// samMaskThreshold separates mask from background logits.
	samMaskThreshold = 0.0
)

// imageFrame records how an image was fitted into the encoder input.
type imageFrame struct {
	origW, origH int
	newW, newH   int
	scale        float32
}

func newImageFrame(b image.Rectangle, size int) imageFrame {
	origW, origH := b.Dx(), b.Dy()
	scale := float32(size) / float32(max(origW, origH))
	return imageFrame{
		origW: origW,
		origH: origH,
		newW:  max(1, int(float32(origW)*scale)),
		newH:  max(1, int(float32(origH)*scale)),
		scale: scale,
	}
}

// preprocess resizes img so its long side is size and returns the CHW tensor
// data (size x size, zero padded) with the frame used.
func preprocess(img image.Image, size int) ([]float32, imageFrame) {
	f := newImageFrame(img.Bounds(), size)
	resized := imageutil.Resize(img, f.newW, f.newH)
	return normalizeAndPad(resized, size, size), f
}

// normalizeAndPad converts src to normalized planar RGB of targetW x targetH.
// Pixels outside src stay zero.
func normalizeAndPad(src image.Image, targetW, targetH int) []float32 {
	bounds := src.Bounds()
	w, h := min(bounds.Dx(), targetW), min(bounds.Dy(), targetH)
	plane := targetW * targetH
	data := make([]float32, 3*plane)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := y*targetW + x
			data[idx] = (float32(r)/65535.0 - meanR) / stdR
			data[plane+idx] = (float32(g)/65535.0 - meanG) / stdG
			data[2*plane+idx] = (float32(b)/65535.0 - meanB) / stdB
		}
	}
	return data
}

// scalePoints maps image-space points into encoder input space as flat x,y pairs.
func scalePoints(points []types.Point, scale float32) []float32 {
	out := make([]float32, 0, 2*len(points))
	for _, p := range points {
		out = append(out, float32(p.X)*scale, float32(p.Y)*scale)
	}
	return out
}

// upscaleMask crops the valid validW x validH region of a dim x dim logit
// plane, resizes it nearest-neighbour to dstW x dstH and thresholds it.
func upscaleMask(logits []float32, dim, validW, validH, dstW, dstH int) Mask {
	validW = min(max(validW, 1), dim)
	validH = min(max(validH, 1), dim)
	out := make([]bool, dstW*dstH)
	xRatio := float32(validW) / float32(dstW)
	yRatio := float32(validH) / float32(dstH)
	for y := 0; y < dstH; y++ {
		srcY := min(int(float32(y)*yRatio), validH-1)
		for x := 0; x < dstW; x++ {
			srcX := min(int(float32(x)*xRatio), validW-1)
			out[y*dstW+x] = logits[srcY*dim+srcX] > samMaskThreshold
		}
	}
	return Mask{Width: dstW, Height: dstH, Data: out}
}

// bestIndex returns the index of the highest score.
func bestIndex(scores []float32) int {
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return best
}
