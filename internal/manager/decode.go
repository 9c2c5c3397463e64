package manager

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/up-zero/gotool/imageutil"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"segd/internal/common/fsutil"
)

// FileDecoder reads images from the local filesystem. Any path the process can
// read is accepted; there is no sandboxing.
type FileDecoder struct{}

// Decode sniffs the file's content type and decodes it when it is an image.
func (FileDecoder) Decode(path string) (image.Image, error) {
	if err := fsutil.RegularFile(path); err != nil {
		return nil, err
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("unsupported content type %s", mt.String())
	}
	img, err := imageutil.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mt.String(), err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return img, nil
}
