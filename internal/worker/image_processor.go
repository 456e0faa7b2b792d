package worker

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"

	"github.com/disintegration/imaging"
)

// ThumbnailWidths are generated for every uploaded image, widest first.
var ThumbnailWidths = []int{500, 250, 100}

// ImageProcessor derives resized variants from original image bytes.
type ImageProcessor struct {
	blobs BlobStore
}

func NewImageProcessor(blobs BlobStore) *ImageProcessor {
	return &ImageProcessor{blobs: blobs}
}

// Generate reads the original at localPath and writes one variant per
// width at <localPath>_<width>. Output bytes are deterministic for a given
// input, so re-running overwrites variants with identical content.
func (ip *ImageProcessor) Generate(localPath string) error {
	data, err := ip.blobs.Read(localPath)
	if err != nil {
		return fmt.Errorf("read original: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	for _, width := range ThumbnailWidths {
		// Height 0 keeps the aspect ratio.
		thumb := imaging.Resize(img, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumb, encodeFormat(format)); err != nil {
			return fmt.Errorf("encode %d: %w", width, err)
		}

		path := localPath + "_" + strconv.Itoa(width)
		if err := ip.blobs.Write(path, buf.Bytes()); err != nil {
			return fmt.Errorf("write %d: %w", width, err)
		}
	}

	return nil
}

// encodeFormat keeps the variant in the source encoding where imaging
// supports it, falling back to PNG.
func encodeFormat(decoded string) imaging.Format {
	switch decoded {
	case "jpeg":
		return imaging.JPEG
	case "gif":
		return imaging.GIF
	case "bmp":
		return imaging.BMP
	case "tiff":
		return imaging.TIFF
	default:
		return imaging.PNG
	}
}
