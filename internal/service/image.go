package service

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/matboka/matboka-backend/internal/types"
)

const (
	// MaxImageBytes is the size ceiling for a stored hero image.
	MaxImageBytes = 1 << 20 // ~1 MB
	// MaxImageEdge is the maximum edge dimension after compression.
	MaxImageEdge = 1600
)

// CropRegion is a rectangle in source pixel space, chosen by the user
// against a fixed 4:3 target aspect.
type CropRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NormalizedImage is the pipeline output: re-encoded, size-bounded,
// ready for the blob store.
type NormalizedImage struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// ImagePipeline turns a user-selected raw image into a normalized
// asset. Crop runs before compress; compressing first would throw away
// resolution the crop still needs.
type ImagePipeline struct{}

// NewImagePipeline creates a new ImagePipeline instance.
func NewImagePipeline() *ImagePipeline { return &ImagePipeline{} }

// Crop re-encodes exactly the given pixel region of the source image.
// The region must lie within the source bounds.
func (p *ImagePipeline) Crop(data []byte, region CropRegion) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &types.ImageProcessingError{Op: "crop", Err: fmt.Errorf("decode source: %w", err)}
	}

	bounds := img.Bounds()
	if region.Width <= 0 || region.Height <= 0 ||
		region.X < bounds.Min.X || region.Y < bounds.Min.Y ||
		region.X+region.Width > bounds.Max.X || region.Y+region.Height > bounds.Max.Y {
		return nil, &types.ImageProcessingError{
			Op:  "crop",
			Err: fmt.Errorf("region %dx%d@%d,%d outside source bounds %dx%d", region.Width, region.Height, region.X, region.Y, bounds.Dx(), bounds.Dy()),
		}
	}

	cropped := imaging.Crop(img, image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height))
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.JPEG, imaging.JPEGQuality(92)); err != nil {
		return nil, &types.ImageProcessingError{Op: "crop", Err: fmt.Errorf("encode: %w", err)}
	}
	return buf.Bytes(), nil
}

// Compress re-encodes an image to the size ceiling and maximum edge
// dimension. Lossy; must run after crop, never before.
func (p *ImagePipeline) Compress(data []byte) (*NormalizedImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &types.ImageProcessingError{Op: "compress", Err: fmt.Errorf("decode: %w", err)}
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxImageEdge || bounds.Dy() > MaxImageEdge {
		img = imaging.Fit(img, MaxImageEdge, MaxImageEdge, imaging.Lanczos)
		bounds = img.Bounds()
	}

	var buf bytes.Buffer
	for quality := 85; ; quality -= 10 {
		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, &types.ImageProcessingError{Op: "compress", Err: fmt.Errorf("encode: %w", err)}
		}
		if buf.Len() <= MaxImageBytes || quality <= 35 {
			break
		}
	}

	return &NormalizedImage{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

// Acquire runs the full pipeline: optional crop, then compress. A nil
// region means the user confirmed the image uncropped.
func (p *ImagePipeline) Acquire(data []byte, region *CropRegion) (*NormalizedImage, error) {
	if region != nil {
		cropped, err := p.Crop(data, *region)
		if err != nil {
			return nil, err
		}
		data = cropped
	}
	return p.Compress(data)
}
