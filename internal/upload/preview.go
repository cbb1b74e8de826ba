package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	// Registers the GIF decoder for image.Decode.
	_ "image/gif"

	"github.com/nfnt/resize"
)

// DataURI encodes data as an inline data URI of the given MIME type.
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// renderPreview builds the data URI shown for a selected image. When maxDim is
// positive and the image decodes, it is scaled down to fit a maxDim square.
func renderPreview(ctx context.Context, contentType string, data []byte, maxDim uint) (string, error) {
	if maxDim == 0 {
		return DataURI(contentType, data), nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Formats without a registered decoder are previewed as-is.
		return DataURI(contentType, data), nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) <= maxDim && uint(bounds.Dy()) <= maxDim {
		return DataURI(contentType, data), nil
	}

	thumb := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	switch format {
	case "png", "gif":
		err = png.Encode(&buf, thumb)
		contentType = "image/png"
	default:
		err = jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85})
		contentType = "image/jpeg"
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return DataURI(contentType, buf.Bytes()), nil
}
