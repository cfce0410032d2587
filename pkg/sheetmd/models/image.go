package models

import "fmt"

// ExtractedImage is one embedded raster image pulled out of a workbook,
// associated with the sheet it was anchored to. The payload is copied
// verbatim from the workbook; it is never re-encoded.
type ExtractedImage struct {
	// SheetName is the sheet the image is anchored to.
	SheetName string
	// Ordinal is the 1-based index of the image within its sheet, in
	// anchor order.
	Ordinal int
	// Format is the sniffed image format extension (png, jpeg, gif, ...).
	Format string
	// Data is the raw image payload.
	Data []byte
}

// FileName returns the stable output filename for the image,
// "<SheetName>_image_<ordinal>.<ext>" with the sheet name made
// filesystem-safe.
func (img ExtractedImage) FileName() string {
	return fmt.Sprintf("%s_image_%d.%s", SafeName(img.SheetName), img.Ordinal, img.Format)
}

// AltText returns the Markdown alt text for the image.
func (img ExtractedImage) AltText() string {
	return fmt.Sprintf("Image %d from %s", img.Ordinal, img.SheetName)
}
