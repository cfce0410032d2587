package parser

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// testPNG returns a small valid PNG payload.
func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestExtractImages(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "Header")
	if _, err := f.NewSheet("Plain"); err != nil {
		t.Fatalf("failed to add sheet: %v", err)
	}

	pngData := testPNG(t)
	if err := f.AddPictureFromBytes("Sheet1", "C3", &excelize.Picture{
		Extension: ".png",
		File:      pngData,
	}); err != nil {
		t.Fatalf("failed to add picture: %v", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "pics.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("failed to save test file: %v", err)
	}

	images, warnings, err := ExtractImages(tmpFile)
	if err != nil {
		t.Fatalf("ExtractImages failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	got := images["Sheet1"]
	if len(got) != 1 {
		t.Fatalf("expected 1 image on Sheet1, got %d", len(got))
	}
	if got[0].Ordinal != 1 {
		t.Errorf("ordinal = %d, expected 1", got[0].Ordinal)
	}
	if got[0].Format != "png" {
		t.Errorf("format = %q, expected png", got[0].Format)
	}
	// Payload is copied verbatim, never re-encoded.
	if !bytes.Equal(got[0].Data, pngData) {
		t.Error("image payload does not match the embedded bytes")
	}
	if got[0].FileName() != "Sheet1_image_1.png" {
		t.Errorf("filename = %q, expected Sheet1_image_1.png", got[0].FileName())
	}

	if _, ok := images["Plain"]; ok {
		t.Error("sheet without images should have no entry")
	}
}

func TestExtractImagesNoDrawings(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "x")

	tmpFile := filepath.Join(t.TempDir(), "plain.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("failed to save test file: %v", err)
	}

	images, warnings, err := ExtractImages(tmpFile)
	if err != nil {
		t.Fatalf("ExtractImages failed: %v", err)
	}
	if len(images) != 0 || len(warnings) != 0 {
		t.Errorf("expected no images and no warnings, got %v / %v", images, warnings)
	}
}

func TestExtractImagesWarningsFollowWorkbookOrder(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// Workbook order Zed, Alpha deliberately disagrees with name order.
	if err := f.SetSheetName("Sheet1", "Zed"); err != nil {
		t.Fatalf("failed to rename sheet: %v", err)
	}
	if _, err := f.NewSheet("Alpha"); err != nil {
		t.Fatalf("failed to add sheet: %v", err)
	}

	// Non-raster media is skipped with a warning per sheet.
	emf := append([]byte{0x01, 0x00, 0x00, 0x00}, make([]byte, 32)...)
	for _, sheet := range []string{"Zed", "Alpha"} {
		if err := f.AddPictureFromBytes(sheet, "B2", &excelize.Picture{
			Extension: ".emf",
			File:      emf,
		}); err != nil {
			t.Fatalf("failed to add picture to %s: %v", sheet, err)
		}
	}

	tmpFile := filepath.Join(t.TempDir(), "vector.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("failed to save test file: %v", err)
	}

	images, warnings, err := ExtractImages(tmpFile)
	if err != nil {
		t.Fatalf("ExtractImages failed: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("vector-only workbook should yield no images, got %v", images)
	}

	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	if warnings[0].Sheet != "Zed" || warnings[1].Sheet != "Alpha" {
		t.Errorf("warnings out of workbook order: %s, %s", warnings[0].Sheet, warnings[1].Sheet)
	}
}

func TestSniffImageFormat(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), "png"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "jpeg"},
		{"gif", []byte("GIF89a...."), "gif"},
		{"bmp", []byte("BMxxxx"), "bmp"},
		{"tiff le", []byte("II*\x00data"), "tiff"},
		{"tiff be", []byte("MM\x00*data"), "tiff"},
		{"emf is not raster", []byte{0x01, 0x00, 0x00, 0x00}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		if result := sniffImageFormat(tt.data); result != tt.expected {
			t.Errorf("sniffImageFormat(%s) = %q, expected %q", tt.name, result, tt.expected)
		}
	}
}

func TestResolvePartPath(t *testing.T) {
	tests := []struct {
		target   string
		expected string
	}{
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"../media/image1.png", "xl/media/image1.png"},
		{"../drawings/drawing1.xml", "xl/drawings/drawing1.xml"},
		{"/xl/media/image2.png", "xl/media/image2.png"},
	}

	for _, tt := range tests {
		if result := resolvePartPath(tt.target); result != tt.expected {
			t.Errorf("resolvePartPath(%q) = %q, expected %q", tt.target, result, tt.expected)
		}
	}
}

func TestRelsPartPath(t *testing.T) {
	tests := []struct {
		part     string
		expected string
	}{
		{"xl/drawings/drawing1.xml", "xl/drawings/_rels/drawing1.xml.rels"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/_rels/sheet1.xml.rels"},
		{"workbook.xml", "_rels/workbook.xml.rels"},
	}

	for _, tt := range tests {
		if result := relsPartPath(tt.part); result != tt.expected {
			t.Errorf("relsPartPath(%q) = %q, expected %q", tt.part, result, tt.expected)
		}
	}
}
