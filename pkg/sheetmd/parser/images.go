package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/models"
)

// ExtractImages walks an xlsx file's drawing and media parts and returns
// the embedded raster images grouped by sheet name. Ordinals start at 1
// per sheet in the order the images are anchored in the drawing part.
// Media with an unrecognized or non-raster format is skipped with a
// recorded warning rather than a failure; image bytes are copied
// verbatim.
func ExtractImages(xlsxPath string) (map[string][]models.ExtractedImage, []models.Warning, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	defer r.Close()

	drawings, err := sheetDrawings(&r.Reader)
	if err != nil {
		return nil, nil, err
	}

	// Sheets are visited in workbook order so warning order matches the
	// rest of the pipeline.
	images := make(map[string][]models.ExtractedImage)
	var warnings []models.Warning
	for _, d := range drawings {
		imgs, warns := extractDrawingImages(&r.Reader, d.drawingPath, d.sheetName)
		if len(imgs) > 0 {
			images[d.sheetName] = imgs
		}
		warnings = append(warnings, warns...)
	}

	return images, warnings, nil
}

// extractDrawingImages reads one drawing part and pulls out the media
// payloads it anchors, in document order.
func extractDrawingImages(r *zip.Reader, drawingPath, sheetName string) ([]models.ExtractedImage, []models.Warning) {
	drawingXML, err := readZipPart(r, drawingPath)
	if err != nil || drawingXML == nil {
		return nil, []models.Warning{{
			Sheet:   sheetName,
			Stage:   "images",
			Message: fmt.Sprintf("drawing part %s unreadable", drawingPath),
		}}
	}

	relIDs := parseDrawingBlips(drawingXML)
	if len(relIDs) == 0 {
		return nil, nil
	}

	relsPath := relsPartPath(drawingPath)
	relsXML, err := readZipPart(r, relsPath)
	if err != nil || relsXML == nil {
		return nil, []models.Warning{{
			Sheet:   sheetName,
			Stage:   "images",
			Message: fmt.Sprintf("drawing relationships %s unreadable", relsPath),
		}}
	}

	targets := make(map[string]string)
	for _, rel := range parseRelationships(relsXML) {
		targets[rel.ID] = rel.Target
	}

	var images []models.ExtractedImage
	var warnings []models.Warning
	ordinal := 0
	for _, relID := range relIDs {
		target, ok := targets[relID]
		if !ok {
			warnings = append(warnings, models.Warning{
				Sheet:   sheetName,
				Stage:   "images",
				Message: fmt.Sprintf("anchored image %s has no relationship target", relID),
			})
			continue
		}

		mediaPath := resolvePartPath(target)
		data, err := readZipPart(r, mediaPath)
		if err != nil || data == nil {
			warnings = append(warnings, models.Warning{
				Sheet:   sheetName,
				Stage:   "images",
				Message: fmt.Sprintf("media part %s unreadable", mediaPath),
			})
			continue
		}

		format := sniffImageFormat(data)
		if format == "" {
			warnings = append(warnings, models.Warning{
				Sheet:   sheetName,
				Stage:   "images",
				Message: fmt.Sprintf("skipping non-raster media %s", mediaPath),
			})
			continue
		}

		ordinal++
		images = append(images, models.ExtractedImage{
			SheetName: sheetName,
			Ordinal:   ordinal,
			Format:    format,
			Data:      data,
		})
	}

	return images, warnings
}

// parseDrawingBlips returns the relationship IDs of every embedded blip
// in the drawing XML, in document order. Anchor order in the part is the
// order images appear on the sheet.
func parseDrawingBlips(data []byte) []string {
	var relIDs []string
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "blip" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "embed" && attr.Value != "" {
				relIDs = append(relIDs, attr.Value)
			}
		}
	}
	return relIDs
}

// sheetDrawing pairs a sheet with its drawing part path.
type sheetDrawing struct {
	sheetName   string
	drawingPath string
}

// sheetDrawings resolves each sheet's drawing part path by chaining
// workbook.xml, the workbook relationships, and each worksheet's
// relationships. Sheets without a drawing are omitted; the result
// preserves workbook sheet order.
func sheetDrawings(r *zip.Reader) ([]sheetDrawing, error) {
	workbookXML, err := readZipPart(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return nil, nil
	}
	sheets := parseWorkbookSheets(workbookXML)
	if len(sheets) == 0 {
		return nil, nil
	}

	wbRelsXML, err := readZipPart(r, "xl/_rels/workbook.xml.rels")
	if err != nil || wbRelsXML == nil {
		return nil, nil
	}

	sheetParts := make(map[string]string) // relationship ID -> worksheet part path
	for _, rel := range parseRelationships(wbRelsXML) {
		if strings.Contains(strings.ToLower(rel.Target), "worksheet") {
			sheetParts[rel.ID] = resolvePartPath(rel.Target)
		}
	}

	var result []sheetDrawing
	for _, sheet := range sheets {
		sheetPath, ok := sheetParts[sheet.relID]
		if !ok {
			continue
		}
		relsXML, err := readZipPart(r, relsPartPath(sheetPath))
		if err != nil || relsXML == nil {
			continue
		}
		for _, rel := range parseRelationships(relsXML) {
			if strings.Contains(strings.ToLower(rel.Type), "/drawing") {
				result = append(result, sheetDrawing{
					sheetName:   sheet.name,
					drawingPath: resolvePartPath(rel.Target),
				})
				break
			}
		}
	}

	return result, nil
}

// workbookSheet is one sheet entry of workbook.xml.
type workbookSheet struct {
	name  string
	relID string
}

// parseWorkbookSheets lists the sheets declared in workbook.xml in
// document order, which is workbook tab order.
func parseWorkbookSheets(data []byte) []workbookSheet {
	var sheets []workbookSheet
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var name, rID string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "name":
				name = attr.Value
			case "id":
				rID = attr.Value
			}
		}
		if name != "" && rID != "" {
			sheets = append(sheets, workbookSheet{name: name, relID: rID})
		}
	}
	return sheets
}

// relationship is one entry of an OPC .rels part.
type relationship struct {
	ID     string
	Type   string
	Target string
}

// parseRelationships reads every Relationship element of a .rels part.
func parseRelationships(data []byte) []relationship {
	var rels []relationship
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var rel relationship
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "Id":
				rel.ID = attr.Value
			case "Type":
				rel.Type = attr.Value
			case "Target":
				rel.Target = attr.Value
			}
		}
		rels = append(rels, rel)
	}
	return rels
}

// relsPartPath returns the .rels part path for a given part, e.g.
// xl/drawings/drawing1.xml -> xl/drawings/_rels/drawing1.xml.rels.
func relsPartPath(partPath string) string {
	idx := strings.LastIndex(partPath, "/")
	if idx < 0 {
		return "_rels/" + partPath + ".rels"
	}
	return partPath[:idx] + "/_rels/" + partPath[idx+1:] + ".rels"
}

// resolvePartPath normalizes a relationship target into a part path
// rooted at the archive. Targets are either absolute ("/xl/...") or
// relative to the xl directory ("worksheets/sheet1.xml",
// "../media/image1.png").
func resolvePartPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	clean := target
	for strings.HasPrefix(clean, "../") {
		clean = strings.TrimPrefix(clean, "../")
	}
	return "xl/" + clean
}

// readZipPart returns the contents of the named archive entry, or nil
// when the entry does not exist.
func readZipPart(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, nil
}

// sniffImageFormat identifies a raster image format from its magic
// bytes. Unknown or vector formats (emf, wmf) return "".
func sniffImageFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return "gif"
	case bytes.HasPrefix(data, []byte("BM")):
		return "bmp"
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")):
		return "tiff"
	default:
		return ""
	}
}
