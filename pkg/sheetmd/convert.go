package sheetmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/markdown"
	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/models"
	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/parser"
)

// Convert converts a single input file into Markdown documents and
// extracted images under <outputRoot>/<basename>/. One Markdown file is
// written per sheet; a CSV input produces a single document named after
// the file. The returned result lists every artifact written plus any
// non-fatal warnings. A failure opening or reading the input is fatal
// for that file and returned as a ConvertError.
func Convert(inputPath, outputRoot string, opts Options) (*models.FileResult, error) {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	sheets, warnings, err := readInput(inputPath, base, opts)
	if err != nil {
		return nil, err
	}

	for i := range sheets {
		if n := sheets[i].Table.Normalize(); n > 0 {
			warnings = append(warnings, models.Warning{
				Sheet:   sheets[i].Name,
				Stage:   "table",
				Message: fmt.Sprintf("%d rows truncated to header width", n),
			})
		}
	}

	outDir := filepath.Join(outputRoot, models.SafeName(base))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, NewConvertError(inputPath, "write", fmt.Errorf("%w: %v", ErrIOFailure, err))
	}

	result := &models.FileResult{Input: inputPath, Warnings: warnings}
	singleCSV := DetectKind(inputPath) == KindCSV

	for _, sheet := range sheets {
		doc := markdown.Generate(sheet.Name, sheet.Table, sheet.Images)

		mdName := base + "_" + models.SafeName(sheet.Name) + ".md"
		if singleCSV {
			mdName = base + ".md"
		}
		artifact, err := writeArtifact(outDir, outputRoot, mdName, []byte(doc), models.ArtifactMarkdown)
		if err != nil {
			return nil, NewConvertError(inputPath, "write", err)
		}
		result.Artifacts = append(result.Artifacts, artifact)

		for _, img := range sheet.Images {
			artifact, err := writeArtifact(outDir, outputRoot, img.FileName(), img.Data, models.ArtifactImage)
			if err != nil {
				return nil, NewConvertError(inputPath, "write", err)
			}
			result.Artifacts = append(result.Artifacts, artifact)
		}
	}

	return result, nil
}

// readInput dispatches on the resolved input kind and returns the
// sheets to render plus any warnings recorded while reading.
func readInput(inputPath, base string, opts Options) ([]models.Sheet, []models.Warning, error) {
	switch kind := DetectKind(inputPath); kind {
	case KindCSV:
		table, err := parser.ReadCSV(inputPath, opts.Encoding)
		if err != nil {
			return nil, nil, NewConvertError(inputPath, "table", err)
		}
		return []models.Sheet{{Name: base, Table: table}}, nil, nil

	case KindXlsxWorkbook:
		sheets, warnings, err := parser.ReadXLSX(inputPath)
		if err != nil {
			return nil, nil, NewConvertError(inputPath, "table", err)
		}

		images, warns, err := parser.ExtractImages(inputPath)
		if err != nil {
			// Tables were readable, so image trouble downgrades to a
			// partial result for the file.
			warnings = append(warnings, models.Warning{
				Stage:   "images",
				Message: fmt.Sprintf("image extraction failed: %v", err),
			})
		} else {
			warnings = append(warnings, warns...)
			for i := range sheets {
				sheets[i].Images = images[sheets[i].Name]
			}
		}
		return sheets, warnings, nil

	case KindXlsLegacyWorkbook:
		sheets, err := parser.ReadXLS(inputPath)
		if err != nil {
			return nil, nil, NewConvertError(inputPath, "table", err)
		}
		return sheets, nil, nil

	default:
		return nil, nil, NewConvertError(inputPath, "open",
			fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, filepath.Ext(inputPath)))
	}
}

// writeArtifact writes one output file and describes it relative to the
// output root.
func writeArtifact(outDir, outputRoot, name string, data []byte, kind models.ArtifactKind) (models.Artifact, error) {
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return models.Artifact{}, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}

	rel, err := filepath.Rel(outputRoot, path)
	if err != nil {
		rel = path
	}
	return models.Artifact{
		Path: filepath.ToSlash(rel),
		Size: humanize.Bytes(uint64(len(data))),
		Kind: kind,
	}, nil
}

// ConvertBatch converts every input independently. One file's failure is
// captured as a ConversionError and never aborts the remaining files;
// the result is the union of all artifacts, warnings, and errors.
func ConvertBatch(inputs []string, outputRoot string, opts Options) models.BatchResult {
	var batch models.BatchResult
	for _, input := range inputs {
		res, err := Convert(input, outputRoot, opts)
		if err != nil {
			batch.Errors = append(batch.Errors, models.ConversionError{
				Input:   input,
				Message: err.Error(),
			})
			continue
		}
		batch.Artifacts = append(batch.Artifacts, res.Artifacts...)
		batch.Warnings = append(batch.Warnings, res.Warnings...)
	}
	return batch
}
