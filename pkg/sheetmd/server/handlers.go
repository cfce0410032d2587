package server

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/ukaji3/sheetmd-go/pkg/sheetmd"
	"github.com/ukaji3/sheetmd-go/pkg/sheetmd/models"
)

// indexPage is the minimal interactive front end; the API does the work.
const indexPage = `<!DOCTYPE html>
<html>
<head><title>sheetmd</title></head>
<body>
<h1>sheetmd</h1>
<p>Convert Excel/CSV files to Markdown.</p>
<form action="/api/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="files" multiple accept=".csv,.xls,.xlsx">
  <button type="submit">Upload</button>
</form>
<p>POST /api/convert to run conversion, GET /api/files to browse results.</p>
</body>
</html>
`

// uploadedFile describes one accepted upload in the response.
type uploadedFile struct {
	Name string `json:"name"`
	Size string `json:"size"`
	Type string `json:"type"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexPage)
}

// handleUpload accepts one or more files from a multipart form and
// stores them in the upload directory. Unsupported extensions are
// rejected per file without failing the request.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "upload too large or invalid form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}

	var uploaded []uploadedFile
	var errs []string
	for _, header := range files {
		name := sanitizeFilename(header.Filename)
		if name == "" {
			continue
		}
		if !sheetmd.IsSupported(name) {
			errs = append(errs, fmt.Sprintf("%s: unsupported format", name))
			continue
		}

		if err := s.saveUpload(header, name); err != nil {
			slog.Error("upload failed", "file", name, "error", err)
			errs = append(errs, fmt.Sprintf("%s: save failed", name))
			continue
		}

		uploaded = append(uploaded, uploadedFile{
			Name: name,
			Size: humanize.Bytes(uint64(header.Size)),
			Type: sheetmd.DetectKind(name).String(),
		})
		slog.Info("file uploaded", "file", name, "size", header.Size)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"uploaded": uploaded,
		"errors":   errs,
	})
}

func (s *Server) saveUpload(header *multipart.FileHeader, name string) error {
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.ws.UploadDir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// handleConvert runs the batch pipeline over everything in the upload
// directory, replacing previous output.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	inputs, err := sheetmd.CollectInputs(s.ws.UploadDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot read upload directory")
		return
	}
	if len(inputs) == 0 {
		writeError(w, http.StatusBadRequest, "no files to convert")
		return
	}

	if err := clearDir(s.ws.OutputDir); err != nil {
		writeError(w, http.StatusInternalServerError, "cannot clear output directory")
		return
	}

	batch := sheetmd.ConvertBatch(inputs, s.ws.OutputDir, s.opts)
	slog.Info("conversion completed",
		"inputs", len(inputs),
		"artifacts", len(batch.Artifacts),
		"errors", len(batch.Errors),
	)

	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	artifacts, err := s.listArtifacts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot list output files")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": artifacts})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolveOutputPath(chi.URLParam(r, "*"))
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (s *Server) handleDownloadAll(w http.ResponseWriter, r *http.Request) {
	artifacts, err := s.listArtifacts()
	if err != nil || len(artifacts) == 0 {
		writeError(w, http.StatusNotFound, "no files to download")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="converted_files.zip"`)
	if err := writeArchive(w, s.ws.OutputDir); err != nil {
		slog.Error("archive failed", "error", err)
	}
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	path, ok := s.resolveOutputPath(chi.URLParam(r, "*"))
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	if err := os.Remove(path); err != nil {
		writeError(w, http.StatusInternalServerError, "cannot delete file")
		return
	}

	// Prune the containing directory if it emptied out.
	parent := filepath.Dir(path)
	if parent != filepath.Clean(s.ws.OutputDir) {
		if entries, err := os.ReadDir(parent); err == nil && len(entries) == 0 {
			os.Remove(parent)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := clearDir(s.ws.UploadDir); err != nil {
		writeError(w, http.StatusInternalServerError, "cannot clear uploads")
		return
	}
	if err := clearDir(s.ws.OutputDir); err != nil {
		writeError(w, http.StatusInternalServerError, "cannot clear output")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// listArtifacts walks the output directory and describes every file,
// sorted by path.
func (s *Server) listArtifacts() ([]models.Artifact, error) {
	var artifacts []models.Artifact
	err := filepath.WalkDir(s.ws.OutputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.ws.OutputDir, path)
		if err != nil {
			return err
		}

		kind := models.ArtifactImage
		if strings.EqualFold(filepath.Ext(path), ".md") {
			kind = models.ArtifactMarkdown
		}
		artifacts = append(artifacts, models.Artifact{
			Path: filepath.ToSlash(rel),
			Size: humanize.Bytes(uint64(info.Size())),
			Kind: kind,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Path < artifacts[j].Path })
	return artifacts, nil
}

// resolveOutputPath maps a URL wildcard onto a file inside the output
// directory, refusing traversal outside it.
func (s *Server) resolveOutputPath(rel string) (string, bool) {
	rel = filepath.Clean("/" + rel) // collapses any ".." segments
	path := filepath.Join(s.ws.OutputDir, rel)

	root := filepath.Clean(s.ws.OutputDir) + string(filepath.Separator)
	if !strings.HasPrefix(path, root) {
		return "", false
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// clearDir removes every entry inside dir, keeping dir itself.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// sanitizeFilename strips any path components from an uploaded filename
// and makes the rest filesystem-safe, preserving the extension.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return models.SafeName(stem) + strings.ToLower(ext)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
