package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/shared/id"
)

const zipMIME = "application/zip"

// Archive is a finished export
type Archive struct {
	ID       string
	Filename string
	Data     []byte
	Files    []string
}

// Pipeline validates, builds and packages exports. It holds no per-request state.
type Pipeline struct {
	pageGlob string
	logger   *zap.Logger
	now      func() time.Time
}

// NewPipeline creates a pipeline accepting page paths that match pageGlob.
// An empty pageGlob uses DefaultPageGlob.
func NewPipeline(pageGlob string, logger *zap.Logger) (*Pipeline, error) {
	if pageGlob == "" {
		pageGlob = DefaultPageGlob
	}
	if !doublestar.ValidatePattern(pageGlob) {
		return nil, fmt.Errorf("invalid page glob %q", pageGlob)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		pageGlob: pageGlob,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Filename is the download name of an export
func Filename(projectName string) string {
	return strings.TrimSpace(projectName) + ".zip"
}

// Build validates req and returns the ordered file set:
// manifest, layout, pages in request order, then scaffold files.
func (p *Pipeline) Build(req Request) ([]File, error) {
	if err := p.Validate(req); err != nil {
		return nil, err
	}

	m, err := manifestFile(req.ProjectName)
	if err != nil {
		return nil, &PackagingError{Op: "manifest", Err: err}
	}

	files := make([]File, 0, len(req.Pages)+9)
	files = append(files, m, File{Path: LayoutPath, Data: []byte(req.Layout)})
	for _, pg := range req.Pages {
		clean, _ := p.checkPath(pg.Path)
		files = append(files, File{Path: clean, Data: []byte(pg.Code)})
	}
	files = append(files, scaffoldFiles(req.ProjectName)...)
	return files, nil
}

// Package zips files. The result is sniffed before it is returned.
func (p *Pipeline) Package(ctx context.Context, files []File) ([]byte, error) {
	if len(files) == 0 {
		return nil, &PackagingError{Op: "package", Err: fmt.Errorf("no files")}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := p.now()

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			_ = zw.Close()
			return nil, &PackagingError{Op: "package", Err: err}
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Path,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			_ = zw.Close()
			return nil, &PackagingError{Op: "create " + f.Path, Err: err}
		}
		if _, err := w.Write(f.Data); err != nil {
			_ = zw.Close()
			return nil, &PackagingError{Op: "write " + f.Path, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &PackagingError{Op: "close", Err: err}
	}

	data := buf.Bytes()
	if !isZip(data) {
		return nil, &PackagingError{Op: "verify", Err: fmt.Errorf("output is %s", mimetype.Detect(data))}
	}
	return data, nil
}

// Run performs a complete export. On error no archive bytes are returned.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Archive, error) {
	exportID := id.NewExportID().String()
	start := time.Now()

	files, err := p.Build(req)
	if err != nil {
		p.logger.Info("Export rejected", zap.String("export_id", exportID), zap.Error(err))
		return nil, err
	}

	data, err := p.Package(ctx, files)
	if err != nil {
		p.logger.Error("Export packaging failed", zap.String("export_id", exportID), zap.Error(err))
		return nil, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Path
	}

	p.logger.Info("Export completed",
		zap.String("export_id", exportID),
		zap.String("project", req.ProjectName),
		zap.Int("files", len(files)),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))

	return &Archive{
		ID:       exportID,
		Filename: Filename(req.ProjectName),
		Data:     data,
		Files:    names,
	}, nil
}

func isZip(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is(zipMIME) {
			return true
		}
	}
	return false
}
