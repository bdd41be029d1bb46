package export

import (
	"errors"
	"path"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PageFile is one generated page source placed at Path inside the archive
type PageFile struct {
	Path string `json:"path"`
	Code string `json:"code"`
}

// Request is everything needed to export a project
type Request struct {
	ProjectName string     `json:"projectName"`
	Pages       []PageFile `json:"pages"`
	Layout      string     `json:"layout"`
}

// DefaultPageGlob matches the page paths accepted by default
const DefaultPageGlob = "app/**/*.{tsx,jsx,ts,js,mdx}"

// LayoutPath is where the supplied layout source is written
const LayoutPath = "app/layout.tsx"

// ManifestPath is the package manifest
const ManifestPath = "package.json"

// Validate checks req against the pipeline's rules without building anything.
func (p *Pipeline) Validate(req Request) error {
	if strings.TrimSpace(req.ProjectName) == "" {
		return invalid("projectName", "is required")
	}
	if len(req.Pages) == 0 {
		return invalid("pages", "at least one page is required")
	}
	if strings.TrimSpace(req.Layout) == "" {
		return invalid("layout", "is required")
	}

	seen := make(map[string]struct{}, len(req.Pages))
	for i, pg := range req.Pages {
		clean, err := p.checkPath(pg.Path)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Field = pageField(i)
			}
			return err
		}
		if _, dup := seen[clean]; dup {
			return invalid(pageField(i), "duplicate path %q", clean)
		}
		seen[clean] = struct{}{}
	}
	return nil
}

func (p *Pipeline) checkPath(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid("", "path is required")
	}
	if strings.HasPrefix(raw, "/") || strings.Contains(raw, `\`) || strings.Contains(raw, ":") {
		return "", invalid("", "path %q must be relative", raw)
	}
	for _, seg := range strings.Split(raw, "/") {
		if seg == ".." {
			return "", invalid("", "path %q escapes the project", raw)
		}
	}

	clean := path.Clean(raw)
	if _, reserved := reservedPaths[clean]; reserved {
		return "", invalid("", "path %q is reserved", clean)
	}
	if !doublestar.MatchUnvalidated(p.pageGlob, clean) {
		return "", invalid("", "path %q does not match %s", clean, p.pageGlob)
	}
	return clean, nil
}

func pageField(i int) string {
	return "pages[" + strconv.Itoa(i) + "].path"
}
