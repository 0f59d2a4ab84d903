// Package export writes a completed build to disk: the assembled
// document plus the section-keyed source files a preview or hand-off
// consumer expects.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/protoweb/protoweb/internal/models"
)

// sectionExt maps a section type to the on-disk file extension.
func sectionExt(t models.SectionType) string {
	switch t {
	case models.SectionCSS:
		return ".css"
	case models.SectionJS:
		return ".js"
	default:
		return ".html"
	}
}

// WriteBuild writes document to <dir>/index.html and every section to
// <dir>/sections/<name>.<ext>, with documentation beside it when
// present. dir must be a safe relative path or an absolute path the
// caller controls.
func WriteBuild(dir, document string, sections []models.CodeSection) error {
	if err := validateDir(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, "sections"), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(document), 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	for _, s := range sections {
		name, err := safeFileName(s.Name)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, "sections", name+sectionExt(s.Type))
		if err := os.WriteFile(path, []byte(s.Content), 0644); err != nil {
			return fmt.Errorf("failed to write section %s: %w", s.Name, err)
		}
		if s.Documentation != "" {
			docPath := filepath.Join(dir, "sections", name+".txt")
			if err := os.WriteFile(docPath, []byte(s.Documentation), 0644); err != nil {
				return fmt.Errorf("failed to write documentation for %s: %w", s.Name, err)
			}
		}
	}
	return nil
}

func validateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("output directory is empty")
	}
	if strings.Contains(dir, "..") {
		return fmt.Errorf("output directory cannot contain parent directory references (..)")
	}
	return nil
}

// safeFileName rejects section names that would escape the sections
// directory; generated names are slugs, so anything else is suspect.
func safeFileName(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("unsafe section name: %q", name)
	}
	return name, nil
}
