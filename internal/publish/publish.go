package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"upi-cli/internal/model"
)

type WriteOptions struct {
	IncludeComments bool
	Overwrite       bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WritePost writes a post as <slug>.md under toDir. Existing files are left
// alone unless Overwrite is set.
func WritePost(p model.Post, toDir string, opt WriteOptions) (WriteResult, error) {
	if strings.TrimSpace(p.Slug) == "" {
		return WriteResult{}, errors.New("missing slug")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md := RenderPostMarkdown(p, RenderOptions{IncludeComments: opt.IncludeComments})

	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(toDir, p.Slug+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
