package typegen

import (
	"os"
	"path/filepath"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/logger"
)

// File is one rendered section.
type File struct {
	Section string
	Name    string
	Content string
}

// Render renders every section of result with gen. Either all sections
// render or an error is returned.
func Render(result *Result, gen Generator) ([]File, error) {
	files := make([]File, 0, len(result.Sections))
	for _, s := range result.Sections {
		content, err := gen.GenerateFile(result, s)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render %s", s.Name)
		}
		files = append(files, File{
			Section: s.Name,
			Name:    s.Name + "." + gen.FileExtension(),
			Content: content,
		})
	}
	return files, nil
}

// WriteFiles writes rendered files into dir, creating it if needed.
func WriteFiles(dir string, files []File) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0644); err != nil {
			return errors.Wrapf(err, "failed to write %s", path)
		}
		logger.Infow("Wrote section", logger.FieldSection, f.Section, logger.FieldFile, path)
	}
	return nil
}
