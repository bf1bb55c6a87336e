package idl

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter"

	"github.com/teranos/protolua/errors"
	"github.com/teranos/protolua/logger"
)

// Load reads and decodes a document from a local path or any source
// go-getter understands (https://, s3::, git::, ...).
func Load(ctx context.Context, source string) (*Document, error) {
	data, err := Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", source)
	}
	return doc, nil
}

// Fetch returns the raw bytes of the document at source.
func Fetch(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, errors.WithHint(errors.New("no input document configured"),
			"pass --input or set input.source in protolua.toml")
	}

	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", source)
		}
		return data, nil
	}

	pwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	tmpDir, err := os.MkdirTemp("", "protolua-fetch-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer os.RemoveAll(tmpDir)

	dst := filepath.Join(tmpDir, "document.json")
	client := &getter.Client{
		Ctx:  ctx,
		Src:  source,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}

	logger.Debugw("Fetching document", logger.FieldSource, source)
	if err := client.Get(); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", source)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read fetched document %s", source)
	}
	return data, nil
}
