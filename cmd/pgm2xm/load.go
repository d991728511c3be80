package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const zstdExt = ".zst"

// readImage loads a dump or ROM image, decompressing it when the name ends
// in .zst.
func readImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, zstdExt) {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress %s", path)
	}
	return out, nil
}

// baseName drops the extension and any .zst suffix from a dump path:
// "dumps/song.bin.zst" becomes "dumps/song".
func baseName(path string) string {
	path = strings.TrimSuffix(path, zstdExt)
	return strings.TrimSuffix(path, filepath.Ext(path))
}
