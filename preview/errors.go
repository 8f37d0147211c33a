package preview

import (
	"errors"
	"os"
)

// Unrecoverable open failures. Everything else (degenerate arcs, rejected
// media starts, failing frame renders) is absorbed internally.
var (
	ErrReadFailed = errors.New("beatmap read failed")
	ErrEmptyMap   = errors.New("beatmap has no hit objects")
)

// FileReader is the file-read capability boundary. ReadMap returns the file
// content and its modification time in milliseconds; the pair (path, mtime)
// keys the MapData cache.
type FileReader interface {
	ReadMap(path string) (data []byte, mtimeMs float64, err error)
}

// OSReader reads beatmaps straight from the local filesystem.
type OSReader struct{}

func (OSReader) ReadMap(path string) ([]byte, float64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return data, float64(fi.ModTime().UnixMilli()), nil
}
