// Package fetch downloads a beatmapset archive (.osz) and extracts the
// .osu files it contains so they can be opened in the previewer.
package fetch

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/levigross/grequests"
)

const downloadTimeout = 5 * time.Minute

// Beatmapset downloads set id and writes its .osu files under
// destDir/<id>/. Returns the written file paths.
func Beatmapset(id int, destDir string) ([]string, error) {
	data, err := Download(id)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(destDir, fmt.Sprintf("%d", id))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return Extract(data, dir)
}

// Download fetches the raw .osz archive for a beatmapset.
func Download(id int) ([]byte, error) {
	url := fmt.Sprintf("https://osu.ppy.sh/beatmapsets/%d/download", id)
	resp, err := grequests.Get(url, &grequests.RequestOptions{
		RequestTimeout: downloadTimeout,
		Headers: map[string]string{
			"Referer":    fmt.Sprintf("https://osu.ppy.sh/beatmapsets/%d", id),
			"User-Agent": "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("download set %d: %w", id, err)
	}
	if !resp.Ok {
		return nil, fmt.Errorf("download set %d: status %d", id, resp.StatusCode)
	}
	return resp.Bytes(), nil
}

// Extract writes every top-level .osu file from an .osz archive into dir.
// Entries carrying path separators are skipped rather than trusted.
func Extract(osz []byte, dir string) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(osz), int64(len(osz)))
	if err != nil {
		return nil, fmt.Errorf("open osz: %w", err)
	}

	var written []string
	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".osu") || f.FileInfo().IsDir() {
			continue
		}
		if strings.ContainsAny(f.Name, `/\`) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return written, fmt.Errorf("open %s in osz: %w", f.Name, err)
		}
		out := filepath.Join(dir, f.Name)
		dst, err := os.Create(out)
		if err != nil {
			rc.Close()
			return written, err
		}
		_, err = dst.ReadFrom(rc)
		rc.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return written, fmt.Errorf("write %s: %w", out, err)
		}
		written = append(written, out)
	}
	if len(written) == 0 {
		return nil, fmt.Errorf("archive contains no .osu files")
	}
	return written, nil
}
