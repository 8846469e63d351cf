package charts

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteAll saves imgs into dir. Every image is first written to a temp file in dir; the
// temp files are renamed into place only after all writes succeed, and a failed rename
// removes the files already placed.
func WriteAll(dir string, imgs []Image) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &RenderError{Chart: "output", Err: err}
	}
	temps := make([]string, 0, len(imgs))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}
	for _, img := range imgs {
		f, err := os.CreateTemp(dir, ".racecharts-*.png")
		if err != nil {
			cleanup()
			return nil, &RenderError{Chart: string(img.Kind), Err: err}
		}
		temps = append(temps, f.Name())
		_, werr := f.Write(img.Data)
		cerr := f.Close()
		if werr == nil {
			werr = cerr
		}
		if werr != nil {
			cleanup()
			return nil, &RenderError{Chart: string(img.Kind), Err: fmt.Errorf("write %s: %w", img.Name, werr)}
		}
	}
	paths := make([]string, len(imgs))
	for i, img := range imgs {
		paths[i] = filepath.Join(dir, img.Name)
		if err := os.Rename(temps[i], paths[i]); err != nil {
			cleanup()
			for _, p := range paths[:i] {
				_ = os.Remove(p)
			}
			return nil, &RenderError{Chart: string(img.Kind), Err: err}
		}
		_ = os.Chmod(paths[i], 0o644)
	}
	return paths, nil
}
