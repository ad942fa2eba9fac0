package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
)

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	var buf bytes.Buffer
	return NewRunner(c, nil, log.New(&buf))
}

func writeGallery(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewGray(image.Rect(0, 0, 10, 200))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "tall.png"), img.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	manifest := `
[[item]]
id = "1"
img = "a.jpg"
height = 100

[[item]]
id = "2"
img = "b.jpg"
height = 100

[[item]]
id = "3"
img = "tall.png"
`
	path := filepath.Join(dir, "gallery.toml")
	if err := os.WriteFile(path, []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestColumnCount(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want int
	}{
		{"policy default", Options{ViewportWidth: 1000}, 4},
		{"explicit", Options{ViewportWidth: 1000, Columns: 2}, 2},
		{"custom policy", Options{ViewportWidth: 900, Policy: masonry.Policy{{MinWidth: 100, Columns: 7}}}, 7},
		{"narrow", Options{ViewportWidth: 10}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.ColumnCount(); got != tt.want {
				t.Errorf("ColumnCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOptionsValidation(t *testing.T) {
	if err := (&Options{}).ValidateForLoad(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing manifest error = %v", err)
	}
	for _, cols := range []int{-1, masonry.MaxColumns + 1, 5000000} {
		if err := (&Options{Columns: cols}).ValidateForLayout(); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("columns %d: error = %v, want INVALID_INPUT", cols, err)
		}
	}
	if err := (&Options{Columns: masonry.MaxColumns}).ValidateForLayout(); err != nil {
		t.Errorf("columns %d should be accepted: %v", masonry.MaxColumns, err)
	}
	if err := (&Options{ContainerWidth: 0}).ValidateForLayout(); err != nil {
		t.Errorf("zero container width is not an options error: %v", err)
	}

	var o Options
	o.SetLayoutDefaults()
	if o.ViewportWidth != DefaultViewportWidth || o.ContainerWidth != DefaultViewportWidth || len(o.Policy) == 0 {
		t.Errorf("defaults = %+v", o)
	}
}

func TestExecute(t *testing.T) {
	path := writeGallery(t)
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t, c)
	defer r.Close()

	opts := Options{Manifest: path, ViewportWidth: 800, ContainerWidth: 600}
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Layout == nil {
		t.Fatal("expected a layout")
	}
	if res.Stats.Columns != 3 || res.Layout.Columns != 3 {
		t.Errorf("columns = %d / %d, want 3", res.Stats.Columns, res.Layout.Columns)
	}
	if p, ok := res.Layout.Find("3"); !ok || p.H != 100 || p.X != 400 {
		t.Errorf("probed item = %+v, %v", p, ok)
	}
	if res.Probe == nil || res.Probe.Resolved != 1 {
		t.Errorf("Probe = %+v", res.Probe)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("first run should not hit the cache")
	}

	again, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || again.CacheInfo.ProbeCached != 1 {
		t.Errorf("second run CacheInfo = %+v", again.CacheInfo)
	}
	if again.Layout.TotalHeight != res.Layout.TotalHeight {
		t.Error("cached layout differs")
	}

	opts.Refresh = true
	fresh, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.LayoutHit {
		t.Error("refresh should bypass the layout cache")
	}
}

func TestExecuteSkipsInvalidWidth(t *testing.T) {
	r := quietRunner(t, nil)
	res, err := r.Execute(context.Background(), Options{Manifest: writeGallery(t), ViewportWidth: 800, ContainerWidth: -1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Layout != nil {
		t.Errorf("Layout = %+v, want nil", res.Layout)
	}
}

func TestExecuteUnresolvedHeights(t *testing.T) {
	path := writeGallery(t)
	r := quietRunner(t, nil)
	_, err := r.Execute(context.Background(), Options{Manifest: path, SkipProbe: true})
	if !errors.Is(err, errors.ErrCodeInvalidItem) {
		t.Errorf("err = %v, want INVALID_ITEM", err)
	}
}

func TestLayoutEmpty(t *testing.T) {
	r := quietRunner(t, nil)
	l, err := r.Layout(context.Background(), nil, Options{ViewportWidth: 500, ContainerWidth: 500})
	if err != nil {
		t.Fatal(err)
	}
	if l == nil || len(l.Items) != 0 || l.TotalHeight != 0 {
		t.Errorf("empty layout = %+v", l)
	}
}
