package gallery

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/observability"
)

const (
	// defaultConcurrency bounds parallel probes.
	defaultConcurrency = 8

	// maxHeaderBytes bounds how much of a remote image is read.
	maxHeaderBytes = 1 << 20
)

// Prober resolves intrinsic image heights by decoding image headers.
// The zero value is usable: it probes local files and remote URLs with
// http.DefaultClient and no cache.
type Prober struct {
	Client      *http.Client
	Cache       cache.Cache
	Keyer       cache.Keyer
	Backoff     cache.Backoff
	Concurrency int
	Logger      *log.Logger
}

// Report summarises a probe run.
type Report struct {
	Resolved int
	Cached   int
	Failed   map[string]error // keyed by item id
}

// Probe fills in the height of every manifest entry that has none. Entries
// that cannot be probed keep a zero height and are listed in the report;
// Probe itself only fails when ctx is cancelled.
func (p *Prober) Probe(ctx context.Context, m *Manifest) (*Report, error) {
	report := &Report{Failed: make(map[string]error)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency())

	for i := range m.Entries {
		e := &m.Entries[i]
		if e.Height != 0 {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			h, cached, err := p.height(ctx, m.Dir, e.Img)
			observability.Pipeline().OnProbe(ctx, e.Img, time.Since(start), err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				p.logger().Warn("probe failed", "id", e.ID, "img", e.Img, "err", err)
				report.Failed[e.ID] = err
				return nil
			}
			e.Height = h
			report.Resolved++
			if cached {
				report.Cached++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

// height returns the intrinsic height of ref, consulting the cache first.
func (p *Prober) height(ctx context.Context, dir, ref string) (float64, bool, error) {
	key := p.keyer().ProbeKey(probeRef(dir, ref))
	if p.Cache != nil {
		if data, hit, err := p.Cache.Get(ctx, key); err == nil && hit {
			if h, err := strconv.ParseFloat(string(data), 64); err == nil && h > 0 {
				observability.Cache().OnCacheHit(ctx, "probe")
				return h, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "probe")
	}

	var (
		cfg image.Config
		err error
	)
	if errors.IsRemote(ref) {
		cfg, err = p.remote(ctx, ref)
	} else {
		cfg, err = local(filepath.Join(dir, ref))
	}
	if err != nil {
		return 0, false, err
	}
	if cfg.Height <= 0 {
		return 0, false, errors.New(errors.ErrCodeProbe, "%s: image has no height", ref)
	}

	h := float64(cfg.Height)
	if p.Cache != nil {
		data := []byte(strconv.FormatFloat(h, 'f', -1, 64))
		if err := p.Cache.Set(ctx, key, data, cache.ProbeTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "probe", len(data))
		}
	}
	return h, false, nil
}

// probeRef is the cache identity of an image: remote URLs as given, local
// paths resolved to an absolute path so equal names in different galleries
// stay apart.
func probeRef(dir, ref string) string {
	if errors.IsRemote(ref) {
		return ref
	}
	path := filepath.Join(dir, ref)
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func local(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, errors.Wrap(errors.ErrCodeProbe, err, "open %s", path)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, errors.Wrap(errors.ErrCodeProbe, err, "decode %s", path)
	}
	return cfg, nil
}

func (p *Prober) remote(ctx context.Context, url string) (image.Config, error) {
	var cfg image.Config
	err := p.backoff().Retry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := p.client().Do(req)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return cache.Retryable(fmt.Errorf("%w: %s", cache.ErrNetwork, resp.Status))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("unexpected status %s", resp.Status)
		}

		cfg, _, err = image.DecodeConfig(io.LimitReader(resp.Body, maxHeaderBytes))
		return err
	})
	if err != nil {
		return image.Config{}, errors.Wrap(errors.ErrCodeProbe, err, "fetch %s", url)
	}
	return cfg, nil
}

// probeTimeout bounds a single remote header fetch.
const probeTimeout = 10 * time.Second

var defaultClient = &http.Client{Timeout: probeTimeout}

func (p *Prober) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	return defaultClient
}

func (p *Prober) keyer() cache.Keyer {
	if p.Keyer != nil {
		return p.Keyer
	}
	return cache.NewDefaultKeyer()
}

func (p *Prober) backoff() cache.Backoff {
	if p.Backoff.Attempts > 0 {
		return p.Backoff
	}
	return cache.DefaultBackoff
}

func (p *Prober) concurrency() int {
	if p.Concurrency > 0 {
		return p.Concurrency
	}
	return defaultConcurrency
}

func (p *Prober) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}
