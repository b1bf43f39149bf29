// Command imagecache-bench runs a synthetic image workload against the cache
// and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/IvanBrykalov/imagecache/cache"
	pmet "github.com/IvanBrykalov/imagecache/metrics/prom"
	"github.com/IvanBrykalov/imagecache/policy"
	"github.com/IvanBrykalov/imagecache/policy/fifo"
	"github.com/IvanBrykalov/imagecache/policy/lfu"
	"github.com/IvanBrykalov/imagecache/policy/lru"
	"github.com/IvanBrykalov/imagecache/policy/twoq"
	"github.com/IvanBrykalov/imagecache/sizing"
	"github.com/btcsuite/btclog/v2"
	flags "github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type config struct {
	MaxItems uint64 `long:"maxitems" description:"Entry count limit" default:"100"`
	MaxSize  uint64 `long:"maxsize" description:"Aggregate size limit in bytes" default:"16777216"`
	Policy   string `long:"policy" description:"Eviction policy" choice:"lru" choice:"fifo" choice:"lfu" choice:"2q" default:"lru"`

	Workers  int           `long:"workers" description:"Number of worker goroutines (0 = 2*GOMAXPROCS)"`
	Duration time.Duration `long:"duration" description:"Benchmark duration" default:"10s"`
	Reads    int           `long:"reads" description:"Read percentage [0..100]" default:"80"`

	Keys  uint64  `long:"keys" description:"Keyspace size" default:"10000"`
	ZipfS float64 `long:"zipf_s" description:"Zipf s > 1 (skew)" default:"1.1"`
	ZipfV float64 `long:"zipf_v" description:"Zipf v >= 1" default:"1.0"`
	Seed  int64   `long:"seed" description:"Random seed (0 = time based)"`

	MinDim int `long:"mindim" description:"Smallest generated image side in pixels" default:"16"`
	MaxDim int `long:"maxdim" description:"Largest generated image side in pixels" default:"256"`

	LogLevel    string `long:"loglevel" description:"Logging level for the cache {trace, debug, info, warn, error, critical, off}" default:"info"`
	PprofAddr   string `long:"pprof" description:"Serve pprof at addr (e.g. :6060); empty = disabled"`
	MetricsAddr string `long:"metrics" description:"Serve Prometheus metrics at addr; empty = disabled" default:":8080"`
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig parses command line arguments on top of the struct tag defaults.
func loadConfig(args []string) (config, error) {
	var cfg config
	if _, err := flags.NewParser(&cfg, flags.Default).ParseArgs(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newPolicy(name string, maxItems uint64) (policy.Policy[string, image.Image], error) {
	switch name {
	case "lru":
		return lru.New[string, image.Image](), nil
	case "fifo":
		return fifo.New[string, image.Image](), nil
	case "lfu":
		return lfu.New[string, image.Image](), nil
	case "2q":
		// split 2Q queues as a simple default
		return twoq.New[string, image.Image](int(maxItems/4), int(maxItems/2)), nil
	default:
		return nil, fmt.Errorf("unknown policy: %q", name)
	}
}

func run(cfg config) error {
	if cfg.MaxItems == 0 || cfg.MaxSize == 0 {
		return fmt.Errorf("maxitems and maxsize must be > 0, got %d and %d",
			cfg.MaxItems, cfg.MaxSize)
	}
	if cfg.MaxDim < cfg.MinDim || cfg.MinDim <= 0 {
		return fmt.Errorf("invalid image dimensions %d..%d", cfg.MinDim, cfg.MaxDim)
	}
	if cfg.Keys < 2 {
		return fmt.Errorf("keys must be >= 2, got %d", cfg.Keys)
	}

	// ---- Logging ----
	logger := btclog.NewSLogger(btclog.NewDefaultHandler(os.Stdout))
	level, ok := btclog.LevelFromString(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	logger.SetLevel(level)
	cache.UseLogger(logger)

	// ---- pprof server (on DefaultServeMux) ----
	if cfg.PprofAddr != "" {
		go func() {
			logger.Infof("pprof: serving at %s", cfg.PprofAddr)
			logger.Errorf("pprof: %v", http.ListenAndServe(cfg.PprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	var metrics cache.Metrics = cache.NoopMetrics{}
	if cfg.MetricsAddr != "" {
		metrics = pmet.New(nil, "imagecache", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Infof("metrics: serving at %s", cfg.MetricsAddr)
			logger.Errorf("metrics: %v", http.ListenAndServe(cfg.MetricsAddr, nil))
		}()
	}

	// ---- Build cache ----
	pol, err := newPolicy(cfg.Policy, cfg.MaxItems)
	if err != nil {
		return err
	}
	c := cache.NewSynchronized(cache.New(cache.Options[string, image.Image]{
		MaxItems: cfg.MaxItems,
		MaxSize:  cfg.MaxSize,
		Size:     sizing.Image,
		Policy:   pol,
		Metrics:  metrics,
	}), nil)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 2 * runtime.GOMAXPROCS(0)
	}

	// ---- Load generation ----
	var reads, writes, hits, rejects, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			r := rand.New(rand.NewSource(seed + int64(id)*9973))
			zipf := rand.NewZipf(r, cfg.ZipfS, cfg.ZipfV, cfg.Keys-1)
			if zipf == nil {
				return fmt.Errorf("invalid zipf parameters s=%v v=%v",
					cfg.ZipfS, cfg.ZipfV)
			}

			for ctx.Err() == nil {
				atomic.AddUint64(&total, 1)
				k := "img:" + strconv.FormatUint(zipf.Uint64(), 10)
				if r.Intn(100) < cfg.Reads {
					atomic.AddUint64(&reads, 1)
					if _, ok := c.Get(k); ok {
						atomic.AddUint64(&hits, 1)
					}
					continue
				}

				atomic.AddUint64(&writes, 1)
				if !c.Add(k, randomImage(r, cfg.MinDim, cfg.MaxDim)) {
					atomic.AddUint64(&rejects, 1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	// ---- Report ----
	hitRate := 0.0
	if reads > 0 {
		hitRate = float64(hits) / float64(reads) * 100
	}

	fmt.Printf("policy=%s maxitems=%d maxsize=%d workers=%d keys=%d dur=%v seed=%d\n",
		cfg.Policy, cfg.MaxItems, cfg.MaxSize, workers, cfg.Keys, elapsed, seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  rejects=%d\n",
		total, float64(total)/elapsed.Seconds(), reads, writes, rejects)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hits, reads-hits, hitRate)
	fmt.Printf("Len()=%d Size()=%d\n", c.Len(), c.Size())
	return nil
}

// randomImage returns a solid RGBA image with sides in [minDim, maxDim].
func randomImage(r *rand.Rand, minDim, maxDim int) image.Image {
	w := minDim + r.Intn(maxDim-minDim+1)
	h := minDim + r.Intn(maxDim-minDim+1)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := color.RGBA{R: uint8(r.Intn(256)), G: uint8(r.Intn(256)), B: uint8(r.Intn(256)), A: 0xff}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = fill.R, fill.G, fill.B, fill.A
	}
	return img
}
