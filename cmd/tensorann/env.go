package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tensorann"
	"github.com/hupe1980/tensorann/blobstore"
	minioblob "github.com/hupe1980/tensorann/blobstore/minio"
	s3blob "github.com/hupe1980/tensorann/blobstore/s3"
	"github.com/hupe1980/tensorann/dataset"
	"github.com/hupe1980/tensorann/distance"
	"github.com/hupe1980/tensorann/internal/config"
	"github.com/hupe1980/tensorann/resource"
)

// env is what every command works with once flags and config are merged.
type env struct {
	cfg    *config.Config
	logger *tensorann.Logger
	rc     *resource.Controller
	store  *dataset.Store
	asJSON bool
}

func newEnv(cmd *cobra.Command) (*env, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	if cfg.Log.JSON {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	}
	logger := tensorann.NewLogger(handler)

	workers := cfg.Index.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.Index.MemoryLimitBytes,
		MaxWorkers:         int64(workers),
		IOLimitBytesPerSec: cfg.Store.IOLimitBytesPerSec,
	})

	blobs, err := openBlobStore(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}

	compression, err := dataset.ParseCompression(cfg.Dataset.Compression)
	if err != nil {
		return nil, err
	}

	asJSON, _ := flags.GetBool("json")
	return &env{
		cfg:    cfg,
		logger: logger,
		rc:     rc,
		store: dataset.NewStore(blobs, func(o *dataset.StoreOptions) {
			o.Compression = compression
			o.Logger = logger.Logger
			if cfg.Store.IOLimitBytesPerSec > 0 {
				o.Controller = rc
			}
		}),
		asJSON: asJSON,
	}, nil
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	set := func(name string, fn func()) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			fn()
		}
	}

	set("store", func() { cfg.Store.Backend, _ = flags.GetString("store") })
	set("root", func() { cfg.Store.Local.Root, _ = flags.GetString("root") })
	set("log-level", func() { cfg.Log.Level, _ = flags.GetString("log-level") })

	set("n", func() { cfg.Dataset.N, _ = flags.GetInt("n") })
	set("d", func() { cfg.Dataset.D, _ = flags.GetInt("d") })
	set("sigma", func() { cfg.Dataset.Sigma, _ = flags.GetFloat64("sigma") })
	set("data-seed", func() { cfg.Dataset.Seed, _ = flags.GetUint64("data-seed") })
	set("compression", func() { cfg.Dataset.Compression, _ = flags.GetString("compression") })
	set("normalize", func() { cfg.Dataset.Normalize, _ = flags.GetBool("normalize") })

	set("kind", func() { cfg.Index.Kind, _ = flags.GetString("kind") })
	set("fast", func() { cfg.Index.Fast, _ = flags.GetBool("fast") })
	set("alpha", func() { cfg.Index.Alpha, _ = flags.GetFloat64("alpha") })
	set("beta", func() { cfg.Index.Beta, _ = flags.GetFloat64("beta") })
	set("theta", func() { cfg.Index.Theta, _ = flags.GetFloat64("theta") })
	set("seed", func() { cfg.Index.Seed, _ = flags.GetUint64("seed") })
	set("workers", func() { cfg.Index.Workers, _ = flags.GetInt("workers") })
}

func openBlobStore(ctx context.Context, cfg *config.Config) (blobstore.BlobStore, error) {
	var (
		blobs  blobstore.BlobStore
		remote bool
		err    error
	)

	switch cfg.Store.Backend {
	case "memory":
		blobs = blobstore.NewMemoryStore()
	case "local":
		blobs = blobstore.NewLocalStore(cfg.Store.Local.Root)
	case "s3":
		c := cfg.Store.S3
		blobs, err = s3blob.New(ctx, c.Bucket, func(o *s3blob.Options) {
			o.Prefix = c.Prefix
			o.Region = c.Region
			o.Endpoint = c.Endpoint
			o.UsePathStyle = c.UsePathStyle
			o.CommitTable = c.CommitTable
		})
		remote = true
	case "minio":
		c := cfg.Store.Minio
		blobs, err = minioblob.Connect(ctx, minioblob.Options{
			Endpoint:  c.Endpoint,
			AccessKey: c.AccessKey,
			SecretKey: c.SecretKey,
			Secure:    c.Secure,
			Region:    c.Region,
			Bucket:    c.Bucket,
			Prefix:    c.Prefix,
		})
		remote = true
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	if remote && cfg.Store.Cache.Blocks > 0 {
		return blobstore.NewCachingStore(blobs, cfg.Store.Cache.Blocks, cfg.Store.Cache.BlockSize)
	}
	return blobs, nil
}

func (e *env) generate(ctx context.Context, n int, seed uint64) ([][]float64, error) {
	return dataset.Generate(ctx, n, e.cfg.Dataset.D, func(o *dataset.GenerateOptions) {
		o.Sigma = e.cfg.Dataset.Sigma
		o.Normalize = e.cfg.Dataset.Normalize
		if seed != 0 {
			o.Seed = seed
		}
		o.Workers = e.cfg.Index.Workers
		o.Controller = e.rc
	})
}

// loadDataset resolves the dataset a query or baseline runs on. A missing
// dataset is generated, normalized and saved under its default name.
func (e *env) loadDataset(cmd *cobra.Command) ([][]float64, string, error) {
	ctx := cmd.Context()
	flags := cmd.Flags()

	name, _ := flags.GetString("dataset")
	if current, _ := flags.GetBool("current"); current {
		var err error
		if name, err = e.store.Current(ctx); err != nil {
			return nil, "", err
		}
	}
	if name == "" {
		name = dataset.Path(e.cfg.Dataset.D, e.cfg.Dataset.N)
	}

	data, err := e.store.Load(ctx, name)
	switch {
	case err == nil:
	case blobstore.IsNotFound(err):
		e.logger.InfoContext(ctx, "dataset not found, generating", "name", name)
		e.cfg.Dataset.Normalize = true
		if data, err = e.generate(ctx, e.cfg.Dataset.N, e.cfg.Dataset.Seed); err != nil {
			return nil, "", err
		}
		if err := e.store.SaveAs(ctx, name, data); err != nil {
			return nil, "", err
		}
	default:
		return nil, "", err
	}

	for _, v := range data {
		if !distance.IsNormalized(v) {
			distance.NormalizeL2InPlace(v)
		}
	}
	return data, name, nil
}

// queryVector picks the query from the flags.
func (e *env) queryVector(cmd *cobra.Command, data [][]float64) ([]float64, string, error) {
	if random, _ := cmd.Flags().GetBool("random-query"); random {
		qs, err := dataset.Generate(cmd.Context(), 1, len(data[0]), func(o *dataset.GenerateOptions) {
			o.Normalize = true
		})
		if err != nil {
			return nil, "", err
		}
		return qs[0], "random", nil
	}

	i, _ := cmd.Flags().GetInt("query-index")
	if i < 0 || i >= len(data) {
		return nil, "", fmt.Errorf("query index %d out of range [0, %d)", i, len(data))
	}
	return data[i], fmt.Sprintf("point %d", i), nil
}

func (e *env) printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
