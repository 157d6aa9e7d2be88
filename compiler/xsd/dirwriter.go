package xsd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/typexsd/schema"
)

// DirWriter marshals several root types into one directory in parallel.
// Each root gets its own session: <slug>.xsd for the root schema and
// <slug>.<namespace slug>.xsd for each of its attachments.
type DirWriter struct {
	outDir  string
	opts    []Option
	workers int

	// Metrics for monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks generation output.
type WriterMetrics struct {
	Schemas        int
	FilesGenerated int
	TotalBytes     int64
	Files          []string
}

// NewDirWriter creates a writer into outDir. opts apply to every session;
// the attachment provider is always replaced by one writing into outDir.
func NewDirWriter(outDir string, opts ...Option) *DirWriter {
	return &DirWriter{
		outDir:  outDir,
		opts:    opts,
		workers: runtime.GOMAXPROCS(0),
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *DirWriter) WithWorkers(n int) *DirWriter {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a snapshot of the generation metrics. Files is sorted.
func (w *DirWriter) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := *w.metrics
	m.Files = slices.Sorted(slices.Values(w.metrics.Files))
	return m
}

// FileName returns the root schema file name of t.
func FileName(t *schema.ComplexType) string { return Slug(t.Name()) + ".xsd" }

// Generate marshals every root type.
func (w *DirWriter) Generate(ctx context.Context, types ...*schema.ComplexType) error {
	seen := make(map[string]string, len(types))
	for _, t := range types {
		if t == nil || schema.IsAnonymous(t) {
			return NewShapeError("", "", "root type must be a named complex type")
		}
		name := FileName(t)
		if other, ok := seen[name]; ok {
			return NewConfigError("types", t.Name(), fmt.Sprintf("file name %s is already used by %s", name, other))
		}
		seen[name] = t.Name()
	}
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for _, t := range types {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.generateSchema(t)
			}
		})
	}

	return eg.Wait()
}

func (w *DirWriter) generateSchema(t *schema.ComplexType) error {
	provider := &countingProvider{
		AttachmentProvider: DirProvider{Dir: w.outDir, Prefix: Slug(t.Name()) + "."},
	}
	opts := append(slices.Clone(w.opts), WithAttachmentProvider(provider), WithRootLocation(FileName(t)))
	m, err := New(opts...)
	if err != nil {
		return err
	}

	// The root file is written only once the whole schema rendered.
	var buf bytes.Buffer
	if err := m.Marshal(&buf, t); err != nil {
		return fmt.Errorf("marshal %s: %w", t.Name(), err)
	}
	path := filepath.Join(w.outDir, FileName(t))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("marshal %s: %w", t.Name(), NewRootOutputError(err))
	}

	w.mu.Lock()
	w.metrics.Schemas++
	w.metrics.FilesGenerated += 1 + len(provider.files)
	w.metrics.TotalBytes += int64(buf.Len()) + provider.bytes
	w.metrics.Files = append(w.metrics.Files, path)
	w.metrics.Files = append(w.metrics.Files, provider.files...)
	w.mu.Unlock()

	return nil
}

// countingProvider records what a DirProvider wrote. A session writes its
// attachments sequentially, so no locking is needed.
type countingProvider struct {
	AttachmentProvider
	files []string
	bytes int64
}

func (p *countingProvider) Output(namespace string) (io.WriteCloser, error) {
	out, err := p.AttachmentProvider.Output(namespace)
	if err != nil {
		return nil, err
	}
	if dp, ok := p.AttachmentProvider.(DirProvider); ok {
		p.files = append(p.files, filepath.Join(dp.Dir, dp.FileName(namespace)))
	}
	return &countingWriteCloser{WriteCloser: out, n: &p.bytes}, nil
}

type countingWriteCloser struct {
	io.WriteCloser
	n *int64
}

func (c *countingWriteCloser) Write(b []byte) (int, error) {
	n, err := c.WriteCloser.Write(b)
	*c.n += int64(n)
	return n, err
}
