package xsd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AttachmentProvider supplies the outputs of attachment documents and the
// locations imports refer to them by.
type AttachmentProvider interface {
	// Output opens the destination of the attachment of namespace. The
	// caller closes it.
	Output(namespace string) (io.WriteCloser, error)
	// URI returns the schemaLocation of the attachment of namespace. An
	// empty location is omitted.
	URI(namespace string) string
}

// DirProvider writes attachments as files of one directory. Imports refer
// to them by file name, relative to the root schema.
type DirProvider struct {
	Dir    string
	Prefix string
}

// FileName returns the file name of the attachment of namespace.
func (p DirProvider) FileName(namespace string) string {
	return p.Prefix + Slug(namespace) + ".xsd"
}

// Output implements AttachmentProvider.
func (p DirProvider) Output(namespace string) (io.WriteCloser, error) {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(p.Dir, p.FileName(namespace)))
}

// URI implements AttachmentProvider.
func (p DirProvider) URI(namespace string) string { return p.FileName(namespace) }

var slugUnsafe = regexp.MustCompile(`[^a-z0-9.-]+`)

// Slug turns a namespace or type name into a file name stem.
func Slug(s string) string {
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = cases.Lower(language.Und).String(s)
	s = slugUnsafe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_.")
	if s == "" {
		return "default"
	}
	return s
}

// MemoryProvider keeps attachments in memory.
type MemoryProvider struct {
	// Location overrides the schemaLocation of a namespace.
	Location func(namespace string) string

	mu   sync.Mutex
	docs map[string]*bytes.Buffer
}

// NewMemoryProvider returns an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{docs: make(map[string]*bytes.Buffer)}
}

// Output implements AttachmentProvider. Opening a namespace again discards
// its previous content.
func (p *MemoryProvider) Output(namespace string) (io.WriteCloser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.docs == nil {
		p.docs = make(map[string]*bytes.Buffer)
	}
	buf := new(bytes.Buffer)
	p.docs[namespace] = buf
	return nopCloser{buf}, nil
}

// URI implements AttachmentProvider.
func (p *MemoryProvider) URI(namespace string) string {
	if p.Location != nil {
		return p.Location(namespace)
	}
	return defaultLocationScheme + namespace
}

// Bytes returns the content written for namespace, or nil.
func (p *MemoryProvider) Bytes(namespace string) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if buf, ok := p.docs[namespace]; ok {
		return bytes.Clone(buf.Bytes())
	}
	return nil
}

// Namespaces returns the namespaces written so far, sorted.
func (p *MemoryProvider) Namespaces() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.docs))
	for ns := range p.docs {
		out = append(out, ns)
	}
	slices.Sort(out)
	return out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
