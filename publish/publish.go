package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/pokeyvq"
	"github.com/hupe1980/pokeyvq/blobstore"
	"github.com/hupe1980/pokeyvq/codec"
	"github.com/hupe1980/pokeyvq/export"
	"github.com/hupe1980/pokeyvq/internal/hash"
	"github.com/hupe1980/pokeyvq/manifest"
	"github.com/hupe1980/pokeyvq/resource"
)

var (
	// ErrInvalidName is returned for bank names that are not identifiers.
	ErrInvalidName = errors.New("publish: invalid name")
	// ErrUnknownBank is returned by Fetch for names missing from the manifest.
	ErrUnknownBank = errors.New("publish: unknown bank")
)

var nameRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// Option configures a Publisher.
type Option func(*Publisher)

// WithCompression sets the bundle compression. Default: none.
func WithCompression(c export.Compression) Option {
	return func(p *Publisher) { p.compression = c }
}

// WithResourceController throttles uploads through rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(p *Publisher) { p.rc = rc }
}

// WithLogger sets the logger. A nil logger selects pokeyvq.NoopLogger.
func WithLogger(l *pokeyvq.Logger) Option {
	return func(p *Publisher) {
		if l == nil {
			l = pokeyvq.NoopLogger()
		}
		p.logger = l
	}
}

// WithCodec sets the manifest codec. A nil codec selects codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(p *Publisher) { p.codec = c }
}

type artifactBlob struct {
	kind string
	path string
	data []byte
}

// Publisher writes sound banks and their manifest to a blob store.
// It is safe for concurrent use; publications are serialized.
type Publisher struct {
	store       blobstore.BlobStore
	manifests   *manifest.Store
	compression export.Compression
	rc          *resource.Controller
	logger      *pokeyvq.Logger
	codec       codec.Codec

	mu sync.Mutex
}

// New returns a Publisher writing to store.
func New(store blobstore.BlobStore, opts ...Option) *Publisher {
	p := &Publisher{
		store:       store,
		compression: export.CompressionNone,
		logger:      pokeyvq.NoopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.manifests = manifest.NewStore(store, p.codec)
	return p
}

// Manifests returns the underlying manifest store.
func (p *Publisher) Manifests() *manifest.Store { return p.manifests }

// Label returns the listing label prefix for a bank name.
func Label(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Publish writes tables (and report, if non-empty) as a new version of
// the bank name and commits the manifest. It returns the committed manifest.
func (p *Publisher) Publish(ctx context.Context, name string, t *export.Tables, report []byte) (*manifest.Manifest, error) {
	start := time.Now()
	m, err := p.publish(ctx, name, t, report)
	var version uint64
	if m != nil {
		version = m.ID
	}
	p.logger.LogPublish(ctx, name, version, time.Since(start), err)
	return m, err
}

func (p *Publisher) publish(ctx context.Context, name string, t *export.Tables, report []byte) (*manifest.Manifest, error) {
	if !nameRE.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	m, err := p.manifests.Load(ctx)
	if errors.Is(err, manifest.ErrNotFound) {
		m = manifest.New()
	} else if err != nil {
		return nil, err
	}
	version := m.ID + 1
	dir := path.Join(name, fmt.Sprintf("%06d", version))

	var listing bytes.Buffer
	if err := t.WriteListing(&listing, Label(name)); err != nil {
		return nil, fmt.Errorf("publish: listing: %w", err)
	}
	bundle, err := t.Bundle(p.compression)
	if err != nil {
		return nil, fmt.Errorf("publish: bundle: %w", err)
	}

	blobs := []artifactBlob{
		{manifest.KindListing, path.Join(dir, name+".s"), listing.Bytes()},
		{manifest.KindBundle, path.Join(dir, name+".pvq"), bundle},
	}
	if len(report) > 0 {
		blobs = append(blobs, artifactBlob{manifest.KindReport, path.Join(dir, "report.json"), report})
	}

	entry := manifest.Entry{
		Name:        name,
		Version:     version,
		PublishedAt: time.Now().UTC(),
		Compression: p.compression.String(),
	}
	if len(report) > 0 {
		entry.Report = append([]byte(nil), report...)
	}
	for _, b := range blobs {
		if err := p.rc.AcquireIO(ctx, len(b.data)); err != nil {
			return nil, err
		}
		if err := p.store.Put(ctx, b.path, b.data); err != nil {
			return nil, fmt.Errorf("publish: write %s: %w", b.path, err)
		}
		entry.Artifacts = append(entry.Artifacts, manifest.Artifact{
			Kind:   b.kind,
			Path:   b.path,
			Size:   int64(len(b.data)),
			CRC32C: hash.CRC32C(b.data),
		})
	}

	m.Upsert(entry)
	if err := p.manifests.Save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Fetch loads the latest published tables of bank name, verifying the
// bundle checksum recorded in the manifest.
func (p *Publisher) Fetch(ctx context.Context, name string) (*export.Tables, error) {
	e, err := p.entry(ctx, name)
	if err != nil {
		return nil, err
	}
	a, ok := e.Artifact(manifest.KindBundle)
	if !ok {
		return nil, fmt.Errorf("publish: %s has no bundle", name)
	}
	data, err := p.read(ctx, a)
	if err != nil {
		return nil, err
	}
	return export.OpenBundle(data)
}

// Verify checks every artifact of bank name against the manifest.
func (p *Publisher) Verify(ctx context.Context, name string) error {
	e, err := p.entry(ctx, name)
	if err != nil {
		return err
	}
	for _, a := range e.Artifacts {
		if _, err := p.read(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) entry(ctx context.Context, name string) (*manifest.Entry, error) {
	m, err := p.manifests.Load(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := m.Entry(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBank, name)
	}
	return e, nil
}

func (p *Publisher) read(ctx context.Context, a manifest.Artifact) ([]byte, error) {
	data, err := blobstore.ReadAll(ctx, p.store, a.Path)
	if err != nil {
		return nil, fmt.Errorf("publish: read %s: %w", a.Path, err)
	}
	if int64(len(data)) != a.Size {
		return nil, fmt.Errorf("publish: %s: size %d, manifest says %d: %w", a.Path, len(data), a.Size, hash.ErrChecksum)
	}
	if err := hash.Verify(data, a.CRC32C); err != nil {
		return nil, fmt.Errorf("publish: %s: %w", a.Path, err)
	}
	return data, nil
}
