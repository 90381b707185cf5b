package manifest

import (
	"encoding/json"
	"sort"
	"time"
)

const (
	// FilePrefix starts every manifest blob name.
	FilePrefix = "MANIFEST"
	// CurrentVersion is the manifest format version written by Save.
	CurrentVersion = 1
)

// Artifact kinds.
const (
	KindListing = "listing"
	KindBundle  = "bundle"
	KindReport  = "report"
)

// Artifact is one published blob with its integrity data.
type Artifact struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	CRC32C uint32 `json:"crc32c"`
}

// Entry describes the latest publication of one sound bank.
type Entry struct {
	Name        string          `json:"name"`
	Version     uint64          `json:"version"`
	PublishedAt time.Time       `json:"published_at"`
	Compression string          `json:"compression"`
	Artifacts   []Artifact      `json:"artifacts"`
	Report      json.RawMessage `json:"report,omitempty"`
}

// Artifact returns the artifact of the given kind.
func (e *Entry) Artifact(kind string) (Artifact, bool) {
	for _, a := range e.Artifacts {
		if a.Kind == kind {
			return a, true
		}
	}
	return Artifact{}, false
}

// Manifest is the published state at one point in time.
type Manifest struct {
	Version   int       `json:"version"`
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Codec     string    `json:"codec"`
	Entries   []Entry   `json:"entries"`
}

// New creates an empty manifest.
func New() *Manifest {
	return &Manifest{Version: CurrentVersion, CreatedAt: time.Now()}
}

// Entry returns the entry named name.
func (m *Manifest) Entry(name string) (*Entry, bool) {
	i := sort.Search(len(m.Entries), func(i int) bool { return m.Entries[i].Name >= name })
	if i < len(m.Entries) && m.Entries[i].Name == name {
		return &m.Entries[i], true
	}
	return nil, false
}

// Upsert adds e or replaces the entry with the same name.
// Entries stay sorted by name.
func (m *Manifest) Upsert(e Entry) {
	i := sort.Search(len(m.Entries), func(i int) bool { return m.Entries[i].Name >= e.Name })
	if i < len(m.Entries) && m.Entries[i].Name == e.Name {
		m.Entries[i] = e
		return
	}
	m.Entries = append(m.Entries, Entry{})
	copy(m.Entries[i+1:], m.Entries[i:])
	m.Entries[i] = e
}

// Remove deletes the entry named name and reports whether it existed.
func (m *Manifest) Remove(name string) bool {
	i := sort.Search(len(m.Entries), func(i int) bool { return m.Entries[i].Name >= name })
	if i < len(m.Entries) && m.Entries[i].Name == name {
		m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
		return true
	}
	return false
}
