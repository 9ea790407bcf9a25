package vectorstore

import "fmt"

// ChunkMetadata describes one indexed chunk: where it came from, its
// sequence position within that document, and its text.
type ChunkMetadata struct {
	DocumentName string
	ChunkNumber  int
	Text         string
}

// MetadataStore maps vector ids to chunk metadata and tracks per-document
// chunk numbering. Ids are dense and assigned by the index, so entries
// live at their id offset in a slice.
//
// MetadataStore is not safe for concurrent use; Store serializes access.
type MetadataStore struct {
	entries   []ChunkMetadata
	nextByDoc map[string]int
}

// NewMetadataStore creates an empty metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{nextByDoc: make(map[string]int)}
}

// Reserve returns the current chunk counter for documentName and advances
// it by count. The counter starts at 0 for an unseen name, keeps growing
// across repeated uploads of the same name, and is cleared only by Reset.
func (m *MetadataStore) Reserve(documentName string, count int) int {
	start := m.nextByDoc[documentName]
	m.nextByDoc[documentName] = start + count
	return start
}

// Record stores metadata for id. Ids arrive in insertion order and are
// never overwritten, so id must equal the next free offset.
func (m *MetadataStore) Record(id int, meta ChunkMetadata) error {
	if id != len(m.entries) {
		return fmt.Errorf("metadata id %d out of sequence, next is %d", id, len(m.entries))
	}
	m.entries = append(m.entries, meta)
	return nil
}

// Get returns the metadata for id, reporting whether it exists.
func (m *MetadataStore) Get(id int) (ChunkMetadata, bool) {
	if id < 0 || id >= len(m.entries) {
		return ChunkMetadata{}, false
	}
	return m.entries[id], true
}

// Len returns the number of recorded entries.
func (m *MetadataStore) Len() int {
	return len(m.entries)
}

// Reset clears all entries and all per-document counters.
func (m *MetadataStore) Reset() {
	m.entries = m.entries[:0]
	m.nextByDoc = make(map[string]int)
}
