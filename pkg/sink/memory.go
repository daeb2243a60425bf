package sink

import "sync"

// MemoryBackend keeps records in memory. It is used for dry runs and tests.
type MemoryBackend struct {
	mu      sync.Mutex
	records []Record
	writes  int
}

func NewMemory() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Write(records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	m.writes++
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}

func (m *MemoryBackend) ReadAll() ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.records...), nil
}

// Writes returns how many batches were written.
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
