package cache

import "github.com/cimnine/netbox-sync/netbox/models"

// Memory keeps resolved references for the lifetime of the process. There is
// no eviction; a run only ever sees as many distinct references as NetBox
// holds objects.
type Memory struct {
	entries map[string]models.Object
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]models.Object)}
}

func (m *Memory) Get(ref string) (models.Object, bool) {
	obj, ok := m.entries[ref]
	return obj, ok
}

func (m *Memory) Set(ref string, obj models.Object) {
	m.entries[ref] = obj
}

func (m *Memory) Len() int {
	return len(m.entries)
}
