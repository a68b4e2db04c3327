package blobstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	body         []byte
	contentType  string
	lastModified time.Time
}

// Memory is a process-local Store for development and tests.
type Memory struct {
	mu         sync.RWMutex
	objects    map[string]memoryObject
	publicBase string
	now        func() time.Time
}

var _ Store = (*Memory)(nil)

func NewMemory(publicBase string) *Memory {
	if publicBase == "" {
		publicBase = "memory://blob"
	}
	return &Memory{
		objects:    map[string]memoryObject{},
		publicBase: strings.TrimSuffix(publicBase, "/"),
		now:        time.Now,
	}
}

func (m *Memory) Put(_ context.Context, key string, body []byte, contentType string) error {
	cp := make([]byte, len(body))
	copy(cp, body)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{body: cp, contentType: contentType, lastModified: m.now()}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *Memory) List(_ context.Context, prefix string) ([]Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	objects := []Object{}
	for k, o := range m.objects {
		if strings.HasPrefix(k, prefix) {
			objects = append(objects, Object{Key: k, LastModified: o.lastModified})
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (m *Memory) PublicURL(key string) string {
	return m.publicBase + "/" + strings.TrimPrefix(key, "/")
}

// Get returns a stored object body and content type.
func (m *Memory) Get(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o.body, o.contentType, ok
}

// Touch overrides the modification time of an object.
func (m *Memory) Touch(key string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.objects[key]; ok {
		o.lastModified = at
		m.objects[key] = o
	}
}
