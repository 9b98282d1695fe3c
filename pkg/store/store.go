// Package store provides the durable record store for the bot's named
// collections. Each collection lives in its own JSON document under the
// data directory; Load returns the whole collection and Save rewrites the
// whole file. Writers for the same collection are serialized with a
// per-collection mutex; different collections stay independent.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/VolleyStudios/VolleyBotGo/pkg/logger"
	json "github.com/goccy/go-json"
)

// Collection names used by the bot.
const (
	CollectionWarnings = "warnings"
	CollectionMatches  = "partidos"
	CollectionTeams    = "equipos"
)

// Store manages the data directory and per-collection locks
type Store struct {
	dir   string
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var (
	store     *Store
	storeOnce sync.Once
)

// Init initializes the global store instance
func Init(dir string) (*Store, error) {
	var err error
	storeOnce.Do(func() {
		store, err = New(dir)
	})
	return store, err
}

// Get returns the global store instance
func Get() *Store {
	return store
}

// New creates a Store rooted at dir, creating the directory if needed
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creando el directorio de datos: %w", err)
	}

	logger.System(fmt.Sprintf("Almacén de datos listo en '%s'", dir), "Store")

	return &Store{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Dir returns the data directory path
func (s *Store) Dir() string {
	return s.dir
}

// path returns the backing file for a collection
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// lock returns the mutex for a collection name, creating it on first use
func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.locks[name]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[name] = l
	return l
}

// Collection provides typed access to one named collection
type Collection[T any] struct {
	name  string
	store *Store
}

// NewCollection creates a typed view over a named collection
func NewCollection[T any](name string, s *Store) *Collection[T] {
	return &Collection[T]{name: name, store: s}
}

// Name returns the collection name
func (c *Collection[T]) Name() string {
	return c.name
}

// Load reads the persisted collection. If no file exists yet, the given
// empty default container is returned unchanged.
func (c *Collection[T]) Load(def T) (T, error) {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	data, err := os.ReadFile(c.store.path(c.name))
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return def, fmt.Errorf("error leyendo colección '%s': %w", c.name, err)
	}

	if err := json.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("error decodificando colección '%s': %w", c.name, err)
	}

	return def, nil
}

// Save serializes the whole collection and rewrites the backing file.
// The write is a full, non-incremental overwrite.
func (c *Collection[T]) Save(value T) error {
	l := c.store.lock(c.name)
	l.Lock()
	defer l.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializando colección '%s': %w", c.name, err)
	}

	if err := os.WriteFile(c.store.path(c.name), data, 0644); err != nil {
		logger.Error(fmt.Sprintf("Error guardando colección '%s': %v", c.name, err), "Store")
		return fmt.Errorf("error guardando colección '%s': %w", c.name, err)
	}

	return nil
}
