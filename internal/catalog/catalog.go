// Package catalog manages the durable agent-to-voice mapping persisted as a
// single voices.json document next to the voice reference audio files.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"voiced/internal/common/fsutil"
)

// DefaultAgentName is used when the document does not name a default voice.
const DefaultAgentName = "da"

// Entry describes one registered voice.
type Entry struct {
	File        string `json:"file"`
	Description string `json:"description"`
	Instruct    string `json:"instruct"`
}

// document is the on-disk schema of voices.json.
type document struct {
	DefaultVoice string           `json:"default_voice"`
	Voices       map[string]Entry `json:"voices"`
}

// Catalog is the in-memory view of voices.json. Mutations persist
// synchronously; the document on disk is always replaced atomically.
type Catalog struct {
	mu   sync.Mutex
	dir  string
	path string
	doc  document
}

// New returns a catalog rooted at dir. Call Load before use.
func New(dir string) *Catalog {
	return &Catalog{
		dir:  dir,
		path: filepath.Join(dir, "voices.json"),
		doc:  emptyDocument(),
	}
}

func emptyDocument() document {
	return document{DefaultVoice: DefaultAgentName, Voices: map[string]Entry{}}
}

// Load reads voices.json. A missing file yields an empty catalog with the
// fixed default agent so startup survives a fresh voices directory. A present
// but malformed document is an error.
func (c *Catalog) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			c.doc = emptyDocument()
			return nil
		}
		return fmt.Errorf("read %s: %w", c.path, err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", c.path, err)
	}
	if doc.Voices == nil {
		doc.Voices = map[string]Entry{}
	}
	if doc.DefaultVoice == "" {
		doc.DefaultVoice = DefaultAgentName
	}
	c.doc = doc
	return nil
}

// Get returns the entry for agentName.
func (c *Catalog) Get(agentName string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.doc.Voices[agentName]
	return e, ok
}

// Has reports whether agentName is registered.
func (c *Catalog) Has(agentName string) bool {
	_, ok := c.Get(agentName)
	return ok
}

// Len returns the number of registered voices.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.doc.Voices)
}

// DefaultVoice returns the configured default agent name. The referenced
// agent may be absent from the catalog; callers treat that as a recoverable
// lookup failure.
func (c *Catalog) DefaultVoice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.DefaultVoice
}

// Dir returns the voices directory.
func (c *Catalog) Dir() string { return c.dir }

// FilePath returns the absolute path of the agent's reference audio file.
func (c *Catalog) FilePath(agentName string) (string, bool) {
	e, ok := c.Get(agentName)
	if !ok {
		return "", false
	}
	return filepath.Join(c.dir, e.File), true
}

// Named pairs an entry with its agent name for listings.
type Named struct {
	Name string
	Entry
}

// List returns all entries sorted by agent name.
func (c *Catalog) List() []Named {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Named, 0, len(c.doc.Voices))
	for name, e := range c.doc.Voices {
		out = append(out, Named{Name: name, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Add registers a new voice and persists the document before returning. If
// the write fails the in-memory insertion is rolled back so the caller never
// believes an unpersisted voice was registered.
func (c *Catalog) Add(agentName, file, description, instruct string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, existed := c.doc.Voices[agentName]
	c.doc.Voices[agentName] = Entry{File: file, Description: description, Instruct: instruct}
	if err := c.saveLocked(); err != nil {
		if existed {
			c.doc.Voices[agentName] = prev
		} else {
			delete(c.doc.Voices, agentName)
		}
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

func (c *Catalog) saveLocked() error {
	if err := fsutil.EnsureDir(c.dir); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c.doc, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(c.path, b, 0o644)
}

// ReferenceText returns the deterministic scripted phrase used to establish
// or validate an agent's voice. Pure function of the name.
func ReferenceText(agentName string) string {
	return fmt.Sprintf("Hello there! I'm %s, your AI assistant. What are we doing?", capitalize(agentName))
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
