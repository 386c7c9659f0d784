// Package registry persists the project and publish-profile registries as JSON
// documents.
package registry

import (
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/abtkit/abt/internal/errs"
	"github.com/abtkit/abt/internal/filesystem"
	"github.com/xeipuuv/gojsonschema"
)

const (
	ProjectsFile = "projects.json"
	ProfilesFile = "publish_platforms.json"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// fileLocks holds one mutex per registry path so read-modify-write cycles on
// the same file never interleave within a process.
var fileLocks sync.Map

func lockFor(path string) *sync.Mutex {
	mu, _ := fileLocks.LoadOrStore(filepath.Clean(path), &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// document is a schema-checked JSON file holding a value of type T.
type document[T any] struct {
	fs     filesystem.FileSystem
	path   string
	schema string
	empty  func() *T
}

// read loads the document under the file lock.
func (d *document[T]) read() (*T, error) {
	mu := lockFor(d.path)
	mu.Lock()
	defer mu.Unlock()

	return d.load()
}

// update loads the document, applies fn and saves the result, all under the
// file lock. Nothing is written when fn fails.
func (d *document[T]) update(fn func(doc *T) error) error {
	mu := lockFor(d.path)
	mu.Lock()
	defer mu.Unlock()

	doc, err := d.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return d.save(doc)
}

func (d *document[T]) load() (*T, error) {
	if !d.fs.Exists(d.path) {
		doc := d.empty()
		if err := d.save(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	data, err := d.fs.ReadFile(d.path)
	if err != nil {
		return nil, errs.IO(fmt.Sprintf("failed to read %s", d.path), err)
	}

	if err := d.validate(data); err != nil {
		return nil, err
	}

	doc := d.empty()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errs.New(errs.KindConfiguration, fmt.Sprintf("failed to parse %s", d.path), err)
	}
	return doc, nil
}

func (d *document[T]) validate(data []byte) error {
	schemaBytes, err := schemaFS.ReadFile("schemas/" + d.schema)
	if err != nil {
		return fmt.Errorf("failed to load JSON schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return errs.New(errs.KindConfiguration, fmt.Sprintf("failed to parse %s", d.path), err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return errs.Configuration("%s does not match its schema: %s", d.path, strings.Join(problems, "; "))
}

func (d *document[T]) save(doc *T) error {
	if err := d.fs.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return errs.IO(fmt.Sprintf("failed to create %s", filepath.Dir(d.path)), err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.path, err)
	}
	data = append(data, '\n')

	if err := d.fs.WriteFileAtomic(d.path, data, 0644); err != nil {
		return errs.IO(fmt.Sprintf("failed to write %s", d.path), err)
	}
	return nil
}
