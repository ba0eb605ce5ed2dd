package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/prxgr4mmer/phone-market-analyst/internal/domain"
	"github.com/prxgr4mmer/phone-market-analyst/internal/ports"
)

//go:embed seed.yaml
var seed []byte

// document is the on-disk layout of a YAML catalog
type document struct {
	Retailers []domain.Retailer `yaml:"retailers"`
	Devices   []domain.Device   `yaml:"devices"`
}

// YAMLLoader reads a catalog from YAML bytes
type YAMLLoader struct {
	read func() ([]byte, error)
	name string
}

// NewFileLoader reads the catalog from a YAML file on disk
func NewFileLoader(path string) *YAMLLoader {
	return &YAMLLoader{
		read: func() ([]byte, error) { return os.ReadFile(path) },
		name: path,
	}
}

// NewEmbeddedLoader reads the seed catalog compiled into the binary
func NewEmbeddedLoader() *YAMLLoader {
	return &YAMLLoader{
		read: func() ([]byte, error) { return seed, nil },
		name: "embedded seed",
	}
}

// Load decodes all devices and retailers. Unknown fields are rejected.
func (l *YAMLLoader) Load(ctx context.Context) ([]domain.Device, []domain.Retailer, error) {
	data, err := l.read()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read catalog %s: %w", l.name, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: cannot parse %s: %v", domain.ErrInvalidCatalog, l.name, err)
	}

	return doc.Devices, doc.Retailers, nil
}

// Ensure YAMLLoader implements ports.CatalogLoader
var _ ports.CatalogLoader = (*YAMLLoader)(nil)
