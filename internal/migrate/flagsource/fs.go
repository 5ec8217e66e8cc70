package flagsource

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dropDatabas3/nido/internal/migrate"
)

// FileSource lee la config de flags desde un archivo YAML. El archivo
// se relee en cada Fetch; el TTL del FlagManager ya acota la frecuencia.
type FileSource struct {
	path string
}

// NewFile crea un source sobre el archivo YAML dado.
func NewFile(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Fetch(context.Context) (migrate.FlagConfig, error) {
	doc, err := LoadFile(f.path)
	if err != nil {
		return migrate.FlagConfig{}, err
	}
	return doc.ToConfig()
}

// LoadFile lee y parsea el documento YAML de flags.
func LoadFile(path string) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("flagsource: leyendo %s: %w", path, err)
	}
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return Document{}, fmt.Errorf("flagsource: parseando %s: %w", path, err)
	}
	return doc, nil
}

// SaveFile serializa el documento al archivo (escritura atómica via
// rename). Lo usa nidoctl para togglear kill switches.
func SaveFile(path string, doc Document) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
