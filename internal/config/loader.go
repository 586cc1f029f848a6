package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"txtsync/pkg/logging"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration file at path. Relative
// destination paths are resolved against the directory holding the file.
// All failures are reported as *ParseError.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		suggestions := []string{}
		if errors.Is(err, os.ErrNotExist) {
			suggestions = append(suggestions, "create the file or fix the path passed on the command line")
		}
		return nil, newParseError(path, ErrorTypeIO, err, suggestions...)
	}

	doc, err := Parse(data, filepath.Dir(path))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.FilePath = path
			return nil, pe
		}
		return nil, newParseError(path, ErrorTypeParse, err)
	}

	logging.Debug("ConfigLoader", "Loaded %d destinations from %s", len(doc), path)
	return doc, nil
}

// Parse decodes a configuration document. baseDir is used to resolve
// relative destination paths; it may be empty.
func Parse(data []byte, baseDir string) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, newParseError("", ErrorTypeParse, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, newParseError("", ErrorTypeValidation, errors.New("configuration is empty"),
			"add a destination mapping or a list of destinations")
	}

	var doc Document
	if err := root.Content[0].Decode(&doc); err != nil {
		return nil, newParseError("", ErrorTypeParse, err)
	}

	seen := make(map[string]int, len(doc))
	for i := range doc {
		dest := doc[i].Destination
		if !filepath.IsAbs(dest) && baseDir != "" {
			dest = filepath.Join(baseDir, dest)
		}
		dest = filepath.Clean(dest)
		doc[i].Destination = dest

		if prev, dup := seen[dest]; dup {
			return nil, newParseError("", ErrorTypeValidation,
				fmt.Errorf("destination %s is listed twice (entries %d and %d)", dest, prev+1, i+1),
				"merge the source lists into one entry")
		}
		seen[dest] = i
	}

	return doc, nil
}
