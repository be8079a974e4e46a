// Package ymlfs builds directory trees on disk from a YAML description.
//
//	file.txt: null          # empty regular file
//	dir: {}                 # empty directory
//	sub:                    # directory with children
//	  inner.txt: null
//	link:
//	  symlink: file.txt     # symbolic link to file.txt
package ymlfs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FromYml parses YAML data describing a directory structure with symlinks and
// creates the corresponding structure on disk rooted at rootDir.
func FromYml(rootDir string, yamlData []byte) error {
	var root map[string]interface{}
	if err := yaml.Unmarshal(yamlData, &root); err != nil {
		return err
	}
	return createStructure(rootDir, root)
}

func createStructure(base string, node map[string]interface{}) error {
	for name, val := range node {
		path := filepath.Join(base, name)

		switch v := val.(type) {
		case nil:
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			f.Close()

		case map[string]interface{}:
			if target, ok := v["symlink"]; ok {
				targetStr, ok := target.(string)
				if !ok {
					return fmt.Errorf("symlink target for %s is not a string", name)
				}
				if err := os.Symlink(targetStr, path); err != nil {
					return err
				}
				continue
			}
			if err := os.MkdirAll(path, 0755); err != nil {
				return err
			}
			if err := createStructure(path, v); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unsupported value type for %s: %T", name, val)
		}
	}
	return nil
}
