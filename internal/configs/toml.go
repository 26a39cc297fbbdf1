package configs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ripenv/ripenv/internal/utils"

	"github.com/BurntSushi/toml"
)

// SaveTOML saves a struct to a TOML file with owner-only permissions.
func SaveTOML(filePath string, data interface{}) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(data); err != nil {
		return err
	}
	return utils.WriteFilesAtomically([]utils.PendingFile{{Path: filePath, Data: buf.Bytes(), Perm: 0600}}, true)
}

// LoadTOML loads a TOML file into a struct. Keys that do not map to a field
// are an error.
func LoadTOML(filePath string, data interface{}) error {
	meta, err := toml.DecodeFile(filePath, data)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("unknown configuration keys: %s", strings.Join(keys, ", "))
	}
	return nil
}
