package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/storypipe/storypipe/message"
)

// WriteJSON persists the final package to path as indented JSON, creating
// parent directories as needed.
func WriteJSON(msg *message.Message, path string) error {
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode final package: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write final package: %w", err)
	}
	return nil
}
