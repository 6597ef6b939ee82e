package cfg

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extract builds the control flow graph for one function in a source file.
// It dispatches to the language-specific builder based on file extension.
func Extract(filePath string, functionName string) (*Graph, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".py":
		return ExtractPython(filePath, functionName)
	case ".php":
		return ExtractPHP(filePath, functionName)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filePath)
	}
}
