package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultAllowedPrefixes are the destinations file_writer accepts when no
// explicit allow-list is configured.
var DefaultAllowedPrefixes = []string{"./output/", "/tmp/"}

// FileWriter is the built-in "file_writer" tool. It writes text content to a
// path, creating parent directories as needed. Destinations are restricted to
// an allow-list of path prefixes; anything else fails with a
// PERMISSION_DENIED tool error.
type FileWriter struct {
	allowedPrefixes []string
}

// FileWriterOptions configures the built-in file writer.
type FileWriterOptions struct {
	// AllowedPrefixes lists the path prefixes writes are permitted under.
	// Defaults to DefaultAllowedPrefixes.
	AllowedPrefixes []string
}

// NewFileWriter constructs the file_writer tool.
func NewFileWriter(optFns ...func(o *FileWriterOptions)) *FileWriter {
	opts := FileWriterOptions{AllowedPrefixes: DefaultAllowedPrefixes}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &FileWriter{allowedPrefixes: opts.AllowedPrefixes}
}

// Name implements Tool.
func (t *FileWriter) Name() string { return "file_writer" }

// Description implements Tool.
func (t *FileWriter) Description() string {
	return "Write text content to a file under an allow-listed path prefix"
}

// Parameters implements Tool.
func (t *FileWriter) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"path":    map[string]any{"type": "string", "description": "Destination file path"},
			"content": map[string]any{"type": "string", "description": "Text content to write"},
		},
		"required": []string{"path", "content"},
	}
}

// Call implements Tool. The result payload reports the written path.
func (t *FileWriter) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	path, _ := args["path"].(string)
	content, _ := args["content"].(string)

	if !t.allowed(path) {
		return nil, &ToolError{
			Tool:    t.Name(),
			Message: fmt.Sprintf("path not allowed: %s", path),
			Code:    CodePermission,
		}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create parent directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	return map[string]any{
		"result": fmt.Sprintf("Written to %s", path),
		"path":   path,
	}, nil
}

func (t *FileWriter) allowed(path string) bool {
	for _, prefix := range t.allowedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
