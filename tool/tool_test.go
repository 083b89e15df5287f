package tool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/agentwire/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Schema & Validation Tests --------------------

type sampleArgs struct {
	A string `json:"a" description:"Field A"`
	B *int   `json:"b" description:"Optional pointer field"`
	C int    `json:"c,omitempty" description:"Omit empty field"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleArgs{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "a")
	assert.Contains(t, props, "b")
	assert.Contains(t, props, "c")

	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"a"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
		},
		// Mirror a JSON decoded schema shape
		"required": []any{"x"},
	}

	assert.NoError(t, util.ValidateParameters(map[string]any{"x": 5}, schema))

	err := util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "x", vErr.Field)

	err = util.ValidateParameters(map[string]any{"x": "not-int"}, schema)
	assert.Error(t, err)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "expected type integer")
}

// -------------------- Registry Tests --------------------

func echoTool() *FunctionTool {
	return NewFunctionTool("echo", "Echo text back", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
		"required": []string{"text"},
	}, func(_ context.Context, args map[string]any) (map[string]any, error) {
		return map[string]any{"text": args["text"]}, nil
	})
}

func TestRegistry_Execute(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())

	result, err := reg.Execute(context.Background(), "echo", map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", result["text"])
}

func TestRegistry_UnknownTool(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Execute(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistry_ValidationFailure(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())

	_, err := reg.Execute(context.Background(), "echo", map[string]any{})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestRegistry_ExecutionFailure(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewFunctionTool("boom", "Always fails", nil,
		func(_ context.Context, _ map[string]any) (map[string]any, error) {
			return nil, errors.New("kaput")
		}))

	_, err := reg.Execute(context.Background(), "boom", nil)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.Contains(t, toolErr.Message, "kaput")
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	reg.Register(echoTool())
	reg.Register(NewFileWriter())
	assert.ElementsMatch(t, []string{"echo", "file_writer"}, reg.Names())
}

// -------------------- FileWriter Tests --------------------

func TestFileWriter_DisallowedPath(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewFileWriter())

	_, err := reg.Execute(context.Background(), "file_writer", map[string]any{
		"path":    "/etc/passwd",
		"content": "x",
	})
	assert.True(t, IsPermissionError(err))
}

func TestFileWriter_Success(t *testing.T) {
	dir := t.TempDir() + "/"
	reg := NewRegistry()
	reg.Register(NewFileWriter(func(o *FileWriterOptions) {
		o.AllowedPrefixes = []string{dir}
	}))

	path := filepath.Join(dir, "nested", "a.txt")
	result, err := reg.Execute(context.Background(), "file_writer", map[string]any{
		"path":    path,
		"content": "x",
	})
	require.NoError(t, err)
	assert.Equal(t, path, result["path"])
	assert.Contains(t, result["result"], "Written to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestFileWriter_MissingArgs(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewFileWriter())

	_, err := reg.Execute(context.Background(), "file_writer", map[string]any{"path": "/tmp/a"})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}
