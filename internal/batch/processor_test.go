package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []PhraseEntry
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "one phrase per line",
			fileContent: `hello world
good morning
thank you`,
			want: []PhraseEntry{
				{Line: 1, Text: "hello world"},
				{Line: 2, Text: "good morning"},
				{Line: 3, Text: "thank you"},
			},
		},
		{
			name: "comments and blank lines",
			fileContent: `# greetings
hello

  # indented comment
bye  
`,
			want: []PhraseEntry{
				{Line: 2, Text: "hello"},
				{Line: 5, Text: "bye"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "hello\r\nworld\r\n",
			want: []PhraseEntry{
				{Line: 1, Text: "hello"},
				{Line: 2, Text: "world"},
			},
		},
		{
			name:        "whitespace collapses",
			fileContent: "see   you\tlater",
			want: []PhraseEntry{
				{Line: 1, Text: "see you later"},
			},
		},
		{
			name:        "punctuation is kept",
			fileContent: "a1 = b2!",
			want: []PhraseEntry{
				{Line: 1, Text: "a1 = b2!"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(t.TempDir(), "phrases.txt")
			if err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadBatchFile(tmpFile)
			if err != nil {
				t.Fatalf("ReadBatchFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	_, err := ReadBatchFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}
