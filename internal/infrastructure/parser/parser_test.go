package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractCodeBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []CodeBlock
	}{
		{
			name: "single labeled block",
			text: "Run this:\n```bash\nnpm install\n```\nDone.",
			want: []CodeBlock{{Language: "bash", Code: "npm install"}},
		},
		{
			name: "unlabeled block",
			text: "```\nls -la\n```",
			want: []CodeBlock{{Language: "", Code: "ls -la"}},
		},
		{
			name: "multiple blocks in document order",
			text: "```sh\necho one\n```\ntext\n```python\nprint(2)\n```",
			want: []CodeBlock{
				{Language: "sh", Code: "echo one"},
				{Language: "python", Code: "print(2)"},
			},
		},
		{
			name: "unterminated fence yields nothing",
			text: "```bash\nnpm install",
			want: []CodeBlock{},
		},
		{
			name: "no blocks",
			text: "just prose, no code here",
			want: []CodeBlock{},
		},
		{
			name: "uppercase tag is normalized",
			text: "```Bash\npwd\n```",
			want: []CodeBlock{{Language: "bash", Code: "pwd"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCodeBlocks(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractCodeBlocks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsShellBlock(t *testing.T) {
	eligible := []string{"", "bash", "sh", "shell", "zsh", "cmd", "powershell", "terminal"}
	for _, lang := range eligible {
		if !IsShellBlock(CodeBlock{Language: lang}) {
			t.Errorf("language %q should be eligible", lang)
		}
	}
	for _, lang := range []string{"python", "go", "json", "yaml", "javascript"} {
		if IsShellBlock(CodeBlock{Language: lang}) {
			t.Errorf("language %q should not be eligible", lang)
		}
	}
}

func TestExtractCommands(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			name: "skips blanks and comments",
			code: "# set up\n\nnpm install\n// build it\nnpm run build",
			want: []string{"npm install", "npm run build"},
		},
		{
			name: "prompt echo marker strips unconditionally",
			code: "$ some-custom-tool --flag\n> another-tool run",
			want: []string{"some-custom-tool --flag", "another-tool run"},
		},
		{
			name: "prose lines are dropped",
			code: "This installs the deps:\nnpm install\nExpected output: added 12 packages",
			want: []string{"npm install"},
		},
		{
			name: "duplicates preserved in order",
			code: "go test ./...\ngo test ./...",
			want: []string{"go test ./...", "go test ./..."},
		},
		{
			name: "prefix must be a whole token",
			code: "gofmt-check-helper\ngit status",
			want: []string{"git status"},
		},
		{
			name: "bare marker emits nothing",
			code: "$\n>",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCommands(tt.code)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractCommands mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCommandsFromResponse(t *testing.T) {
	text := "First install:\n```bash\nnpm install\n```\nThen this is Python, not shell:\n" +
		"```python\nimport os\n```\nFinally:\n```\ngit commit -m \"msg\"\n```"

	want := []string{"npm install", `git commit -m "msg"`}
	got := CommandsFromResponse(text)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CommandsFromResponse mismatch (-want +got):\n%s", diff)
	}
}
