// Package parser extracts shell commands from AI response text.
//
// Extraction is purely textual: fenced code blocks are located first, blocks
// whose language tag looks like a shell are scanned line by line, and lines
// that match a known command shape are emitted in document order. No shell
// syntax parsing happens here.
package parser

import (
	"regexp"
	"strings"
)

// CodeBlock is one fenced block from the response text.
type CodeBlock struct {
	Language string
	Code     string
}

// fenceRe matches triple-backtick blocks with an optional language tag.
// Matching is leftmost, non-overlapping; an unterminated fence never matches.
var fenceRe = regexp.MustCompile("```" + `([a-zA-Z0-9+#_.-]*)[ \t]*\r?\n(?s:(.*?))` + "```")

// shellLanguages are language tags eligible for command extraction. The empty
// tag is eligible too: unlabeled blocks are assumed to be shell.
var shellLanguages = map[string]bool{
	"":           true,
	"bash":       true,
	"sh":         true,
	"shell":      true,
	"zsh":        true,
	"cmd":        true,
	"powershell": true,
	"terminal":   true,
}

// commandPrefixes is the fixed ordered set of shapes a bare line must match
// to count as a command. Lines matching none are treated as prose or output
// echoes and dropped.
var commandPrefixes = []*regexp.Regexp{
	// package managers
	regexp.MustCompile(`^(npm|yarn|pnpm|pip3?|gem|bundle|composer|brew|apt|apt-get|yum|dnf)\b`),
	// interpreters and runtimes
	regexp.MustCompile(`^(node|python3?|ruby|perl|php|deno|bun)\b`),
	// compilers and build tools
	regexp.MustCompile(`^(go|cargo|rustc|javac?|mvn|gradle|make|cmake|gcc|g\+\+|clang|tsc|dotnet)\b`),
	// version control
	regexp.MustCompile(`^(git|svn|hg)\b`),
	// filesystem utilities
	regexp.MustCompile(`^(ls|cd|pwd|cat|head|tail|wc|cp|mv|rm|mkdir|rmdir|touch|ln|find|grep|sed|awk|tar|zip|unzip)\b`),
	// permissions
	regexp.MustCompile(`^(chmod|chown|chgrp|sudo)\b`),
	// network
	regexp.MustCompile(`^(curl|wget|ssh|scp|rsync|ping|nc)\b`),
	// containers, cloud, orchestration
	regexp.MustCompile(`^(docker|docker-compose|podman|kubectl|helm|terraform|ansible|ansible-playbook|aws|gcloud|az)\b`),
	// shells and environment
	regexp.MustCompile(`^(sh|bash|zsh|source|export|env|echo)\b`),
}

// ExtractCodeBlocks scans text for fenced code blocks in document order.
func ExtractCodeBlocks(text string) []CodeBlock {
	matches := fenceRe.FindAllStringSubmatch(text, -1)
	blocks := make([]CodeBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, CodeBlock{
			Language: strings.ToLower(m[1]),
			Code:     strings.TrimSpace(m[2]),
		})
	}
	return blocks
}

// IsShellBlock reports whether a block is eligible for command extraction.
func IsShellBlock(block CodeBlock) bool {
	return shellLanguages[block.Language]
}

// ExtractCommands pulls command lines out of a block's code, preserving
// source order. Duplicates are kept.
func ExtractCommands(code string) []string {
	var commands []string
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		// Prompt-echo convention: a leading $ or > marks the rest of the
		// line as a command unconditionally.
		if strings.HasPrefix(line, "$") || strings.HasPrefix(line, ">") {
			if cmd := strings.TrimSpace(line[1:]); cmd != "" {
				commands = append(commands, cmd)
			}
			continue
		}
		if looksLikeCommand(line) {
			commands = append(commands, line)
		}
	}
	return commands
}

// CommandsFromResponse is the full pipeline: blocks, shell filter, lines.
func CommandsFromResponse(text string) []string {
	var commands []string
	for _, block := range ExtractCodeBlocks(text) {
		if !IsShellBlock(block) {
			continue
		}
		commands = append(commands, ExtractCommands(block.Code)...)
	}
	return commands
}

func looksLikeCommand(line string) bool {
	for _, re := range commandPrefixes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
