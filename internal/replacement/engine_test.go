package replacement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxrename/internal/errors"
)

func TestEngineRename(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		template string
		opts     Options
		input    string
		expected string
		matched  bool
	}{
		{name: "positional group", pattern: `img(\d+)`, template: "photo_$1", input: "img001.png", expected: "photo_001.png", matched: true},
		{name: "swap groups", pattern: `(\w+)-(\w+)`, template: "$2-$1", input: "left-right.md", expected: "right-left.md", matched: true},
		{name: "named groups", pattern: `(?P<year>\d{4})-(?P<month>\d{2})`, template: "${month}.${year}", input: "2024-05 report.pdf", expected: "05.2024 report.pdf", matched: true},
		{name: "braced number", pattern: `(\d+)`, template: "${1}x", input: "7.txt", expected: "7x.txt", matched: true},
		{name: "digit group followed by text", pattern: `(\d+)`, template: "$1_x", input: "7", expected: "7_x", matched: true},
		{name: "two digits only when the group exists", pattern: `(a)`, template: "$12", input: "a", expected: "a2", matched: true},
		{name: "group zero is the whole match", pattern: `b+`, template: "<$0>", input: "abbc", expected: "a<bb>c", matched: true},
		{name: "whole match", pattern: `\d+`, template: "[$&]", input: "track7.ogg", expected: "track[7].ogg", matched: true},
		{name: "text before match", pattern: `-`, template: "$`", input: "a-b", expected: "aab", matched: true},
		{name: "text after match", pattern: `-`, template: "$'", input: "a-b", expected: "abb", matched: true},
		{name: "escaped dollar", pattern: `cost`, template: "$$", input: "cost.txt", expected: "$.txt", matched: true},
		{name: "missing group is empty", pattern: `(a)`, template: "[$3]", input: "a.txt", expected: "[].txt", matched: true},
		{name: "unknown reference is literal", pattern: `a`, template: "$z", input: "a", expected: "$z", matched: true},
		{name: "unterminated brace is literal", pattern: `a`, template: "${1", input: "a", expected: "${1", matched: true},
		{name: "empty template strips", pattern: `_copy`, template: "", input: "doc_copy.txt", expected: "doc.txt", matched: true},
		{name: "all matches by default", pattern: `o`, template: "0", input: "foo.txt", expected: "f00.txt", matched: true},
		{name: "first match only", pattern: `o`, template: "0", opts: Options{FirstOnly: true}, input: "foo.txt", expected: "f0o.txt", matched: true},
		{name: "whole name", pattern: `.*`, template: "same", input: "a.txt", expected: "same", matched: true},
		{name: "keep extension", pattern: `.*`, template: "same", opts: Options{KeepExtension: true}, input: "a.txt", expected: "same.txt", matched: true},
		{name: "keep extension on dotfile", pattern: `bash`, template: "zsh", opts: Options{KeepExtension: true}, input: ".bashrc", expected: ".zshrc", matched: true},
		{name: "no match", pattern: `zzz`, template: "x", input: "a.txt", expected: "a.txt", matched: false},
		{name: "match that changes nothing", pattern: `a`, template: "a", input: "a.txt", expected: "a.txt", matched: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewEngine(tt.pattern, tt.template, tt.opts)
			require.NoError(t, err)

			got, matched := engine.Rename(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestNewEngineInvalidPattern(t *testing.T) {
	engine, err := NewEngine(`img(`, "x", Options{})
	require.Error(t, err)
	assert.Nil(t, engine)
	assert.True(t, errors.IsArgument(err), "invalid regex is an argument error")
}

func TestEngineAccessors(t *testing.T) {
	engine, err := NewEngine(`img(\d+)`, "photo_$1", Options{})
	require.NoError(t, err)

	assert.Equal(t, `img(\d+)`, engine.Pattern())
	assert.Equal(t, "photo_$1", engine.Template())
}
