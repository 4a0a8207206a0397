package message

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MartyrMind/email-cli-app/internal/task"
)

func newTestBuilder() *Builder {
	return NewBuilder(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestBuild_MarkdownRendering(t *testing.T) {
	b := newTestBuilder()

	body := "# Title\n\n**bold** text\nsecond line\n\n- one\n- two\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	msg, err := b.Build(task.EmailTask{ID: "t1", Subject: "subj", Body: body})
	require.NoError(t, err)

	// Plain-text part is the untouched Markdown source.
	assert.Equal(t, body, msg.Text)
	assert.Equal(t, "subj", msg.Subject)

	// HTML part carries headings, emphasis, hard line breaks, lists and tables.
	assert.Contains(t, msg.HTML, "<h1>Title</h1>")
	assert.Contains(t, msg.HTML, "<strong>bold</strong>")
	assert.Contains(t, msg.HTML, "<br")
	assert.Contains(t, msg.HTML, "<li>one</li>")
	assert.Contains(t, msg.HTML, "<table>")

	// Wrapped in the fixed document template.
	assert.Contains(t, msg.HTML, "<!DOCTYPE html>")
	assert.Contains(t, msg.HTML, `<meta charset="UTF-8">`)
	assert.Contains(t, msg.HTML, "viewport")
}

func TestBuild_EmptyBody(t *testing.T) {
	msg, err := newTestBuilder().Build(task.EmailTask{ID: "t1"})
	require.NoError(t, err)
	assert.Empty(t, msg.Text)
	assert.Contains(t, msg.HTML, "<!DOCTYPE html>")
}

func TestBuild_Deterministic(t *testing.T) {
	b := newTestBuilder()
	in := task.EmailTask{ID: "t1", Subject: "s", Body: "*hi*"}

	first, err := b.Build(in)
	require.NoError(t, err)
	second, err := b.Build(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_Attachments(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "отчёт.docx")
	require.NoError(t, os.WriteFile(report, []byte("doc-bytes"), 0600))

	b := newTestBuilder()
	msg, err := b.Build(task.EmailTask{
		ID:          "t1",
		Attachments: []string{report, filepath.Join(dir, "missing.pdf")},
	})
	require.NoError(t, err)

	// The missing file is skipped, not fatal.
	require.Len(t, msg.Attachments, 1)
	att := msg.Attachments[0]
	assert.Equal(t, "отчёт.docx", att.Filename)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		att.ContentType)
	assert.Equal(t, []byte("doc-bytes"), att.Content)
}

func TestContentTypeByExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.pdf", "application/pdf"},
		{"a.XLSX", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"a.ppt", "application/vnd.ms-powerpoint"},
		{"a.zip", "application/zip"},
		{"a.rar", "application/x-rar-compressed"},
		{"a.unknownext", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, contentTypeByExt(tt.path))
		})
	}
}
