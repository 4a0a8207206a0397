// Package message builds the transmittable representation of an email task:
// a plain-text part (the original Markdown source), an HTML part rendered
// from it, and the encoded attachments. Building happens once per task and
// the result is reused for every recipient.
package message

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/MartyrMind/email-cli-app/internal/task"
)

// MaxAttachmentSize is the size above which an attachment is flagged with a
// warning. Many SMTP servers reject messages over 25 MB, but the actual limit
// is server-dependent, so oversized files are attached anyway.
const MaxAttachmentSize = 25 << 20

// Attachment is one encoded file ready for transmission.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is the built, transport-agnostic message. Text carries the original
// Markdown source as the fallback for clients without HTML rendering; the
// alternative-part ordering (least capable first) is the transport's job.
type Message struct {
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// Builder converts tasks into Messages. Safe for concurrent use.
type Builder struct {
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewBuilder creates a Builder. The GFM extension covers tables and lists;
// hard wraps turn single newlines into <br> like most chat-style editors
// expect.
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
			),
		),
		logger: logger,
	}
}

// Build converts t into a Message. Missing or unreadable attachments are
// skipped with a warning; the message stays sendable without them. The only
// side effects are reading attachment bytes and stat'ing their size.
func (b *Builder) Build(t task.EmailTask) (*Message, error) {
	var htmlBody bytes.Buffer
	if err := b.md.Convert([]byte(t.Body), &htmlBody); err != nil {
		return nil, fmt.Errorf("converting markdown for task %q: %w", t.ID, err)
	}

	wrapped, err := wrapHTML(htmlBody.String())
	if err != nil {
		return nil, fmt.Errorf("wrapping html for task %q: %w", t.ID, err)
	}

	msg := &Message{
		Subject: t.Subject,
		Text:    t.Body,
		HTML:    wrapped,
	}

	for _, path := range t.Attachments {
		att, ok := b.loadAttachment(t.ID, path)
		if !ok {
			continue
		}
		msg.Attachments = append(msg.Attachments, att)
	}

	return msg, nil
}

// loadAttachment reads one attachment from disk. Returns false if the file is
// missing or unreadable.
func (b *Builder) loadAttachment(taskID, path string) (Attachment, bool) {
	info, err := os.Stat(path)
	if err != nil {
		b.logger.Warn("attachment not found, skipping",
			"task_id", taskID, "path", path, "error", err)
		return Attachment{}, false
	}

	if info.Size() > MaxAttachmentSize {
		b.logger.Warn("attachment exceeds 25MB, many servers will reject it",
			"task_id", taskID, "path", path, "size_bytes", info.Size())
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the submitted task
	if err != nil {
		b.logger.Warn("attachment unreadable, skipping",
			"task_id", taskID, "path", path, "error", err)
		return Attachment{}, false
	}

	return Attachment{
		Filename:    filepath.Base(path),
		ContentType: contentTypeByExt(path),
		Content:     data,
	}, true
}
