// Package task defines the outbound email task value type, the per-attempt
// delivery statuses, and the deterministic notification id derivation shared
// by the engine and its observers.
package task

import "strings"

// Status is a delivery attempt state as reported to the status sink.
type Status string

// Attempt statuses. Waiting is never emitted by the engine; it is the implicit
// initial state owned by the caller (e.g. a UI placeholder).
const (
	StatusWaiting Status = "waiting"
	StatusSending Status = "sending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Terminal reports whether s is an end state for a delivery attempt.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// EmailTask is one user-submitted send request. It is immutable once handed
// to the dispatcher: neither the dispatcher nor any transport mutates it.
type EmailTask struct {
	// ID is an opaque unique identifier assigned at creation, never reused.
	ID string

	// Recipients is the ordered, non-empty list of destination addresses.
	Recipients []string

	// Subject and Body (Markdown source, may be empty) of the message.
	Subject string
	Body    string

	// Attachments are file-system paths; existence is not guaranteed at
	// enqueue time. Missing files are skipped at build time.
	Attachments []string

	// Profile names the server profile used for real transmission. It is
	// resolved at send time, not at enqueue time.
	Profile string
}

// Clone returns a deep copy of t. The dispatcher snapshots every enqueued
// task so that a caller retaining a reference cannot affect an in-flight
// send.
func (t EmailTask) Clone() EmailTask {
	c := t
	c.Recipients = append([]string(nil), t.Recipients...)
	c.Attachments = append([]string(nil), t.Attachments...)
	return c
}

// NotificationID derives the deterministic identifier correlating one
// (task, recipient) delivery attempt with its external observer entry:
// "@" becomes "_at_" and "." becomes "_" in the recipient, prefixed with
// the task id and an underscore.
func NotificationID(taskID, recipient string) string {
	safe := strings.ReplaceAll(recipient, "@", "_at_")
	safe = strings.ReplaceAll(safe, ".", "_")
	return taskID + "_" + safe
}
