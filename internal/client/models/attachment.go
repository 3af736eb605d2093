package models

import "bytes"

// AttachmentKind tells apart fresh uploads from files the server already holds.
type AttachmentKind int

const (
	AttachmentAbsent AttachmentKind = iota
	AttachmentBinary
	AttachmentReference
)

// Attachment is a binary upload, a reference to an existing server file,
// or nothing.
type Attachment struct {
	Kind     AttachmentKind
	FileName string
	Content  []byte
	URL      string
}

func BinaryAttachment(fileName string, content []byte) Attachment {
	return Attachment{Kind: AttachmentBinary, FileName: fileName, Content: content}
}

func ReferenceAttachment(url string) Attachment {
	if url == "" {
		return Attachment{}
	}
	return Attachment{Kind: AttachmentReference, URL: url}
}

func (a Attachment) IsBinary() bool { return a.Kind == AttachmentBinary }

func (a Attachment) IsAbsent() bool { return a.Kind == AttachmentAbsent }

// Equal compares kind, name, URL and content bytes.
func (a Attachment) Equal(b Attachment) bool {
	return a.Kind == b.Kind &&
		a.FileName == b.FileName &&
		a.URL == b.URL &&
		bytes.Equal(a.Content, b.Content)
}
