package model

import (
	"bytes"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxFileSize is the upload ceiling, 100 MB in binary units
const MaxFileSize int64 = 100 * 1024 * 1024

// Source provides the raw bytes of an uploaded file
type Source interface {
	Open() (io.ReadCloser, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func() (io.ReadCloser, error)

// Open implements Source
func (f SourceFunc) Open() (io.ReadCloser, error) {
	return f()
}

type bytesSource []byte

func (b bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// UploadedFile is a user-selected media file. It is never mutated after
// construction; a new selection replaces it wholesale.
type UploadedFile struct {
	Name     string
	Size     int64
	MIMEType string
	source   Source
}

// NewUploadedFile wraps an in-memory payload
func NewUploadedFile(name, mimeType string, data []byte) *UploadedFile {
	return &UploadedFile{
		Name:     name,
		Size:     int64(len(data)),
		MIMEType: mimeType,
		source:   bytesSource(data),
	}
}

// NewUploadedFileFromSource wraps a payload whose bytes are read lazily
func NewUploadedFileFromSource(name, mimeType string, size int64, source Source) *UploadedFile {
	return &UploadedFile{
		Name:     name,
		Size:     size,
		MIMEType: mimeType,
		source:   source,
	}
}

// Open returns a reader over the payload
func (f *UploadedFile) Open() (io.ReadCloser, error) {
	if f.source == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return f.source.Open()
}

// TooLarge reports whether the file exceeds MaxFileSize
func (f *UploadedFile) TooLarge() bool {
	return f.Size > MaxFileSize
}

// IsAudio reports whether the MIME type is audio/*
func (f *UploadedFile) IsAudio() bool {
	return strings.HasPrefix(f.MIMEType, "audio/")
}

// HumanSize formats Size for display, e.g. "1.5 MiB"
func (f *UploadedFile) HumanSize() string {
	return humanize.IBytes(uint64(f.Size))
}
