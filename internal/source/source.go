// Package source models what the chat can be pointed at: either a heading
// picked from the analytics table of contents or an uploaded case file.
package source

import "time"

// Kind tags the variant held by a Source.
type Kind int

const (
	KindNone Kind = iota
	KindHeading
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindFile:
		return "file"
	default:
		return "none"
	}
}

// Status is the ingestion state the backend reports for a file.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
)

// Ready reports whether the file has been ingested and can be queried.
func (s Status) Ready() bool { return s == StatusSuccess || s == "" }

// FileInfo describes an uploaded file or note.
type FileInfo struct {
	ID         string
	Title      string
	SourceType string // file, note or scan
	FileType   string
	URL        string
	CreatedAt  time.Time
	Status     Status
	SizeBytes  int64
	Chunks     int
	Error      string
}

// Source is a tagged union. The zero value holds nothing.
type Source struct {
	kind    Kind
	heading string
	file    FileInfo
}

// Heading wraps a table-of-contents heading.
func Heading(text string) Source {
	return Source{kind: KindHeading, heading: text}
}

// File wraps file metadata.
func File(info FileInfo) Source {
	return Source{kind: KindFile, file: info}
}

func (s Source) Kind() Kind { return s.kind }

// IsZero reports whether no source is selected.
func (s Source) IsZero() bool { return s.kind == KindNone }

func (s Source) AsHeading() (string, bool) {
	return s.heading, s.kind == KindHeading
}

func (s Source) AsFile() (FileInfo, bool) {
	return s.file, s.kind == KindFile
}

// Title is the human label for either variant.
func (s Source) Title() string {
	switch s.kind {
	case KindHeading:
		return s.heading
	case KindFile:
		return s.file.Title
	default:
		return ""
	}
}
