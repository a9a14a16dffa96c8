package llm

import "context"

type PartKind int

const (
	PartText PartKind = iota + 1
	// PartBlob carries inline bytes with their MIME type.
	PartBlob
	// PartFile references a document previously stored with UploadFile.
	PartFile
	// PartVideo references a video-platform URL the service fetches itself.
	PartVideo
)

type Part struct {
	Kind     PartKind
	Text     string
	Data     []byte
	MIMEType string
	URI      string
}

func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

func BlobPart(data []byte, mimeType string) Part {
	return Part{Kind: PartBlob, Data: data, MIMEType: mimeType}
}

func FilePart(ref FileRef) Part {
	return Part{Kind: PartFile, URI: ref.URI, MIMEType: ref.MIMEType}
}

func VideoPart(url string) Part {
	return Part{Kind: PartVideo, URI: url}
}

type FileRef struct {
	URI      string
	MIMEType string
}

// SessionConfig is fixed when a session is created. Changing tools or the
// model requires a new session.
type SessionConfig struct {
	Model             string
	SystemInstruction string
	Temperature       float32
	MaxOutputTokens   int32
	GoogleSearch      bool
	URLContext        bool
}

type Reply struct {
	Text string
	// Sources lists web pages the service used to ground the answer.
	Sources []string
}

type Session interface {
	Send(ctx context.Context, parts []Part) (Reply, error)
}

type ChatService interface {
	CreateSession(ctx context.Context, cfg SessionConfig) (Session, error)
	UploadFile(ctx context.Context, data []byte, mimeType string) (FileRef, error)
}
