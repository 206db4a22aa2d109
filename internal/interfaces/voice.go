package interfaces

import (
	"context"
	"io"
)

// Transcriber converts recorded speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer converts answer text to spoken audio (mp3 bytes).
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
