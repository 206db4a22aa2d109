package retriever

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"finance-assistant/internal/api"
	"finance-assistant/internal/logger"
)

// embedBatchSize caps chunks per embeddings request.
const embedBatchSize = 64

// Ingestor loads documents and web pages into a vector store.
type Ingestor struct {
	embedder  Embedder
	store     *VectorStore
	chunkSize int
	overlap   int
	client    *api.Client
}

func NewIngestor(embedder Embedder, store *VectorStore, chunkSize, overlap int) *Ingestor {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 {
		overlap = 50
	}
	return &Ingestor{
		embedder:  embedder,
		store:     store,
		chunkSize: chunkSize,
		overlap:   overlap,
		client: api.NewClient(
			api.WithTimeout(30*time.Second),
			api.WithLogging(true),
		),
	}
}

// IngestFiles loads .txt and .csv files into the index. Unsupported
// extensions are skipped with a warning, missing files fail.
func (in *Ingestor) IngestFiles(ctx context.Context, paths []string) error {
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".txt", ".csv", ".md":
		default:
			logger.Warn(ctx, "Unsupported document type, skipping", "path", path, "ext", ext)
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read document %s: %w", path, err)
		}
		if err := in.addText(ctx, path, string(data)); err != nil {
			return err
		}
	}
	return nil
}

// IngestURL scrapes the visible text of a web page into the index.
func (in *Ingestor) IngestURL(ctx context.Context, pageURL string) error {
	resp, err := in.client.GET(ctx, pageURL, api.BrowserHeaders())
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	doc.Find("script, style, noscript").Remove()

	return in.addText(ctx, pageURL, doc.Text())
}

func (in *Ingestor) addText(ctx context.Context, source, text string) error {
	chunks := SplitText(text, in.chunkSize, in.overlap)
	if len(chunks) == 0 {
		logger.Warn(ctx, "Document produced no chunks", "source", source)
		return nil
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		vecs, err := in.embedder.Embed(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to embed %s: %w", source, err)
		}
		if err := in.store.Add(batch, vecs); err != nil {
			return err
		}
	}

	logger.Info(ctx, "Document indexed", "source", source, "chunks", len(chunks))
	return nil
}
