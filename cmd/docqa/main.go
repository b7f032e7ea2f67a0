package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkaminski/docqa"
	"github.com/pkaminski/docqa/fs"
	"github.com/pkaminski/docqa/gemini"
	docqahttp "github.com/pkaminski/docqa/http"
	"github.com/pkaminski/docqa/memory"
	"github.com/pkaminski/docqa/qa"
	docslog "github.com/pkaminski/docqa/slog"
	"github.com/pkaminski/docqa/sqlite"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// Corpus file path or URL. Set before calling Run().
	CorpusPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SessionService docqa.SessionService
	QAService      docqa.QAService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:     defaultDBPath(),
		CorpusPath: os.Getenv("DOCQA_CORPUS"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docqa"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docqa --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The selected command comes from the parser, not the raw argument
	// list: global flags may precede the command name.
	cmd := kongCtx.Command()
	if i := strings.IndexByte(cmd, ' '); i >= 0 {
		cmd = cmd[:i]
	}

	if cli.Corpus != "" {
		m.CorpusPath = cli.Corpus
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCQA_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.SessionService = sqlite.NewSessionService(m.DB)
	deps.DB = m.DB
	deps.Sessions = m.SessionService

	// The ask, reload, and health commands need the full pipeline:
	// embeddings and synthesis via Gemini, the corpus loader, and the
	// indexer.
	if cmd == "ask" || cmd == "reload" || cmd == "health" {
		if m.CorpusPath == "" {
			fmt.Fprintln(stderr, "No corpus configured. Set DOCQA_CORPUS or pass --corpus with a corpus JSON file or URL.")
			return fmt.Errorf("no corpus configured")
		}

		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		// Corpora can live on disk or behind an HTTP endpoint.
		var loader docqa.CorpusLoader = fs.NewCorpusLoader(logger)
		if strings.HasPrefix(m.CorpusPath, "http://") || strings.HasPrefix(m.CorpusPath, "https://") {
			loader = docqahttp.NewCorpusLoader(docqahttp.WithLogger(logger))
		}

		embedder := gemini.NewEmbedder(client, embeddingModel)
		m.QAService = docslog.NewLoggingQAService(&qa.Service{
			Loader:      loader,
			Embedder:    embedder,
			Indexer:     memory.NewIndexer(embedder, indexConcurrency),
			Synthesizer: gemini.NewSynthesizer(client, defaultModel),
			Sessions:    m.SessionService,
			Source:      m.CorpusPath,
			Limiter:     rate.NewLimiter(rate.Limit(embedRequestsPerSecond), 1),
			Logger:      logger,
		}, logger)
		deps.QA = m.QAService
	}

	return kongCtx.Run(deps)
}

const defaultModel = "gemini-2.5-flash"
const embeddingModel = "gemini-embedding-001"
const indexConcurrency = 4
const embedRequestsPerSecond = 5

func defaultDBPath() string {
	if path := os.Getenv("DOCQA_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docqa.db"
	}
	dir := filepath.Join(home, ".docqa")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docqa.db")
}
