package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkaminski/docqa"
	"google.golang.org/genai"
)

const defaultGenerativeModel = "gemini-2.5-flash"

// maxContextChars bounds the grounding context sent to the model so one
// oversized section cannot blow the prompt budget.
const maxContextChars = 12000

// Ensure Synthesizer implements docqa.Synthesizer at compile time.
var _ docqa.Synthesizer = (*Synthesizer)(nil)

// Synthesizer assembles answers from retrieved sections using Google Gemini.
type Synthesizer struct {
	client *genai.Client
	model  string
}

// NewSynthesizer creates a new Synthesizer. An empty model uses the default.
func NewSynthesizer(client *genai.Client, model string) *Synthesizer {
	if model == "" {
		model = defaultGenerativeModel
	}
	return &Synthesizer{client: client, model: model}
}

// Synthesize answers the question grounded in the retrieved sections,
// using recent conversation turns to resolve references to earlier turns.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, results []docqa.RetrievalResult, history []*docqa.Message) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", docqa.Errorf(docqa.EINVALID, "question required")
	}
	if len(results) == 0 {
		return "", docqa.Errorf(docqa.EINVALID, "at least one retrieved section required")
	}

	prompt := BuildUserPrompt(question, results, history)
	config := BuildConfig()

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", docqa.Errorf(docqa.EINTERNAL, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about product documentation. Answer based only on the documentation sections provided. Cite section numbers in brackets (e.g., [1]) when you draw from them. If the answer is not in the documentation, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing the retrieved sections,
// recent conversation turns, and the question.
func BuildUserPrompt(question string, results []docqa.RetrievalResult, history []*docqa.Message) string {
	var sb strings.Builder

	sb.WriteString("<sections>\n")
	remaining := maxContextChars
	for i, r := range results {
		section := r.Section
		content := section.Content
		if len(content) > remaining {
			content = content[:remaining]
		}
		remaining -= len(content)

		sb.WriteString("<section>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		fmt.Fprintf(&sb, "<page>%s</page>\n", section.DocumentTitle)
		if len(section.Breadcrumb) > 0 {
			fmt.Fprintf(&sb, "<breadcrumb>%s</breadcrumb>\n", strings.Join(section.Breadcrumb, " > "))
		}
		if section.Header != "" {
			fmt.Fprintf(&sb, "<header>%s</header>\n", section.Header)
		}
		fmt.Fprintf(&sb, "<source>%s</source>\n", section.DocumentURL)
		fmt.Fprintf(&sb, "<content>%s</content>\n", content)
		sb.WriteString("</section>\n")

		if remaining <= 0 {
			break
		}
	}
	sb.WriteString("</sections>\n")

	if len(history) > 0 {
		sb.WriteString("\nRecent conversation:\n")
		for _, msg := range history {
			switch msg.Type {
			case docqa.MessageQuestion:
				fmt.Fprintf(&sb, "Q: %s\n", msg.Content)
			case docqa.MessageAnswer:
				fmt.Fprintf(&sb, "A: %s\n", msg.Content)
			}
		}
	}

	fmt.Fprintf(&sb, "\nQuestion: %s", question)
	return sb.String()
}
