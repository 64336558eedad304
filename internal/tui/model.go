package tui

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docchat/internal/domain"
	"docchat/internal/normalizer"
	"docchat/internal/service"
)

// QAPort is the TUI-facing subset of the QA service.
type QAPort interface {
	Ask(ctx context.Context, documentID, question string) (service.Answer, error)
	Summarize(ctx context.Context, documentID string) (string, error)
	History(documentID string) ([]domain.QuestionRecord, error)
}

// Model is the Bubble Tea model for the document chat.
type Model struct {
	service      QAPort
	docID        string
	docTitle     string
	input        textinput.Model
	viewport     viewport.Model
	answer       *service.Answer
	status       string
	cursor       int
	ready        bool
	lastQuestion string
}

// New creates a chat model bound to one ingested document.
func New(svc QAPort, docID, docTitle string) Model {
	ti := textinput.New()
	ti.Prompt = "? "
	ti.Placeholder = "Ask about the document and press Enter (ctrl+s summary, ctrl+r history)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  svc,
		docID:    docID,
		docTitle: docTitle,
		input:    ti,
		viewport: vp,
		status:   "Document loaded. Ask a question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header+title, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.ask(q)
				m.input.Reset()
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "ctrl+s":
			summary, err := m.service.Summarize(context.Background(), m.docID)
			if err != nil {
				m.status = "Error: " + err.Error()
			} else {
				m.status = "Document summary"
				m.viewport.SetContent(summary)
			}
			return m, nil
		case "ctrl+r":
			m.viewport.SetContent(m.renderHistory())
			m.status = "Question history"
			return m, nil
		case "down":
			if m.answer != nil && len(m.answer.Sources) > 0 {
				m.cursor = (m.cursor + 1) % (len(m.answer.Sources) + 1)
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		case "up":
			if m.answer != nil && len(m.answer.Sources) > 0 {
				n := len(m.answer.Sources) + 1
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderAnswer())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) ask(question string) {
	ans, err := m.service.Ask(context.Background(), m.docID, question)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.answer = nil
		return
	}
	m.answer = &ans
	m.cursor = 0
	m.lastQuestion = question
	if ans.Answerable {
		m.status = fmt.Sprintf("Confidence %d%%", ans.Confidence)
	} else {
		m.status = fmt.Sprintf("Insufficient evidence (confidence %d%%)", ans.Confidence)
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("DocChat")
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.docTitle)
	body := answerBoxStyle.Render(m.viewport.View())
	input := questionBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + " " + title + "\n" + body + "\n" + input + "\n" + status
}

// renderAnswer shows the answer page at cursor 0 and one retrieved source
// per further cursor position.
func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet."
	}
	if m.cursor == 0 {
		return m.answer.Text
	}
	src := m.answer.Sources[m.cursor-1]
	title := fmt.Sprintf("Source %d/%d  rank=%d  score=%.3f", m.cursor, len(m.answer.Sources), src.Rank, src.Score)
	return title + "\n\n" + highlightBestSentence(src.Text, m.lastQuestion)
}

func (m Model) renderHistory() string {
	records, err := m.service.History(m.docID)
	if err != nil {
		return "Error: " + err.Error()
	}
	if len(records) == 0 {
		return "No questions asked yet."
	}
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "[%s] %d%%\nQ: %s\nA: %s\n\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04"), rec.Confidence, rec.Question, rec.Answer)
	}
	return b.String()
}

var (
	answerBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sentenceRe       = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence emphasizes the sentence with the highest token
// overlap against the question.
func highlightBestSentence(text, question string) string {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(question) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) < 2 {
		return text
	}
	qset := make(map[string]struct{})
	for _, tok := range normalizer.Tokens(question) {
		qset[tok] = struct{}{}
	}
	best, bestScore := -1, 0.0
	for i, sent := range sentences {
		if score := overlapScore(qset, sent); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return text
	}
	return strings.Replace(text, sentences[best], highlightStyle.Render(sentences[best]), 1)
}

// overlapScore is the Ochiai coefficient between the question token set and
// the sentence token set.
func overlapScore(qset map[string]struct{}, sentence string) float64 {
	stoks := normalizer.Tokens(sentence)
	seen := make(map[string]struct{}, len(stoks))
	inter := 0
	for _, tok := range stoks {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := qset[tok]; ok {
			inter++
		}
	}
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(seen))))
}
