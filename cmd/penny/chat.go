package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/penny-for-your-thoughts/internal/chat"
	"github.com/Veraticus/penny-for-your-thoughts/internal/llm"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
	"github.com/Veraticus/penny-for-your-thoughts/internal/session"
	"github.com/Veraticus/penny-for-your-thoughts/internal/storage"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the income assistant from the terminal",
		Long: `Open an interactive chat with the income assistant against the local
database. Useful for trying the dialogue without running a frontend.`,
		RunE: runChat,
	}
}

const localChatUser = "local-chat-user"

func runChat(cmd *cobra.Command, _ []string) error {
	dbPath, err := databasePath()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	llmCfg, err := createLLMConfig()
	if err != nil {
		return err
	}
	client, err := llm.NewClient(llmCfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	extractor := llm.NewExtractor(client, llmCfg, slog.Default())
	defer extractor.Close()

	assistant := chat.NewAssistant(session.NewMemoryStore(0), extractor, store, slog.Default())

	program := tea.NewProgram(newChatModel(cmd.Context(), assistant))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// turnMsg carries the assistant's reply back into the update loop.
type turnMsg struct {
	err    error
	result model.TurnResult
}

type chatModel struct {
	ctx       context.Context
	assistant *chat.Assistant
	input     textinput.Model
	spinner   spinner.Model
	lines     []string
	waiting   bool
}

func newChatModel(ctx context.Context, assistant *chat.Assistant) chatModel {
	input := textinput.New()
	input.Placeholder = "I earned 500000 from freelancing on 2024-05-12..."
	input.Focus()
	input.CharLimit = 500

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = pendingStyle

	return chatModel{
		ctx:       ctx,
		assistant: assistant,
		input:     input,
		spinner:   s,
		lines: []string{
			assistantStyle.Render("assistant: ") + "Tell me about an income and I'll record it for you.",
		},
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.lines = append(m.lines, userStyle.Render("you: ")+text)
			m.input.Reset()
			m.waiting = true
			return m, tea.Batch(m.spinner.Tick, m.runTurn(text))
		}

	case turnMsg:
		m.waiting = false
		switch {
		case msg.err != nil:
			m.lines = append(m.lines, errorStyle.Render("assistant: something went wrong, please try again"))
		case msg.result.Status == model.StatusError:
			m.lines = append(m.lines, errorStyle.Render("assistant: ")+msg.result.Message)
		case msg.result.Status == model.StatusPending:
			m.lines = append(m.lines, pendingStyle.Render("assistant: ")+msg.result.Message)
		default:
			m.lines = append(m.lines, assistantStyle.Render("assistant: ")+msg.result.Message)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.waiting {
		b.WriteString(m.spinner.View() + " thinking...")
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n" + helpStyle.Render("enter: send • esc: quit"))
	return b.String()
}

func (m chatModel) runTurn(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 60*time.Second)
		defer cancel()

		result, err := m.assistant.HandleMessage(ctx, localChatUser, text)
		return turnMsg{result: result, err: err}
	}
}
