package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guiyumin/ytdlp-api/internal/core/extractor"
)

var (
	extractInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	extractHintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
)

// extractState holds extraction state
type extractState struct {
	mu     sync.RWMutex
	done   bool
	result *extractor.ExtractResponse
}

func (s *extractState) setDone(result *extractor.ExtractResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
	s.result = result
}

func (s *extractState) get() (bool, *extractor.ExtractResponse) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done, s.result
}

type extractTickMsg time.Time

type extractModel struct {
	spinner   spinner.Model
	urls      []string
	state     *extractState
	cancelled bool
}

func newExtractModel(urls []string, state *extractState) extractModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return extractModel{
		spinner: s,
		urls:    urls,
		state:   state,
	}
}

func extractTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return extractTickMsg(t)
	})
}

func (m extractModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, extractTickCmd())
}

func (m extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case extractTickMsg:
		if done, _ := m.state.get(); done {
			return m, tea.Quit
		}
		return m, extractTickCmd()
	}

	return m, nil
}

func (m extractModel) View() string {
	if done, _ := m.state.get(); done || m.cancelled {
		return ""
	}

	target := m.urls[0]
	if len(m.urls) > 1 {
		target = fmt.Sprintf("%s %s", target, extractHintStyle.Render(fmt.Sprintf("(+%d more)", len(m.urls)-1)))
	}
	return fmt.Sprintf("\n  %s Extracting: %s\n\n", m.spinner.View(), extractInfoStyle.Render(target))
}

// runBatchWithSpinner runs the batch in the background while a spinner renders on out
func runBatchWithSpinner(ctx context.Context, batch batchRunner, urls []string, out io.Writer) (*extractor.ExtractResponse, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := &extractState{}

	go func() {
		state.setDone(batch.Run(ctx, urls))
	}()

	p := tea.NewProgram(newExtractModel(urls, state), tea.WithOutput(out), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	if m, ok := final.(extractModel); ok && m.cancelled {
		return nil, fmt.Errorf("extraction cancelled")
	}

	done, result := state.get()
	if !done {
		return nil, fmt.Errorf("extraction cancelled")
	}
	return result, nil
}
