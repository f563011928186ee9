package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yugapanda/obsidian-time-tracker-summary/internal/files"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/notes"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/render"
	"github.com/yugapanda/obsidian-time-tracker-summary/internal/tracker"
)

// Options configures what the TUI shows and how blocks render.
type Options struct {
	Note       string
	Language   string
	Color      render.ColorMode
	SectionEnd tracker.SectionEnd
	BarWidth   int
	Log        *slog.Logger
}

// Model owns Bubble Tea state for browsing the summary blocks of one note.
type Model struct {
	ctx   context.Context
	vault *files.Vault
	opts  Options
	keys  keyMap

	blocks   []notes.Block
	selected int
	viewport viewport.Model
	ready    bool

	loading    bool
	statusLine string
	errorLine  string
}

type noteLoadedMsg struct {
	blocks []notes.Block
	err    error
}

type blockRenderedMsg struct {
	index  int
	output string
	err    error
}

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/l", "next block")),
		Prev:   key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h", "prev block")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(render.ColorDim)
	errorStyle  = lipgloss.NewStyle().Foreground(render.ColorRed)
)

// NewModel seeds a Bubble Tea model for the note named in opts.
func NewModel(ctx context.Context, vault *files.Vault, opts Options) Model {
	if opts.Language == "" {
		opts.Language = notes.DefaultLanguage
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return Model{
		ctx:        ctx,
		vault:      vault,
		opts:       opts,
		keys:       defaultKeyMap(),
		viewport:   viewport.New(80, 20),
		loading:    true,
		statusLine: fmt.Sprintf("Loading %s...", opts.Note),
	}
}

// Init loads the note's blocks.
func (m Model) Init() tea.Cmd {
	return m.loadNoteCmd()
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.ready = true
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case noteLoadedMsg:
		return m.handleNoteLoaded(msg)
	case blockRenderedMsg:
		return m.handleBlockRendered(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		m.statusLine = "Reloading..."
		m.errorLine = ""
		return m, m.loadNoteCmd()
	case key.Matches(msg, m.keys.Next):
		return m.selectBlock(m.selected + 1)
	case key.Matches(msg, m.keys.Prev):
		return m.selectBlock(m.selected - 1)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) selectBlock(index int) (tea.Model, tea.Cmd) {
	if len(m.blocks) == 0 || m.loading {
		return m, nil
	}
	if index < 0 || index >= len(m.blocks) {
		return m, nil
	}
	m.selected = index
	m.loading = true
	m.statusLine = fmt.Sprintf("Rendering block %d of %d...", index+1, len(m.blocks))
	return m, m.renderBlockCmd(index)
}

func (m Model) handleNoteLoaded(msg noteLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.loading = false
		m.blocks = nil
		m.selected = 0
		m.viewport.SetContent("")
		m.errorLine = msg.err.Error()
		m.statusLine = ""
		return m, nil
	}

	m.blocks = msg.blocks
	if len(m.blocks) == 0 {
		m.selected = 0
		m.loading = false
		m.viewport.SetContent("")
		m.statusLine = fmt.Sprintf("No %s blocks in %s", m.opts.Language, m.opts.Note)
		return m, nil
	}
	if m.selected >= len(m.blocks) {
		m.selected = len(m.blocks) - 1
	}
	return m, m.renderBlockCmd(m.selected)
}

func (m Model) handleBlockRendered(msg blockRenderedMsg) (tea.Model, tea.Cmd) {
	// A reload may have replaced the blocks since this render started.
	if msg.index != m.selected || msg.index >= len(m.blocks) {
		return m, nil
	}
	m.loading = false
	m.viewport.SetContent(msg.output)
	m.viewport.GotoTop()

	block := m.blocks[msg.index]
	m.statusLine = fmt.Sprintf("Block %d of %d (line %d)", msg.index+1, len(m.blocks), block.Line)
	m.errorLine = ""
	if msg.err != nil && !tracker.IsWarning(msg.err) {
		m.errorLine = msg.err.Error()
	}
	return m, nil
}

func (m Model) loadNoteCmd() tea.Cmd {
	ctx, vault, note, language := m.ctx, m.vault, m.opts.Note, m.opts.Language
	return func() tea.Msg {
		doc, err := vault.Lookup(ctx, note)
		if err != nil {
			if errors.Is(err, tracker.ErrTargetFileNotFound) {
				return noteLoadedMsg{err: fmt.Errorf("note %q not found", note)}
			}
			return noteLoadedMsg{err: err}
		}
		content, err := vault.Read(ctx, doc)
		if err != nil {
			return noteLoadedMsg{err: err}
		}
		return noteLoadedMsg{blocks: notes.Blocks([]byte(content), language)}
	}
}

func (m Model) renderBlockCmd(index int) tea.Cmd {
	ctx, vault, opts, block := m.ctx, m.vault, m.opts, m.blocks[index]
	return func() tea.Msg {
		var buf bytes.Buffer
		surface := render.NewTerminal(&buf, opts.Color)
		p := tracker.NewProcessor(vault, surface.Charter(opts.BarWidth), opts.SectionEnd, opts.Log)
		err := p.Render(ctx, block.Source, surface)
		return blockRenderedMsg{index: index, output: buf.String(), err: err}
	}
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.opts.Note))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.errorLine != "" {
		b.WriteString(errorStyle.Render(m.errorLine))
	} else {
		b.WriteString(dimStyle.Render(m.statusLine))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) helpLine() string {
	bindings := []key.Binding{m.keys.Prev, m.keys.Next, m.keys.Reload, m.keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, help.Key+": "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
