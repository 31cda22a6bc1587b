package ui

import (
	"strings"

	chatdomain "github.com/boddenberg/sarathi-client-go/internal/chat/domain"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const chatChrome = 9

// chatScreen is the conversation with the agent. It owns the recorder
// while mounted and stops any reply still playing when it leaves.
type chatScreen struct {
	shell *Shell
	input textinput.Model
	vp    viewport.Model
	rec   recState

	renderer *glamour.TermRenderer
	// rendered caches agent replies by message ID; cleared on resize.
	rendered map[string]string
	wrap     int
	// seen is the transcript length last shown, to follow new messages.
	seen   int
	status string
}

func newChatScreen(s *Shell) *chatScreen {
	ti := textinput.New()
	ti.Placeholder = "Type or speak..."
	ti.Prompt = "› "
	ti.CharLimit = 1000
	ti.Focus()

	c := &chatScreen{
		shell:    s,
		input:    ti,
		vp:       viewport.New(s.width, max(s.height-chatChrome, 5)),
		rendered: make(map[string]string),
	}
	c.resize(s.width, s.height)
	return c
}

func (c *chatScreen) Title() string { return "Chat with Sarathi" }

func (c *chatScreen) Help() string {
	h := "enter send · pgup/pgdn scroll · ctrl+x clear"
	if c.shell.deps.Recorder != nil {
		h = "enter send · ctrl+r record/stop · pgup/pgdn scroll · ctrl+x clear"
	}
	return h
}

func (c *chatScreen) Init() tea.Cmd {
	chat, ctx, logger := c.shell.deps.Chat, c.shell.ctx, c.shell.deps.Logger
	return tea.Batch(textinput.Blink, run(func() {
		if err := chat.LoadHistory(ctx); err != nil {
			logger.Warn("ui: saving welcome transcript failed", zap.Error(err))
		}
	}))
}

func (c *chatScreen) resize(width, height int) {
	c.vp.Width = width
	c.vp.Height = max(height-chatChrome, 5)
	c.input.Width = max(width-4, 10)

	wrap := max(width-6, 20)
	if wrap == c.wrap && c.renderer != nil {
		return
	}
	c.wrap = wrap
	c.rendered = make(map[string]string)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(c.shell.markdown),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		c.shell.deps.Logger.Warn("ui: markdown renderer unavailable", zap.Error(err))
		r = nil
	}
	c.renderer = r
}

func (c *chatScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.resize(msg.Width, msg.Height)
		return nil

	case resultMsg:
		// failures are already in the transcript as an apology
		c.rec = recIdle
		c.status = ""
		return nil

	case recordedMsg:
		if msg.err != nil {
			c.rec = recIdle
			c.status = "Recording failed: " + msg.err.Error()
			return nil
		}
		chat, ctx := c.shell.deps.Chat, c.shell.ctx
		return write(c, "", "", false, func() error { return chat.SendVoice(ctx, msg.audio) })

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return c.sendText()
		case "ctrl+r":
			return c.toggleRecording()
		case "ctrl+x":
			chat, ctx := c.shell.deps.Chat, c.shell.ctx
			c.seen = 0
			return write(c, "Failed to clear chat", "Chat cleared", false, func() error { return chat.Clear(ctx) })
		case "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			c.vp, cmd = c.vp.Update(msg)
			return cmd
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

func (c *chatScreen) sendText() tea.Cmd {
	text := strings.TrimSpace(c.input.Value())
	if text == "" || c.rec == recRecording {
		return nil
	}
	c.input.Reset()
	chat, ctx := c.shell.deps.Chat, c.shell.ctx
	return write(c, "", "", false, func() error { return chat.SendText(ctx, text) })
}

func (c *chatScreen) toggleRecording() tea.Cmd {
	rec, ctx := c.shell.deps.Recorder, c.shell.ctx
	if rec == nil {
		c.status = "Voice input is not available: no recording command configured"
		return nil
	}
	switch c.rec {
	case recIdle:
		if err := rec.Start(ctx); err != nil {
			c.status = "Could not start recording: " + err.Error()
			return nil
		}
		c.rec = recRecording
		c.status = ""
		c.input.Placeholder = "Listening..."
	case recRecording:
		c.rec = recStopped
		c.input.Placeholder = "Type or speak..."
		return func() tea.Msg {
			audio, err := rec.Stop(ctx)
			return recordedMsg{audio: audio, err: err}
		}
	}
	return nil
}

// Unmount discards an unfinished recording and silences the reply.
func (c *chatScreen) Unmount() {
	d := c.shell.deps
	if d.Recorder != nil && d.Recorder.Recording() {
		if err := d.Recorder.Close(); err != nil {
			d.Logger.Warn("ui: closing recorder failed", zap.Error(err))
		}
	}
	if d.Player != nil {
		if err := d.Player.Stop(); err != nil {
			d.Logger.Warn("ui: stopping playback failed", zap.Error(err))
		}
	}
}

func (c *chatScreen) View(e env) string {
	st := c.shell.deps.Chat.Snapshot()

	c.vp.SetContent(c.transcript(e, st.Messages))
	if len(st.Messages) != c.seen {
		c.seen = len(st.Messages)
		c.vp.GotoBottom()
	}

	var b strings.Builder
	b.WriteString(e.st.Muted.Render("Your AI Resilience Agent") + "\n")
	b.WriteString(c.vp.View() + "\n")

	switch {
	case c.rec == recRecording:
		b.WriteString(e.st.Error.Render("● Recording...") + " ctrl+r to send\n")
	case st.Sending || c.rec == recStopped:
		b.WriteString(e.spinner + " " + e.st.Muted.Render("Sarathi is thinking...") + "\n")
	default:
		b.WriteString("\n")
	}
	if c.status != "" {
		b.WriteString(e.st.Warning.Render(c.status) + "\n")
	}
	b.WriteString(c.input.View())
	return b.String()
}

func (c *chatScreen) transcript(e env, msgs []chatdomain.Message) string {
	var b strings.Builder
	for _, m := range msgs {
		stamp := e.st.Muted.Render(m.Timestamp.Local().Format("15:04"))
		if m.Type == chatdomain.SenderUser {
			bubble := e.st.UserMsg.Render(m.Content)
			b.WriteString(lipgloss.PlaceHorizontal(c.vp.Width, lipgloss.Right, bubble) + "\n")
			b.WriteString(lipgloss.PlaceHorizontal(c.vp.Width, lipgloss.Right, stamp) + "\n")
			continue
		}
		b.WriteString(e.st.AgentMsg.Render(c.markdown(m)) + "\n")
		b.WriteString(stamp + "\n\n")
	}
	return b.String()
}

func (c *chatScreen) markdown(m chatdomain.Message) string {
	if out, ok := c.rendered[m.ID]; ok {
		return out
	}
	out := m.Content
	if c.renderer != nil {
		if r, err := c.renderer.Render(m.Content); err == nil {
			out = strings.Trim(r, "\n")
		}
	}
	c.rendered[m.ID] = out
	return out
}
