package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Pushkaraj-Palli/Discord-Clone/pkg/chat"
)

type Model struct {
	messages  []string
	input     textinput.Model
	ws        *WSClient
	serverID  string
	channelID string
	connected bool
	msgChan   chan tea.Msg
}

// NewModel connects to the gateway and joins the given channel. Use
// "/join <serverID> <channelID>" at runtime to switch channels.
func NewModel(host, token, serverID, channelID string) (Model, error) {
	ti := textinput.New()
	ti.Placeholder = "Type your message here"
	ti.Focus()
	ti.CharLimit = chat.MaxMessageLength
	ti.Width = 50

	ch := make(chan tea.Msg, 10)
	ws, err := NewWSClient(host, token, ch)
	if err != nil {
		return Model{}, err
	}

	ws.Start()
	if err := ws.Join(serverID, channelID); err != nil {
		return Model{}, err
	}

	return Model{
		input:     ti,
		ws:        ws,
		serverID:  serverID,
		channelID: channelID,
		connected: true,
		msgChan:   ch,
	}, nil
}

func (m Model) Init() tea.Cmd {
	textinput.Blink()
	return func() tea.Msg {
		return <-m.msgChan
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.ws.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()

			if text == "" {
				return m, nil
			}

			if args, ok := strings.CutPrefix(text, "/join "); ok {
				fields := strings.Fields(args)
				if len(fields) != 2 {
					m.messages = append(m.messages, "usage: /join <serverID> <channelID>")
					return m, nil
				}
				m.serverID, m.channelID = fields[0], fields[1]
				_ = m.ws.Join(m.serverID, m.channelID)
				m.messages = append(m.messages, fmt.Sprintf("-- joined channel %s", m.channelID))
				return m, nil
			}

			_ = m.ws.SendMessage(m.serverID, m.channelID, text)
			return m, nil
		default:
			m.input, cmd = m.input.Update(msg)
		}

	case eventReceivedMsg:
		m.messages = append(m.messages, renderEvent(chat.Event(msg)))
		return m, func() tea.Msg {
			return <-m.msgChan
		}

	case connClosedMsg:
		m.connected = false
		m.messages = append(m.messages, fmt.Sprintf("-- disconnected: %v", msg.err))
		return m, nil
	}

	return m, cmd
}

func renderEvent(event chat.Event) string {
	switch event.Type {
	case chat.EventMessage:
		var payload chat.MessagePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return "-- unreadable message"
		}
		return fmt.Sprintf("[%s]: %s", payload.Sender.Username, payload.Content)

	case chat.EventUserStatusUpdate:
		var payload chat.StatusUpdatePayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return "-- unreadable status update"
		}
		return fmt.Sprintf("-- user %s is now %s", payload.UserID, payload.Status)

	case chat.EventErrorMessage:
		var msg string
		if err := json.Unmarshal(event.Data, &msg); err != nil {
			return "-- unreadable error"
		}
		return fmt.Sprintf("!! %s", msg)
	}

	return fmt.Sprintf("-- unknown event %q", event.Type)
}

func (m Model) View() string {
	var b strings.Builder

	for _, msg := range m.messages {
		b.WriteString(msg + "\n")
	}

	b.WriteString("\n" + m.input.View())
	if m.connected {
		b.WriteString("\n[Enter] to send, /join <serverID> <channelID> to switch")
	} else {
		b.WriteString("\n[connection closed, Ctrl+C to quit]")
	}
	return b.String()
}
