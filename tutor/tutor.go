// Package tutor is the optics tutoring chat: a stateless question/answer
// call to a hosted language model with a bounded history window.
package tutor

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// HistoryWindow is the number of prior messages sent with a question.
	HistoryWindow = 10
	Temperature   = 0.7
	DefaultModel  = "gemini-2.5-flash"

	// ErrorReply is shown in the conversation when the backend fails.
	ErrorReply = "I encountered an error connecting to my optical neural network."
	Greeting   = "Hello! I'm Professor Hologram. Ask me anything about how holograms work, " +
		"the physics of light, or the difference between Gabor and Leith-Upatnieks setups!"
)

const SystemPrompt = `You are Professor Hologram, a world-class expert in optics, wave physics, and holography.
Your goal is to explain concepts like interference, diffraction, wavefronts, the Gabor limit, and off-axis separation to students.
Keep explanations clear, concise, and engaging. Use analogies.
If the user asks about "Inline" or "Gabor" holography, mention the twin-image problem.
If they ask about "Off-axis" or "Leith-Upatnieks", explain how the carrier frequency separates the orders.
Do not use LaTeX formatting heavily, use plain text or simple unicode characters for math where possible.`

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
	IsError bool   `json:"is_error,omitempty" yaml:"is_error,omitempty"`
}

// Backend sends one question with its history to a chat model.
type Backend interface {
	Send(ctx context.Context, question string, history []Message) (string, error)
}

var ErrEmptyQuestion = errors.New("question is empty")

type Tutor struct {
	backend Backend
}

func New(b Backend) *Tutor {
	return &Tutor{backend: b}
}

// Window returns the last HistoryWindow messages of history.
func Window(history []Message) []Message {
	if len(history) <= HistoryWindow {
		return history
	}
	return history[len(history)-HistoryWindow:]
}

// Ask answers question in the context of history. A backend failure is
// logged and turned into the fixed ErrorReply; it is never retried.
func (t *Tutor) Ask(ctx context.Context, question string, history []Message) Message {
	startTime := time.Now()
	reply, err := t.backend.Send(ctx, question, Window(history))
	if err != nil {
		log.WithError(err).Error("Tutor request failed")
		return Message{Role: RoleModel, Content: ErrorReply, IsError: true}
	}
	log.WithFields(log.Fields{
		"time":    time.Since(startTime),
		"history": len(Window(history)),
	}).Debug("Tutor answered")
	return Message{Role: RoleModel, Content: reply}
}

// Conversation is a running chat that starts with the tutor's greeting.
type Conversation struct {
	Tutor    *Tutor
	Messages []Message
}

func NewConversation(t *Tutor) *Conversation {
	return &Conversation{
		Tutor:    t,
		Messages: []Message{{Role: RoleModel, Content: Greeting}},
	}
}

// Send appends the user's question and the reply. The history sent is
// the conversation before the question.
func (c *Conversation) Send(ctx context.Context, question string) (Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Message{}, ErrEmptyQuestion
	}
	history := make([]Message, len(c.Messages))
	copy(history, c.Messages)
	c.Messages = append(c.Messages, Message{Role: RoleUser, Content: question})
	reply := c.Tutor.Ask(ctx, question, history)
	c.Messages = append(c.Messages, reply)
	return reply, nil
}
