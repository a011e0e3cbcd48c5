package llm

import "fmt"

// Attachment is an uploaded file forwarded to the model
type Attachment struct {
	Name      string
	MediaType string
	Payload   string // raw text, or base64 when !IsText
	IsText    bool
}

// FormatTextAttachment inlines a text file as a labeled segment
func FormatTextAttachment(name, content string) string {
	return fmt.Sprintf("File: %s\nContent:\n%s\n---", name, content)
}

// BuildRequest assembles the outbound conversation: the prior history
// followed by one user message holding every attachment and then the prompt.
func BuildRequest(prompt string, history []Message, attachments []Attachment) []Message {
	parts := make([]Part, 0, len(attachments)+1)
	for _, a := range attachments {
		if a.IsText {
			parts = append(parts, Part{Text: FormatTextAttachment(a.Name, a.Payload)})
			continue
		}
		parts = append(parts, Part{MediaType: a.MediaType, Data: a.Payload})
	}
	parts = append(parts, Part{Text: prompt})

	msgs := normalizeHistory(history)
	return append(msgs, Message{Role: RoleUser, Parts: parts})
}

// normalizeHistory makes the history strictly alternate, starting with the
// user: leading model turns are skipped, a user turn that never got an
// answer is dropped, and back-to-back model turns are merged.
func normalizeHistory(history []Message) []Message {
	out := make([]Message, 0, len(history))
	for i, msg := range history {
		switch msg.Role {
		case RoleUser:
			if i+1 >= len(history) || history[i+1].Role != RoleModel {
				continue
			}
			out = append(out, msg)
		case RoleModel:
			if len(out) == 0 {
				continue
			}
			last := &out[len(out)-1]
			if last.Role == RoleModel {
				last.Content = last.TextContent() + "\n\n" + msg.TextContent()
				last.Parts = nil
				continue
			}
			out = append(out, msg)
		}
	}
	return out
}
