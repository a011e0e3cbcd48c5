package store

// Conversation is the append-only transcript, oldest first
type Conversation struct {
	turns []Turn
}

func (c *Conversation) Append(turn Turn) {
	c.turns = append(c.turns, turn)
}

func (c *Conversation) Snapshot() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Conversation) Len() int {
	return len(c.turns)
}

// Last returns the most recent turn, if any
func (c *Conversation) Last() (Turn, bool) {
	if len(c.turns) == 0 {
		return Turn{}, false
	}
	return c.turns[len(c.turns)-1], true
}

// CharCount sums the text length of every turn (docs view token estimate)
func (c *Conversation) CharCount() int {
	n := 0
	for _, t := range c.turns {
		n += len(t.Text)
	}
	return n
}
