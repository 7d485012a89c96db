package bot

import "time"

// Message is an inbound chat message, already stripped of platform types.
type Message struct {
	ID         string
	ChannelID  string
	GuildID    string
	AuthorID   string
	AuthorName string
	AuthorBot  bool
	Content    string
	ReceivedAt time.Time
}

// Reply is what the dispatcher wants posted back to the channel.
type Reply struct {
	Content string
	Embeds  []Embed
	Files   []File
	// DeleteTrigger asks the gateway to remove the invoking message.
	DeleteTrigger bool
}

func (r Reply) Empty() bool {
	return r.Content == "" && len(r.Embeds) == 0 && len(r.Files) == 0
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Footer      string
	Thumbnail   string
	Fields      []Field
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func text(s string) Reply {
	return Reply{Content: s}
}

func embed(e Embed) Reply {
	return Reply{Embeds: []Embed{e}}
}
