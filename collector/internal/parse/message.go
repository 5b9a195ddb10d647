package parse

// Message is the subset of a gateway MESSAGE_CREATE payload the parser and
// the collector care about. Field names follow the gateway's JSON wire
// format.
type Message struct {
	ID        string  `json:"id"`
	ChannelID string  `json:"channel_id"`
	Content   string  `json:"content"`
	Author    Author  `json:"author"`
	Embeds    []Embed `json:"embeds"`
}

// Author is the message author as sent by the gateway.
type Author struct {
	Username string `json:"username"`
}

// Embed is one rich-content block attached to a message.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Fields      []EmbedField `json:"fields"`
}

// EmbedField is one name/value pair within an embed.
type EmbedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
