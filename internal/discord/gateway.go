// Package discord connects the command dispatcher to the Discord gateway.
package discord

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"coal-bot/internal/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// Handler is satisfied by *bot.Dispatcher.
type Handler interface {
	Handle(ctx context.Context, msg bot.Message) (bot.Reply, bool)
}

// Poster is the slice of *discordgo.Session used to deliver replies.
type Poster interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

type Gateway struct {
	session *discordgo.Session
	poster  Poster

	mu      sync.RWMutex
	ctx     context.Context
	handler Handler
}

func New(token string) (*Gateway, error) {
	if token == "" {
		return nil, errors.New("discord: token is required")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = intents
	g := &Gateway{session: s, poster: s, ctx: context.Background()}
	s.AddHandler(g.onReady)
	s.AddHandler(g.onMessageCreate)
	return g, nil
}

// Open connects to the gateway and starts routing messages to h. Handler
// contexts derive from ctx.
func (g *Gateway) Open(ctx context.Context, h Handler) error {
	g.mu.Lock()
	g.ctx = ctx
	g.handler = h
	g.mu.Unlock()
	return g.session.Open()
}

func (g *Gateway) Close() error {
	return g.session.Close()
}

// Latency is the last heartbeat round trip.
func (g *Gateway) Latency() time.Duration {
	return g.session.HeartbeatLatency()
}

func (g *Gateway) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r.User == nil {
		return
	}
	log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord gateway ready")
}

func (g *Gateway) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	g.mu.RLock()
	ctx, h := g.ctx, g.handler
	g.mu.RUnlock()
	if h == nil || m.Message == nil || m.Author == nil {
		return
	}
	g.route(ctx, h, toMessage(m.Message))
}

func (g *Gateway) route(ctx context.Context, h Handler, msg bot.Message) {
	reply, ok := h.Handle(ctx, msg)
	if !ok {
		return
	}
	if _, err := g.poster.ChannelMessageSendComplex(msg.ChannelID, toSend(reply)); err != nil {
		log.Error().Err(err).Str("channel_id", msg.ChannelID).Msg("send reply failed")
		return
	}
	if reply.DeleteTrigger {
		if err := g.poster.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
			log.Warn().Err(err).Str("channel_id", msg.ChannelID).Str("message_id", msg.ID).Msg("delete trigger message failed")
		}
	}
}

func toMessage(m *discordgo.Message) bot.Message {
	msg := bot.Message{
		ID:         m.ID,
		ChannelID:  m.ChannelID,
		GuildID:    m.GuildID,
		Content:    m.Content,
		ReceivedAt: m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
		msg.AuthorBot = m.Author.Bot
	}
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}
	return msg
}

// toSend renders a reply. Only user mentions ping; @everyone and roles in
// echoed text stay inert.
func toSend(r bot.Reply) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content: r.Content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		},
	}
	for _, e := range r.Embeds {
		send.Embeds = append(send.Embeds, toEmbed(e))
	}
	for _, f := range r.Files {
		send.Files = append(send.Files, &discordgo.File{
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      bytes.NewReader(f.Data),
		})
	}
	return send
}

func toEmbed(e bot.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if e.Thumbnail != "" {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return out
}
