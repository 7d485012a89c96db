package discord

import (
	"context"
	"io"
	"testing"
	"time"

	"coal-bot/internal/bot"

	"github.com/bwmarrin/discordgo"
)

type fakePoster struct {
	sent    []*discordgo.MessageSend
	deleted []string
	sendErr error
}

func (p *fakePoster) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if p.sendErr != nil {
		return nil, p.sendErr
	}
	p.sent = append(p.sent, data)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (p *fakePoster) ChannelMessageDelete(_, messageID string, _ ...discordgo.RequestOption) error {
	p.deleted = append(p.deleted, messageID)
	return nil
}

type fixedHandler struct {
	reply bot.Reply
	ok    bool
	got   []bot.Message
}

func (h *fixedHandler) Handle(_ context.Context, msg bot.Message) (bot.Reply, bool) {
	h.got = append(h.got, msg)
	return h.reply, h.ok
}

func TestToMessage(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	got := toMessage(&discordgo.Message{
		ID:        "m",
		ChannelID: "c",
		GuildID:   "g",
		Content:   "-bal",
		Timestamp: ts,
		Author:    &discordgo.User{ID: "42", Username: "steve", Bot: true},
	})
	want := bot.Message{ID: "m", ChannelID: "c", GuildID: "g", AuthorID: "42", AuthorName: "steve", AuthorBot: true, Content: "-bal", ReceivedAt: ts}
	if got != want {
		t.Fatalf("toMessage() = %+v, want %+v", got, want)
	}
}

func TestToSend(t *testing.T) {
	send := toSend(bot.Reply{
		Content: "hi",
		Embeds: []bot.Embed{{
			Title:     "t",
			Color:     0xFF0000,
			Footer:    "f",
			Thumbnail: "attachment://color.png",
			Fields:    []bot.Field{{Name: "n", Value: "v", Inline: true}},
		}},
		Files: []bot.File{{Name: "color.png", ContentType: "image/png", Data: []byte("png")}},
	})
	if send.Content != "hi" || len(send.Embeds) != 1 || len(send.Files) != 1 {
		t.Fatalf("toSend() = %+v", send)
	}
	e := send.Embeds[0]
	if e.Footer == nil || e.Footer.Text != "f" || e.Thumbnail == nil || e.Thumbnail.URL != "attachment://color.png" {
		t.Fatalf("embed = %+v", e)
	}
	if len(e.Fields) != 1 || !e.Fields[0].Inline {
		t.Fatalf("fields = %+v", e.Fields)
	}
	data, err := io.ReadAll(send.Files[0].Reader)
	if err != nil || string(data) != "png" {
		t.Fatalf("file data = %q, %v", data, err)
	}
	if len(send.AllowedMentions.Parse) != 1 || send.AllowedMentions.Parse[0] != discordgo.AllowedMentionTypeUsers {
		t.Fatalf("allowed mentions = %+v", send.AllowedMentions)
	}
}

func TestToSendOmitsEmptyFooter(t *testing.T) {
	e := toEmbed(bot.Embed{Description: "d"})
	if e.Footer != nil || e.Thumbnail != nil {
		t.Fatalf("embed = %+v", e)
	}
}

func TestRoutePostsAndDeletesTrigger(t *testing.T) {
	p := &fakePoster{}
	g := &Gateway{poster: p}
	h := &fixedHandler{reply: bot.Reply{Content: "echo", DeleteTrigger: true}, ok: true}

	g.route(context.Background(), h, bot.Message{ID: "m1", ChannelID: "c1", AuthorID: "1", Content: "-echo echo"})

	if len(p.sent) != 1 || p.sent[0].Content != "echo" {
		t.Fatalf("sent = %+v", p.sent)
	}
	if len(p.deleted) != 1 || p.deleted[0] != "m1" {
		t.Fatalf("deleted = %v", p.deleted)
	}
}

func TestRouteSkipsWhenNothingToSay(t *testing.T) {
	p := &fakePoster{}
	g := &Gateway{poster: p}
	g.route(context.Background(), &fixedHandler{}, bot.Message{ChannelID: "c1", AuthorID: "1"})
	if len(p.sent) != 0 || len(p.deleted) != 0 {
		t.Fatalf("sent = %d deleted = %d, want none", len(p.sent), len(p.deleted))
	}
}

func TestRouteKeepsTriggerWhenSendFails(t *testing.T) {
	p := &fakePoster{sendErr: io.ErrClosedPipe}
	g := &Gateway{poster: p}
	g.route(context.Background(), &fixedHandler{reply: bot.Reply{Content: "x", DeleteTrigger: true}, ok: true}, bot.Message{ID: "m1", ChannelID: "c1"})
	if len(p.deleted) != 0 {
		t.Fatal("trigger deleted after failed send")
	}
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty token")
	}
	g, err := New("abc")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if g.session.Identify.Intents != intents {
		t.Fatalf("intents = %v, want %v", g.session.Identify.Intents, intents)
	}
}
