// Package bot relays chat commands from Discord to the /chat endpoint.
//
// Commands (prefix configurable, names case-insensitive):
//
//	!ask <question>    relay a question
//	!stats <question>  same as !ask
//	!hello             connection test
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/albapepper/nba-stats-bot/internal/relay"
)

// maxReply keeps replies under Discord's message size limit.
const maxReply = 1800

// Fixed replies.
const (
	noURLText   = "⚠️  API URL not configured."
	unknownText = "❓  Unknown command – try `!hello`."
	slowDown    = "⏳  Slow down, try again in a few seconds."
)

// Asker relays a question. *relay.Client implements it.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Sender posts a message to a channel. *discordgo.Session implements it.
type Sender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot turns messages into replies.
type Bot struct {
	prefix   string
	asker    Asker
	cooldown Cooldown
	logger   *slog.Logger
}

// New returns a bot. A nil cooldown never throttles.
func New(prefix string, asker Asker, cooldown Cooldown, logger *slog.Logger) *Bot {
	if cooldown == nil {
		cooldown = noCooldown{}
	}
	return &Bot{prefix: prefix, asker: asker, cooldown: cooldown, logger: logger}
}

// Message is the part of an incoming chat message the bot uses.
type Message struct {
	AuthorID   string
	AuthorName string
	IsBot      bool
	Content    string
}

// Reply returns the text to post for m. ok is false when the message is not
// addressed to the bot.
func (b *Bot) Reply(ctx context.Context, m Message) (reply string, ok bool) {
	if m.IsBot || !strings.HasPrefix(m.Content, b.prefix) {
		return "", false
	}
	body := strings.TrimSpace(strings.TrimPrefix(m.Content, b.prefix))
	if body == "" {
		return "", false
	}

	name, args, _ := strings.Cut(body, " ")
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)

	switch name {
	case "hello":
		return fmt.Sprintf("Hello %s! 👋", m.AuthorName), true
	case "ask", "stats":
		if args == "" {
			return fmt.Sprintf("Usage: `%s%s <question>`", b.prefix, name), true
		}
		return b.ask(ctx, m.AuthorID, args), true
	default:
		return strings.Replace(unknownText, "!", b.prefix, 1), true
	}
}

func (b *Bot) ask(ctx context.Context, userID, question string) string {
	allowed, err := b.cooldown.Allow(ctx, userID)
	if err != nil {
		b.logger.Warn("Cooldown check failed, allowing", "user_id", userID, "error", err)
	} else if !allowed {
		return slowDown
	}

	answer, err := b.asker.Ask(ctx, question)
	if err != nil {
		b.logger.Warn("Relay failed", "user_id", userID, "error", err)
		return errorText(err)
	}
	return truncate(answer, maxReply)
}

// errorText renders a relay failure for the user.
func errorText(err error) string {
	var se *relay.StatusError
	switch {
	case errors.Is(err, relay.ErrNoURL):
		return noURLText
	case errors.As(err, &se):
		return fmt.Sprintf("API error %d", se.Code)
	default:
		return truncate("Request failed: "+err.Error(), maxReply)
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// OnMessageCreate is the discordgo handler. It answers in the message's
// channel.
func (b *Bot) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.handle(context.Background(), s, m)
}

func (b *Bot) handle(ctx context.Context, s Sender, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	reply, ok := b.Reply(ctx, Message{
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		IsBot:      m.Author.Bot,
		Content:    m.Content,
	})
	if !ok {
		return
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		b.logger.Error("Failed to send reply", "channel_id", m.ChannelID, "error", err)
	}
}

// OnReady logs the connected identity.
func (b *Bot) OnReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Logged in to Discord", "user", r.User.Username, "id", r.User.ID, "guilds", len(r.Guilds))
}
