package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Notifier delivers short operational messages.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts messages into a single Discord channel.
type DiscordNotifier struct {
	session   channelSender
	channelID string
	logger    *zap.Logger
}

// NewDiscordNotifier builds a bot-token session. It returns a Nop notifier
// when either the token or channel is missing.
func NewDiscordNotifier(token, channelID string, logger *zap.Logger) (Notifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if token == "" || channelID == "" {
		return Nop{}, nil
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordNotifier{session: session, channelID: channelID, logger: logger}, nil
}

// Notify sends message to the configured channel.
func (n *DiscordNotifier) Notify(ctx context.Context, message string) error {
	if _, err := n.session.ChannelMessageSend(n.channelID, message, discordgo.WithContext(ctx)); err != nil {
		n.logger.Warn("discord notification failed", zap.Error(err))
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

// Nop discards every message.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, string) error { return nil }
