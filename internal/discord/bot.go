// Package discord offers the analysis pipeline as Discord slash commands.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/NullMeDev/mediabias/internal/analyzer"
	"github.com/NullMeDev/mediabias/internal/apperrors"
	"github.com/NullMeDev/mediabias/internal/logger"
	"github.com/NullMeDev/mediabias/internal/model"
)

const analyzeTimeout = 2 * time.Minute

// Analyzer runs one analysis
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string, progress analyzer.ProgressFunc) (*model.AnalysisResult, error)
}

// SourceLookup resolves outlet ratings
type SourceLookup interface {
	Lookup(nameOrURL string) *model.SourceRating
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "analyze",
		Description: "Analyze a news article for bias, emotional language and factuality",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "url",
				Description: "Article URL",
				Required:    true,
			},
		},
	},
	{
		Name:        "source",
		Description: "Show the bias and factuality rating of a news outlet",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Outlet name or domain",
				Required:    true,
			},
		},
	},
}

// Bot handles the slash commands
type Bot struct {
	session    *discordgo.Session
	appID      string
	guildID    string
	analyzer   Analyzer
	sources    SourceLookup
	log        *logger.Logger
	registered []*discordgo.ApplicationCommand
	ctx        context.Context
	cancel     context.CancelFunc
}

// New creates a Bot. guildID may be empty for global commands.
func New(token, appID, guildID string, a Analyzer, sources SourceLookup, log *logger.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		session:  session,
		appID:    appID,
		guildID:  guildID,
		analyzer: a,
		sources:  sources,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Open connects and registers the commands
func (b *Bot) Open() error {
	b.session.AddHandler(b.onInteraction)
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %v", err)
	}

	b.log.Info("Registering Discord commands...")
	for _, cmd := range commands {
		created, err := b.session.ApplicationCommandCreate(b.appID, b.guildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to create command %s: %v", cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}
	return nil
}

// Close cancels running analyses, removes guild commands and disconnects
func (b *Bot) Close() error {
	b.cancel()
	if b.guildID != "" {
		for _, cmd := range b.registered {
			if err := b.session.ApplicationCommandDelete(b.appID, b.guildID, cmd.ID); err != nil {
				b.log.Warning("Failed to delete command %s: %v", cmd.Name, err)
			}
		}
	}
	return b.session.Close()
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("PANIC in Discord handler: %v", apperrors.FromPanic("discord", r))
		}
	}()

	var err error
	switch data := i.ApplicationCommandData(); data.Name {
	case "analyze":
		err = b.handleAnalyze(s, i, optionString(data, "url"))
	case "source":
		err = b.handleSource(s, i, optionString(data, "name"))
	}
	if err != nil {
		b.log.Error("Discord command failed: %v", err)
	}
}

func (b *Bot) handleAnalyze(s *discordgo.Session, i *discordgo.InteractionCreate, rawURL string) error {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %v", err)
	}

	ctx, cancel := context.WithTimeout(b.ctx, analyzeTimeout)
	defer cancel()

	result, err := b.analyzer.Analyze(ctx, rawURL, nil)
	if err != nil {
		content := "⚠️ " + apperrors.UserMessage(err)
		_, editErr := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
		return editErr
	}

	embeds := []*discordgo.MessageEmbed{AnalysisEmbed(result)}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds}); err != nil {
		return fmt.Errorf("failed to send analysis: %v", err)
	}
	return nil
}

func (b *Bot) handleSource(s *discordgo.Session, i *discordgo.InteractionCreate, name string) error {
	data := &discordgo.InteractionResponseData{}
	if rating := b.sources.Lookup(name); rating != nil {
		data.Embeds = []*discordgo.MessageEmbed{SourceEmbed(rating)}
	} else {
		data.Content = fmt.Sprintf("⚠️ No rating found for %q", name)
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

func optionString(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
