package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/debot/internal/conversation"
	"github.com/alexanderramin/debot/internal/domain"
	"github.com/alexanderramin/debot/internal/recommend"
	"github.com/alexanderramin/debot/internal/repository"
)

// Conversations is the part of the conversation controller the CLI drives.
type Conversations interface {
	HandleMessage(ctx context.Context, id, text string, progress conversation.ProgressFunc) (*conversation.Reply, error)
	History(ctx context.Context, id string) ([]domain.Message, error)
	Reset(ctx context.Context, id string) error
}

// App holds references to everything CLI commands use.
type App struct {
	Conversations Conversations
	Engine        *recommend.Engine
	Catalog       repository.CatalogRepo
	Links         recommend.LinkBuilder
	// ModuleNames are handed to the importer; nil uses the built-in names.
	ModuleNames []string
	// Serve runs the HTTP API on addr until ctx is done.
	Serve func(ctx context.Context, addr string) error
	// DefaultAddr is used by serve when --addr is not given.
	DefaultAddr string
	// IsInteractive reports whether chat can run the full-screen TUI.
	IsInteractive func() bool
	// NewConversationID names fresh chat conversations.
	NewConversationID func() string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) newConversationID() string {
	if a.NewConversationID != nil {
		return a.NewConversationID()
	}
	return uuid.NewString()
}

// NewRootCmd creates the top-level "debot" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "debot",
		Short:         "Doubt-to-lesson assistant for the Domínio Elétrico course",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAskCmd(app),
		newChatCmd(app),
		newHistoryCmd(app),
		newServeCmd(app),
		newRecommendCmd(app),
		newCatalogCmd(app),
	)

	return root
}

// addConversationFlag registers the --conversation flag shared by the
// commands that talk to a conversation.
func addConversationFlag(fs *pflag.FlagSet, target *string, def string) {
	fs.StringVarP(target, "conversation", "c", def, "Conversation ID")
}
