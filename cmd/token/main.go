// Command token mints an API bearer token bound to one chat. With
// -provision it first creates the chat's scope.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fillbook/internal/auth"
	"github.com/MrJamesThe3rd/fillbook/internal/config"
	"github.com/MrJamesThe3rd/fillbook/internal/database"
	"github.com/MrJamesThe3rd/fillbook/internal/scope"
	scopeStore "github.com/MrJamesThe3rd/fillbook/internal/scope/store"
)

func main() {
	_ = godotenv.Load()

	chatID := flag.Int64("chat", 0, "chat id the token is bound to")
	provision := flag.String("provision", "", "create the chat's scope first: private or group")
	flag.Parse()

	if *chatID == 0 {
		fmt.Fprintln(os.Stderr, "usage: token -chat <chat id> [-provision private|group]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := auth.New(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("failed to create authenticator", "error", err)
		os.Exit(1)
	}

	if *provision != "" {
		if err := provisionScope(cfg, *chatID, scope.Type(strings.ToUpper(*provision))); err != nil {
			slog.Error("failed to provision scope", "chat_id", *chatID, "error", err)
			os.Exit(1)
		}
	}

	token, err := a.Issue(*chatID)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}

// provisionScope creates the chat's scope unless one already exists.
func provisionScope(cfg *config.Config, chatID int64, typ scope.Type) error {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	svc := scope.NewService(scopeStore.New(db))

	sc, err := svc.ResolveByChat(ctx, chatID)
	switch {
	case err == nil:
		slog.Info("scope already exists", "scope_id", sc.ID, "type", sc.Type)
		return nil
	case !errors.Is(err, scope.ErrNotFound):
		return err
	}

	sc, err = svc.Provision(ctx, chatID, typ)
	if err != nil {
		return err
	}

	slog.Info("scope provisioned", "scope_id", sc.ID, "type", sc.Type)

	return nil
}
