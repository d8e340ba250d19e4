// Package main is the entry point for the devshare CLI.
//
// devshare is a local-first code sharing feed: all state lives in an
// embedded database on disk (SQLite file or Badger directory, per
// STORAGE_BACKEND), so every invocation picks up where the last one left
// off — including who is signed in. The main package stays minimal: read
// configuration, wire the dependency graph, dispatch one command.
//
// Usage:
//
//	devshare feed
//	devshare register <username> <email> <password>
//	devshare login <email> <password>
//	devshare logout
//	devshare whoami
//	devshare post -type snippet -title "..." -code "..." -lang go [-tags a,b]
//	devshare post -type project -title "..." -url https://... [-tags a,b]
//	devshare like <postID>
//	devshare comment <postID> <text>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sakif/devshare/internal/auth"
	"github.com/sakif/devshare/internal/config"
	"github.com/sakif/devshare/internal/model"
	"github.com/sakif/devshare/internal/service"
	"github.com/sakif/devshare/internal/session"
	"github.com/sakif/devshare/internal/storage"
	"github.com/sakif/devshare/internal/storage/badgerkv"
	"github.com/sakif/devshare/internal/storage/sqlite"
	"github.com/sakif/devshare/internal/store"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	if err := run(cfg, logger, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openKV selects the persistence substrate from config.
func openKV(cfg *config.Config, logger *slog.Logger) (storage.KV, error) {
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		return badgerkv.New(cfg.Storage.Path, logger)
	default:
		// Ensure the parent directory exists (like `mkdir -p`).
		if dir := filepath.Dir(cfg.Storage.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
			}
		}
		return sqlite.New(cfg.Storage.Path)
	}
}

func run(cfg *config.Config, logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		args = []string{"feed"}
	}
	ctx := context.Background()

	kv, err := openKV(cfg, logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	codec, err := auth.NewSessionCodec(cfg.Session.Secret)
	if err != nil {
		return err
	}
	sessions := session.New(kv, codec, logger)

	st, err := store.New(ctx, kv, sessions, logger)
	if err != nil {
		return err
	}

	passwords, err := auth.NewPasswordService(cfg.KDF.Time, cfg.KDF.MemKiB, cfg.KDF.Par)
	if err != nil {
		return err
	}

	authSvc := service.NewAuthService(st, sessions, passwords, logger)
	postSvc := service.NewPostService(st, logger)

	switch cmd, rest := args[0], args[1:]; cmd {
	case "feed":
		return printFeed(ctx, postSvc)

	case "register":
		if len(rest) != 3 {
			return fmt.Errorf("usage: devshare register <username> <email> <password>")
		}
		user, err := authSvc.Register(ctx, rest[0], rest[1], rest[2])
		if err != nil {
			return err
		}
		fmt.Printf("registered and signed in as %s (%s)\n", user.Username, user.ID)
		return nil

	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("usage: devshare login <email> <password>")
		}
		user, err := authSvc.Login(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s\n", user.Username)
		return nil

	case "logout":
		if err := authSvc.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil

	case "whoami":
		user, err := authSvc.RestoreSession(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("not signed in")
			return nil
		}
		fmt.Printf("%s <%s>\n", user.Username, user.Email)
		return nil

	case "post":
		return publishPost(ctx, authSvc, postSvc, rest)

	case "like":
		if len(rest) != 1 {
			return fmt.Errorf("usage: devshare like <postID>")
		}
		user, err := requireSession(ctx, authSvc)
		if err != nil {
			return err
		}
		return postSvc.ToggleLike(ctx, user, rest[0])

	case "comment":
		if len(rest) < 2 {
			return fmt.Errorf("usage: devshare comment <postID> <text>")
		}
		user, err := requireSession(ctx, authSvc)
		if err != nil {
			return err
		}
		_, err = postSvc.AddComment(ctx, user, rest[0], strings.Join(rest[1:], " "))
		return err

	default:
		return fmt.Errorf("unknown command %q (try: feed, register, login, logout, whoami, post, like, comment)", cmd)
	}
}

func requireSession(ctx context.Context, authSvc *service.AuthService) (*model.User, error) {
	user, err := authSvc.RestoreSession(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("not signed in (run: devshare login <email> <password>)")
	}
	return user, nil
}

func publishPost(ctx context.Context, authSvc *service.AuthService, postSvc *service.PostService, args []string) error {
	fs := flag.NewFlagSet("post", flag.ContinueOnError)
	typ := fs.String("type", "snippet", "post type: snippet or project")
	title := fs.String("title", "", "post title")
	desc := fs.String("desc", "", "post description")
	code := fs.String("code", "", "code body (snippet only)")
	lang := fs.String("lang", "", "language tag (snippet only)")
	projectURL := fs.String("url", "", "project URL (project only)")
	tags := fs.String("tags", "", "comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := requireSession(ctx, authSvc)
	if err != nil {
		return err
	}

	var tagList []string
	if *tags != "" {
		tagList = strings.Split(*tags, ",")
	}

	post, err := postSvc.Create(ctx, user, service.PostInput{
		Type:        model.PostType(*typ),
		Title:       *title,
		Description: *desc,
		Code:        *code,
		Language:    *lang,
		ProjectURL:  *projectURL,
		Tags:        tagList,
	})
	if err != nil {
		return err
	}
	fmt.Printf("published %s %s\n", post.Type, post.ID)
	return nil
}

// printFeed renders the reverse-chronological feed the way the store hands
// it out — no re-sorting here.
func printFeed(ctx context.Context, postSvc *service.PostService) error {
	posts, err := postSvc.Feed(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("the feed is empty — publish something with: devshare post")
		return nil
	}

	for _, p := range posts {
		fmt.Printf("[%s] %s — @%s (%s)\n", p.ID, p.Title, p.Author.Username,
			p.CreatedAt.Format("2006-01-02 15:04"))
		if p.Description != "" {
			fmt.Printf("    %s\n", p.Description)
		}
		switch p.Type {
		case model.PostTypeSnippet:
			fmt.Printf("    snippet (%s), %d lines\n", p.Language, strings.Count(p.Code, "\n")+1)
		case model.PostTypeProject:
			fmt.Printf("    project: %s\n", p.ProjectURL)
		}
		if len(p.Tags) > 0 {
			fmt.Printf("    tags: %s\n", strings.Join(p.Tags, ", "))
		}
		fmt.Printf("    %d likes, %d comments\n", len(p.Likes), len(p.Comments))
		for _, c := range p.Comments {
			fmt.Printf("      @%s: %s\n", c.Username, c.Content)
		}
	}
	return nil
}
