// Package main provides the interactive news research assistant.
// It reads commands from standard input and drives the fetch, index,
// summarize and preference use cases.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"newsdigest/internal/config"
	"newsdigest/internal/domain/entity"
	"newsdigest/internal/infra/adapter/persistence/jsonfile"
	"newsdigest/internal/infra/embedder"
	"newsdigest/internal/infra/fetcher"
	"newsdigest/internal/infra/newsapi"
	"newsdigest/internal/infra/rss"
	"newsdigest/internal/infra/summarizer"
	"newsdigest/internal/infra/vectorstore"
	"newsdigest/internal/observability/logging"
	"newsdigest/internal/repository"
	"newsdigest/internal/usecase/digest"
	fetchUC "newsdigest/internal/usecase/fetch"
	indexUC "newsdigest/internal/usecase/index"
	queryUC "newsdigest/internal/usecase/query"
)

func main() {
	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	svc, profiles, cleanup, err := buildServices(cfg, logger)
	if err != nil {
		logger.Error("startup failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	runLoop(context.Background(), svc, profiles, os.Stdin, os.Stdout)
}

// buildServices wires the full pipeline from configuration. The returned
// cleanup function closes the database connection when one was opened.
func buildServices(cfg *config.Config, logger *slog.Logger) (digest.Service, repository.ProfileRepository, func(), error) {
	cleanup := func() {}

	emb := embedder.NewOpenAI(cfg.Vector.OpenAIAPIKey, cfg.Vector.EmbeddingModel)

	opts := vectorstore.Options{DataDir: cfg.Vector.DataDir}
	if cfg.Vector.Backend == "pgvector" {
		db, err := sql.Open("pgx", cfg.Vector.DatabaseURL)
		if err != nil {
			return digest.Service{}, nil, cleanup, fmt.Errorf("open database: %w", err)
		}
		opts.DB = db
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}
	}

	store, err := vectorstore.New(cfg.Vector.Backend, emb, opts)
	if err != nil {
		return digest.Service{}, nil, cleanup, err
	}
	if migrator, ok := store.(interface{ Migrate(context.Context) error }); ok {
		if err := migrator.Migrate(context.Background()); err != nil {
			return digest.Service{}, nil, cleanup, fmt.Errorf("migrate vector store: %w", err)
		}
	}

	var generator summarizer.Generator
	if cfg.AnthropicAPIKey != "" {
		generator = summarizer.NewClaude(cfg.AnthropicAPIKey)
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set, summaries fall back to article titles")
		generator = summarizer.NewUnconfigured()
	}

	profiles := jsonfile.NewProfileRepo(cfg.ProfilePath)
	contentFetcher := fetcher.NewReadability(fetcher.DefaultConfig())

	svc := digest.NewService(
		fetchUC.NewService(createArticleSource(cfg, logger), contentFetcher, logger),
		indexUC.NewService(store, logger),
		queryUC.NewService(store, logger),
		summarizer.NewService(generator, nil, logger),
		profiles,
		logger,
	)

	return svc, profiles, cleanup, nil
}

// createArticleSource selects the article source based on NEWS_SOURCE.
// The default is the news search API; NEWS_SOURCE=rss switches to the feeds
// listed in RSS_FEED_URLS (comma separated).
func createArticleSource(cfg *config.Config, logger *slog.Logger) fetchUC.ArticleSource {
	if os.Getenv("NEWS_SOURCE") != "rss" {
		return newsapi.NewClient(cfg.News)
	}

	var urls []string
	for _, raw := range strings.Split(os.Getenv("RSS_FEED_URLS"), ",") {
		if u := strings.TrimSpace(raw); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		logger.Warn("NEWS_SOURCE=rss but RSS_FEED_URLS is empty, using news API")
		return newsapi.NewClient(cfg.News)
	}

	logger.Info("using RSS feeds as article source", slog.Int("feeds", len(urls)))
	return rss.NewSource(urls, nil)
}

// runLoop reads commands line by line until exit or end of input.
func runLoop(ctx context.Context, svc digest.Service, profiles repository.ProfileRepository, in *os.File, out *os.File) {
	fmt.Fprintln(out, "News research assistant. Type 'help' for commands.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "news> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		command, arg := splitCommand(scanner.Text())
		switch command {
		case "":
			continue
		case "search":
			doSearch(ctx, svc, out, arg)
		case "save":
			doSave(profiles, out, arg)
		case "list":
			doList(profiles, out)
		case "remove":
			doRemove(profiles, out, arg)
		case "history":
			doHistory(profiles, out)
		case "summary":
			doSummaryType(profiles, out, arg)
		case "clear":
			doClear(profiles, out)
		case "help":
			printHelp(out)
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye.")
			return
		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help' for commands.\n", command)
		}
	}
}

// splitCommand separates the command word from its argument. The argument is
// the rest of the line, so multi-word topics need no quoting.
func splitCommand(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	parts := strings.SplitN(line, " ", 2)
	command := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return command, ""
	}
	return command, strings.TrimSpace(parts[1])
}

func doSearch(ctx context.Context, svc digest.Service, out *os.File, topic string) {
	if topic == "" {
		fmt.Fprintln(out, "Usage: search <topic>")
		return
	}

	fmt.Fprintf(out, "Searching for news about %q...\n", topic)

	result, err := svc.Research(ctx, topic)
	if err != nil {
		fmt.Fprintf(out, "Search failed: %v\n", err)
		return
	}

	fmt.Fprintf(out, "\nFound %d articles (%d indexed):\n", len(result.Articles), result.Indexed)
	for i, a := range result.Articles {
		fmt.Fprintf(out, "  %d. %s", i+1, a.Title)
		if a.Source != "" {
			fmt.Fprintf(out, " (%s)", a.Source)
		}
		fmt.Fprintln(out)
		if a.URL != "" {
			fmt.Fprintf(out, "     %s\n", a.URL)
		}
	}

	fmt.Fprintf(out, "\nSummary (%s):\n%s\n", result.SummaryType, result.Summary.Text)
	if !result.Summary.Generated {
		fmt.Fprintf(out, "(fallback summary: %s)\n", result.Summary.FallbackReason)
	}
}

func doSave(profiles repository.ProfileRepository, out *os.File, topic string) {
	if topic == "" {
		fmt.Fprintln(out, "Usage: save <topic>")
		return
	}
	if err := profiles.AddInterest(topic); err != nil {
		fmt.Fprintf(out, "Failed to save interest: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Saved %q to your interests.\n", topic)
}

func doList(profiles repository.ProfileRepository, out *os.File) {
	prefs := profiles.Preferences()
	if len(prefs.Interests) == 0 {
		fmt.Fprintln(out, "No saved interests.")
		return
	}
	fmt.Fprintln(out, "Saved interests:")
	for i, interest := range prefs.Interests {
		fmt.Fprintf(out, "  %d. %s\n", i+1, interest)
	}
}

func doRemove(profiles repository.ProfileRepository, out *os.File, topic string) {
	if topic == "" {
		fmt.Fprintln(out, "Usage: remove <topic>")
		return
	}
	if err := profiles.RemoveInterest(topic); err != nil {
		fmt.Fprintf(out, "Failed to remove interest: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Removed %q from your interests.\n", topic)
}

func doHistory(profiles repository.ProfileRepository, out *os.File) {
	entries := profiles.History(entity.MaxHistoryEntries)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No search history.")
		return
	}
	fmt.Fprintln(out, "Recent searches:")
	for _, e := range entries {
		fmt.Fprintf(out, "  %s  %s (%s)\n", e.Timestamp, e.Topic, e.SummaryType)
	}
}

func doSummaryType(profiles repository.ProfileRepository, out *os.File, arg string) {
	if !entity.ValidSummaryType(arg) {
		fmt.Fprintf(out, "Usage: summary <%s|%s>\n", entity.SummaryTypeBrief, entity.SummaryTypeDetailed)
		return
	}
	update := repository.PreferenceUpdate{SummaryType: &arg}
	if err := profiles.UpdatePreferences(update); err != nil {
		fmt.Fprintf(out, "Failed to update summary type: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Summary type set to %s.\n", arg)
}

func doClear(profiles repository.ProfileRepository, out *os.File) {
	if err := profiles.ClearHistory(); err != nil {
		fmt.Fprintf(out, "Failed to clear history: %v\n", err)
		return
	}
	fmt.Fprintln(out, "Search history cleared.")
}

func printHelp(out *os.File) {
	fmt.Fprintln(out, `Commands:
  search <topic>            fetch, index and summarize news about a topic
  save <topic>              add a topic to your saved interests
  list                      show saved interests
  remove <topic>            remove a saved interest
  history                   show recent searches
  summary <brief|detailed>  set the preferred summary type
  clear                     clear search history
  help                      show this help
  exit                      quit`)
}
