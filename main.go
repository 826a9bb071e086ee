package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rxchat/agent"
	"rxchat/config"
	"rxchat/i18n"
	"rxchat/model"
	"rxchat/provider"
	"rxchat/server"
	"rxchat/store"
	"rxchat/tools"
)

const Version = "1.0.0"

func main() {
	serveMode := flag.Bool("serve", false, "run the HTTP server (the default mode)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	configPath := flag.String("config", "", "path to config.toml")
	mcpMode := flag.Bool("mcp", false, "serve the pharmacy tools over MCP stdio")
	ask := flag.String("ask", "", "one-shot question: stream the answer to stdout and exit")
	userID := flag.String("user", "", "customer id for -ask")
	lang := flag.String("lang", "", "answer language for -ask (en or he)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("rxchat %s\n", Version)
		return
	}
	if *serveMode && *ask != "" {
		fmt.Fprintln(os.Stderr, "cannot combine -serve with -ask")
		os.Exit(2)
	}

	// .env is optional; deployed environments set variables directly.
	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	st, err := store.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	ledger, err := store.OpenLedger(cfg.DataDir())
	if err != nil {
		// Reservations still confirm without the audit trail.
		fmt.Fprintf(os.Stderr, "Warning: reservation ledger unavailable: %v\n", err)
		ledger = nil
	} else {
		defer ledger.Close()
	}

	registry, err := tools.NewRegistry(st, ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build tool registry: %v\n", err)
		os.Exit(1)
	}

	// MCP mode serves tools only; no model provider is involved.
	if *mcpMode {
		if err := server.ServeMCP(registry, Version); err != nil {
			fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	prov, err := provider.NewProvider(provider.Config{
		Type:    provider.MapProviderIDToType(cfg.Provider),
		BaseURL: cfg.BaseURLFor(cfg.Provider),
		Model:   cfg.Model,
		APIKey:  cfg.APIKeyFor(cfg.Provider),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create provider: %v\n", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := prov.Ping(pingCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: provider %s unreachable: %v\n", prov.Name(), err)
	}
	cancel()

	orch := agent.New(prov, registry, agent.DebugObserver())

	if *ask != "" {
		runOnce(orch, *ask, *userID, *lang)
		return
	}

	listenAddr := cfg.ListenAddr
	if *addr != "" {
		listenAddr = *addr
	}
	runServer(listenAddr, server.Config{
		Agent:           orch,
		Provider:        prov,
		Registry:        registry,
		Store:           st,
		Ledger:          ledger,
		DefaultLanguage: i18n.NormalizeLocale(cfg.DefaultLanguage),
		RequestTimeout:  cfg.RequestTimeout(),
		Version:         Version,
	})
}

// runOnce answers a single question on the command line: text streams
// to stdout as it arrives, tool activity goes to stderr.
func runOnce(orch *agent.Orchestrator, question, userID, lang string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prompt := agent.SystemPromptForUser(userID)
	if i18n.NormalizeLocale(lang) == i18n.Hebrew {
		prompt += "\n\nThe customer prefers Hebrew. Answer in Hebrew unless asked otherwise."
	}

	conversation := []model.Message{
		model.NewSystemMessage(prompt),
		model.NewUserMessage(question),
	}

	failed := false
	for event := range orch.Run(ctx, conversation) {
		switch event.Type {
		case model.EventText:
			fmt.Print(event.Content)
		case model.EventToolCall:
			args, _ := json.Marshal(event.Arguments)
			fmt.Fprintf(os.Stderr, "[tool] %s %s\n", event.ToolName, args)
		case model.EventError:
			failed = true
			fmt.Fprintf(os.Stderr, "\nError: %s\n", event.Err)
		}
	}
	if failed {
		os.Exit(1)
	}
	fmt.Println()
}

func runServer(addr string, scfg server.Config) {
	srv := server.New(scfg)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
		// WriteTimeout stays unset: SSE responses outlive any fixed bound.
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- httpServer.ListenAndServe()
	}()

	fmt.Printf("rxchat %s\n", Version)
	fmt.Printf("Provider: %s (model %s)\n", scfg.Provider.Name(), scfg.Provider.Model())
	fmt.Printf("Listening on %s\n", addr)

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		fmt.Println("\nShutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}
}
