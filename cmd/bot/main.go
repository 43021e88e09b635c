// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"imune-bot/internal/bot"
	"imune-bot/internal/config"
	"imune-bot/internal/github"
	"imune-bot/internal/journal"
	"imune-bot/internal/state"
	"imune-bot/internal/web"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Seed the store from the GitHub repository, keeping defaults when the
	// data file does not exist yet.
	store := state.NewStore()
	gateway := github.NewGateway(cfg.GitHubToken, cfg.GitHubOwner, cfg.GitHubRepo, cfg.DataFile, cfg.GitHubBranch)
	if raw, err := gateway.Load(context.Background()); err != nil {
		log.Printf("Error loading data from GitHub, starting fresh: %v", err)
	} else if raw != nil {
		if err := store.MergeFrom(raw); err != nil {
			log.Printf("Error merging remote data, starting fresh: %v", err)
		} else {
			log.Println("Data loaded from GitHub")
		}
	} else {
		log.Println("No remote data file yet, starting with fresh data")
	}

	// Optional Postgres audit journal
	var jdb *journal.DB
	if cfg.DBHost != "" {
		jdb, err = journal.Open(cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		if err != nil {
			log.Printf("Audit journal disabled: %v", err)
			jdb = nil
		}
	}

	// Initialize bot handler
	botHandler := bot.NewBotHandler(store, gateway, jdb, cfg.GuildID)

	// Create Discord session
	discord, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}

	botHandler.SetSession(discord)
	discord.AddHandler(botHandler.OnMessageCreate)

	discord.Identify.Intents = bot.GatewayIntents

	// Open connection
	if err := discord.Open(); err != nil {
		log.Fatalf("Error opening Discord connection: %v", err)
	}
	defer discord.Close()

	if err := botHandler.RegisterCommands(); err != nil {
		log.Printf("Error registering slash commands: %v", err)
	}

	// Web panel + keepalive server on its own goroutine, sharing the store
	panel := web.NewServer(store, gateway, cfg.PanelPassword, cfg.PanelSecret)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Printf("Web panel listening on %s", addr)
		if err := http.ListenAndServe(addr, panel.Handler()); err != nil {
			log.Printf("Web panel stopped: %v", err)
		}
	}()

	log.Println("Imune Bot is running!")

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down Imune Bot...")

	// Best-effort final save so the last in-memory state is not lost
	if snap, err := store.Snapshot(); err == nil {
		if err := gateway.Save(context.Background(), snap, "Shutdown save"); err != nil {
			log.Printf("Error on shutdown save: %v", err)
		}
	}
}
