package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/wolfman30/symptom-advisor/cmd/mainconfig"
	"github.com/wolfman30/symptom-advisor/internal/app/bootstrap"
	appconfig "github.com/wolfman30/symptom-advisor/internal/config"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

// llmtest runs one message through the full advisor flow against the
// configured catalog and model and prints the analysis and the reply.
func main() {
	if !mainconfig.LoadEnv() {
		log.Println("No .env file found, using environment variables")
	}

	message := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if message == "" {
		message = "tengo dolor de cabeza y mucho estrés, ¿qué me recomiendan?"
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLMTimeout+10*time.Second)
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	pool := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}
	stores := bootstrap.BuildStores(cfg, pool, nil, logger)
	llm, model := bootstrap.BuildLLMClient(cfg, awsCfg, logger)
	svc := bootstrap.BuildChatService(cfg, stores, bootstrap.ChatDeps{LLM: llm, Model: model}, logger)

	start := time.Now()
	reply, err := svc.Respond(ctx, message)
	if err != nil {
		log.Fatalf("respond: %v", err)
	}

	fmt.Println("Message:  ", message)
	fmt.Println("Strategy: ", reply.Analysis.Strategy)
	fmt.Println("Summary:  ", reply.Analysis.Symptoms.Summary)
	if len(reply.Analysis.Mentions) > 0 {
		mentions, _ := json.MarshalIndent(reply.Analysis.Mentions, "", "  ")
		fmt.Println("Mentions: ", string(mentions))
	}
	fmt.Println()
	fmt.Println(reply.Analysis.Prompt)
	fmt.Println()
	fmt.Printf("Reply (%v, fallback=%t):\n%s\n", time.Since(start).Round(time.Millisecond), reply.Fallback, reply.Message)
}
