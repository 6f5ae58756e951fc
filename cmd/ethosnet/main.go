package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ethosnet/ethosnet/internal/client"
	"github.com/ethosnet/ethosnet/internal/config"
)

var (
	baseURL  string
	token    string
	authorID string
	timeout  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ethosnet",
		Short: "EthosNet client: evaluate decisions, search and grow the knowledge base",
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "server base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer token")
	rootCmd.PersistentFlags().StringVar(&authorID, "author", "", "author id for contributions")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 0, "request timeout in seconds")

	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(guidelinesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newOrchestrator resolves settings (flags override config.yaml) and builds
// the client against a terminal view.
func newOrchestrator() *client.Orchestrator {
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	if cfg, err := config.Load(path); err == nil {
		if baseURL == "" {
			baseURL = cfg.Client.BaseURL
		}
		if token == "" {
			token = cfg.Client.Token
		}
		if authorID == "" {
			authorID = cfg.Client.AuthorID
		}
		if timeout == 0 {
			timeout = cfg.Client.TimeoutSeconds
		}
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	api := client.NewAPI(baseURL, token, time.Duration(timeout)*time.Second)
	return client.NewOrchestrator(api, &termView{}, log.New(os.Stderr, "", log.LstdFlags))
}

func evaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [decision]",
		Short: "Evaluate the ethics of an AI decision",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := newOrchestrator()
			return o.SubmitEvaluation(context.Background(), strings.Join(args, " "))
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search the community knowledge base",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := newOrchestrator()
			return o.SubmitSearch(context.Background(), strings.Join(args, " "))
		},
	}
}

func addCmd() *cobra.Command {
	var title, tags string

	cmd := &cobra.Command{
		Use:   "add [content]",
		Short: "Add a knowledge entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := newOrchestrator()
			content := strings.Join(args, " ")
			return o.SubmitNewEntry(context.Background(), title, content, tags, authorID)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "entry title")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.MarkFlagRequired("title")
	return cmd
}

func guidelinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guidelines",
		Short: "List the current ethical guidelines",
		RunE: func(cmd *cobra.Command, args []string) error {
			o := newOrchestrator()
			return o.FetchGuidelines(context.Background())
		},
	}
}

// termView renders orchestrator output to stdout.
type termView struct{}

func (v *termView) ClearResults() {}

func (v *termView) ShowEvaluation(score float64, explanation string, concerns, suggestions []string) {
	fmt.Printf("Ethical score: %.0f/100\n\n%s\n", score, explanation)
	if len(concerns) > 0 {
		fmt.Println("\nConcerns:")
		for _, c := range concerns {
			fmt.Printf("  - %s\n", c)
		}
	}
	if len(suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, s := range suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
}

func (v *termView) ShowEntry(title, content, tags, author, created string) {
	fmt.Printf("## %s\n%s\n", title, content)
	if tags != "" {
		fmt.Printf("tags: %s\n", tags)
	}
	fmt.Printf("by %s", author)
	if created != "" {
		fmt.Printf(" on %s", created)
	}
	fmt.Print("\n\n")
}

func (v *termView) ShowGuideline(text string) { fmt.Printf("- %s\n", text) }
func (v *termView) ShowMessage(text string)   { fmt.Println(text) }
func (v *termView) Notify(text string)        { fmt.Println(text) }
func (v *termView) Alert(text string)         { fmt.Fprintln(os.Stderr, text) }
func (v *termView) ShowEntryForm()            {}
func (v *termView) HideEntryForm()            {}
func (v *termView) ClearEntryForm()           {}
