package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dlazarev/finadvisor/internal/advisor"
	"github.com/dlazarev/finadvisor/internal/config"
	"github.com/dlazarev/finadvisor/internal/domain"
	"github.com/dlazarev/finadvisor/internal/ingest"
	"github.com/dlazarev/finadvisor/internal/llm"
	"github.com/dlazarev/finadvisor/internal/logger"
	"github.com/dlazarev/finadvisor/internal/reconcile"
	"github.com/dlazarev/finadvisor/internal/store"
	bqstore "github.com/dlazarev/finadvisor/internal/store/bigquery"
	"github.com/dlazarev/finadvisor/internal/summary"
)

var (
	configPath string
	userID     string
)

func main() {
	root := &cobra.Command{
		Use:           "finadvisor",
		Short:         "Personal finance advisory toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "finadvisor.toml", "path to config file")
	root.PersistentFlags().StringVar(&userID, "user", "", "user ID")

	root.AddCommand(askCmd(), summaryCmd(), importCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func openRepo(ctx context.Context, cfg config.Config) (store.Repository, error) {
	return bqstore.NewRepository(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Dataset)
}

func requireUser() error {
	if userID == "" {
		return fmt.Errorf("--user is required")
	}
	return nil
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a financial question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			ctx := cmd.Context()
			log := logger.New("finadvisor-cli")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			repo, err := openRepo(ctx, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			gen, err := llm.NewGemini(ctx, cfg.Gemini.Model)
			if err != nil {
				return fmt.Errorf("gemini: %w", err)
			}

			profile, err := repo.GetProfile(ctx, userID)
			if err != nil {
				profile = domain.Profile{UserID: userID}
			}

			svc := advisor.New(gen, repo, cfg.Gemini, log)
			resp, err := svc.Advise(ctx, domain.AdvisoryQuery{
				UserID:  userID,
				Query:   strings.Join(args, " "),
				Profile: profile,
			})
			if err != nil {
				return err
			}

			fmt.Println(resp.Response)
			if len(resp.Insights) > 0 {
				fmt.Println("\nInsights:")
				for _, s := range resp.Insights {
					fmt.Println("  -", s)
				}
			}
			if len(resp.Suggestions) > 0 {
				fmt.Println("\nSuggestions:")
				for _, s := range resp.Suggestions {
					fmt.Println("  -", s)
				}
			}
			if len(resp.FollowUpQuestions) > 0 {
				fmt.Println("\nFollow-up questions:")
				for _, s := range resp.FollowUpQuestions {
					fmt.Println("  -", s)
				}
			}
			return nil
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the derived financial summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			repo, err := openRepo(ctx, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			profile, err := repo.GetProfile(ctx, userID)
			if err != nil {
				profile = domain.Profile{UserID: userID}
			}
			manual, err := repo.ListManualEntries(ctx, userID)
			if err != nil {
				return err
			}
			records, err := repo.ListProviderRecords(ctx, userID)
			if err != nil {
				return err
			}
			goals, err := repo.ListGoals(ctx, userID)
			if err != nil {
				return err
			}

			ledger := reconcile.Reconcile(manual, records)
			sum := summary.Calculate(profile, ledger, goals)

			out, err := json.MarshalIndent(sum, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a local provider CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			if !ingest.ValidSource(source) {
				return fmt.Errorf("unknown source %q (spending, investment or retirement)", source)
			}
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := ingest.ParseCSV(source, f)
			if err != nil {
				return err
			}

			repo, err := openRepo(ctx, cfg)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.InsertProviderRecords(ctx, userID, source, records); err != nil {
				return err
			}
			fmt.Printf("Imported %d %s records\n", len(records), source)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", ingest.SourceSpending, "provider source layout")
	return cmd
}
