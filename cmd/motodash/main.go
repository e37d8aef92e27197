package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/johnathamoeda-glitch/MotoDash/internal/cache"
	"github.com/johnathamoeda-glitch/MotoDash/internal/cloudsync"
	"github.com/johnathamoeda-glitch/MotoDash/internal/config"
	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
	"github.com/johnathamoeda-glitch/MotoDash/internal/insights"
	"github.com/johnathamoeda-glitch/MotoDash/internal/logger"
	"github.com/johnathamoeda-glitch/MotoDash/internal/remote"
	"github.com/johnathamoeda-glitch/MotoDash/internal/stats"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-earning":
		runAddEarning(log)
	case "add-expense":
		runAddExpense(log)
	case "delete":
		runDelete(log)
	case "list":
		runList(log)
	case "stats":
		runStats(log)
	case "goal":
		runGoal(log)
	case "fuel":
		runFuel(log)
	case "refresh":
		runRefresh(log)
	case "insights":
		runInsights(log)
	case "config":
		runConfig(log)
	case "wipe":
		runWipe(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("MotoDash CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  motodash <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  add-earning   Record a delivery earning")
	fmt.Println("  add-expense   Record an expense")
	fmt.Println("  delete        Delete a transaction by id")
	fmt.Println("  list          List transactions")
	fmt.Println("  stats         Show dashboard stats for a period")
	fmt.Println("  goal          Manage savings goals (add, delete, list)")
	fmt.Println("  fuel          Estimate fuel efficiency, optionally save as expense")
	fmt.Println("  refresh       Force a sync with the remote store")
	fmt.Println("  insights      Generate AI insights about recent activity")
	fmt.Println("  config        Manage remote store credentials (set, show)")
	fmt.Println("  wipe          Delete all local data")
	fmt.Println("  help          Show this help message")
	fmt.Println("\nRun 'motodash <command> -h' for more information on a command.")
}

// bootstrap loads configuration and initializes the sync controller. CLI
// invocations are one-shot, so the background poller is disabled.
func bootstrap(ctx context.Context, log zerolog.Logger) (*cloudsync.Controller, config.Config) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := cache.New(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local cache")
	}

	var client remote.Service
	if cfg.RemoteConfigured() {
		client = remote.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
	}

	controller := cloudsync.New(store, client, 0, log)
	controller.Init(ctx)
	return controller, cfg
}

func runAddEarning(log zerolog.Logger) {
	fs := flag.NewFlagSet("add-earning", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "Amount earned (BRL)")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Day of the earning (YYYY-MM-DD)")
	app := fs.String("app", "Uber", "Platform: Uber, 99 or Outro")
	km := fs.Float64("km", 0, "Kilometers traveled")
	hours := fs.Float64("hours", 0, "Hours worked")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	controller, _ := bootstrap(ctx, log)
	defer controller.Close()

	tx := domain.Transaction{
		Type:        domain.TypeEarning,
		Date:        *date,
		Amount:      *amount,
		App:         domain.Platform(*app),
		KMTraveled:  *km,
		HoursWorked: *hours,
	}

	if err := controller.AddTransaction(ctx, tx); err != nil {
		log.Fatal().Err(err).Msg("Failed to add earning")
	}

	fmt.Printf("Recorded earning of R$%.2f on %s via %s\n", *amount, *date, *app)
}

func runAddExpense(log zerolog.Logger) {
	fs := flag.NewFlagSet("add-expense", flag.ExitOnError)
	amount := fs.Float64("amount", 0, "Amount spent (BRL)")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Day of the expense (YYYY-MM-DD)")
	category := fs.String("category", "Outros", "Category: Combustível, Manutenção, Alimentação, Seguro or Outros")
	description := fs.String("description", "", "Free-form description")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	controller, _ := bootstrap(ctx, log)
	defer controller.Close()

	tx := domain.Transaction{
		Type:        domain.TypeExpense,
		Date:        *date,
		Amount:      *amount,
		Category:    domain.ExpenseCategory(*category),
		Description: *description,
	}

	if err := controller.AddTransaction(ctx, tx); err != nil {
		log.Fatal().Err(err).Msg("Failed to add expense")
	}

	fmt.Printf("Recorded expense of R$%.2f on %s (%s)\n", *amount, *date, *category)
}

func runDelete(log zerolog.Logger) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "Transaction id to delete")
	fs.Parse(os.Args[2:])

	if *id == "" {
		log.Fatal().Msg("Error: --id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	controller, _ := bootstrap(ctx, log)
	defer controller.Close()

	if err := controller.DeleteTransaction(ctx, *id); err != nil {
		log.Fatal().Err(err).Msg("Failed to delete transaction")
	}

	fmt.Printf("Deleted transaction %s\n", *id)
}

func runList(log zerolog.Logger) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	start := fs.String("start", "", "Start day (YYYY-MM-DD, inclusive)")
	end := fs.String("end", "", "End day (YYYY-MM-DD, inclusive)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	controller, _ := bootstrap(ctx, log)
	defer controller.Close()

	txs := stats.FilterByDateRange(controller.Transactions(), *start, *end)
	if len(txs) == 0 {
		fmt.Println("No transactions.")
		return
	}

	for _, tx := range txs {
		if tx.IsEarning() {
			fmt.Printf("%s  %-36s  ganho    R$%8.2f  %s", tx.Date, tx.ID, tx.Amount, tx.App)
			if tx.KMTraveled > 0 {
				fmt.Printf("  %.1f km", tx.KMTraveled)
			}
			if tx.HoursWorked > 0 {
				fmt.Printf("  %.1f h", tx.HoursWorked)
			}
			fmt.Println()
			continue
		}
		fmt.Printf("%s  %-36s  despesa  R$%8.2f  %s", tx.Date, tx.ID, tx.Amount, tx.Category)
		if tx.Description != "" {
			fmt.Printf("  %s", tx.Description)
		}
		fmt.Println()
	}
}

func runStats(log zerolog.Logger) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	start := fs.String("start", "", "Start day (YYYY-MM-DD, inclusive)")
	end := fs.String("end", "", "End day (YYYY-MM-DD, inclusive)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	controller, _ := bootstrap(ctx, log)
	defer controller.Close()

	txs := stats.FilterByDateRange(controller.Transactions(), *start, *end)
	s := stats.ComputeDashboardStats(txs)

	fmt.Println("\n=== Dashboard ===")
	fmt.Printf("Ganhos:       R$%.2f\n", s.TotalEarnings)
	fmt.Printf("Despesas:     R$%.2f\n", s.TotalExpenses)
	fmt.Printf("Lucro:        R$%.2f\n", s.NetProfit)
	fmt.Printf("Média/hora:   R$%.2f\n", s.AvgPerHour)
	fmt.Printf("Média/km:     R$%.2f\n", s.AvgPerKm)
	fmt.Printf("Total km:     %.1f\n", s.TotalKm)
	fmt.Printf("Total horas:  %.1f\n", s.TotalHours)

	goals := controller.Goals()
	if len(goals) > 0 {
		fmt.Println("\n=== Metas ===")
		for _, g := range goals {
			fmt.Printf("%-24s  R$%.2f  %.0f%%\n", g.Name, g.TargetAmount, stats.ComputeGoalProgress(g, txs))
		}
	}
	fmt.Println()
}

func runGoal(log zerolog.Logger) {
	if len(os.Args) < 3 {
		log.Fatal().Msg("Usage: motodash goal <add|delete|list> [options]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch os.Args[2] {
	case "add":
		fs := flag.NewFlagSet("goal add", flag.ExitOnError)
		name := fs.String("name", "", "Goal name")
		target := fs.Float64("target", 0, "Target amount (BRL)")
		fs.Parse(os.Args[3:])

		controller, _ := bootstrap(ctx, log)
		defer controller.Close()

		if err := controller.AddGoal(ctx, domain.Goal{Name: *name, TargetAmount: *target}); err != nil {
			log.Fatal().Err(err).Msg("Failed to add goal")
		}
		fmt.Printf("Created goal %q with target R$%.2f\n", *name, *target)

	case "delete":
		fs := flag.NewFlagSet("goal delete", flag.ExitOnError)
		id := fs.String("id", "", "Goal id to delete")
		fs.Parse(os.Args[3:])

		if *id == "" {
			log.Fatal().Msg("Error: --id is required")
		}

		controller, _ := bootstrap(ctx, log)
		defer controller.Close()

		if err := controller.DeleteGoal(ctx, *id); err != nil {
			log.Fatal().Err(err).Msg("Failed to delete goal")
		}
		fmt.Printf("Deleted goal %s\n", *id)

	case "list":
		controller, _ := bootstrap(ctx, log)
		defer controller.Close()

		goals := controller.Goals()
		if len(goals) == 0 {
			fmt.Println("No goals.")
			return
		}
		txs := controller.Transactions()
		for _, g := range goals {
			fmt.Printf("%-36s  %-24s  R$%8.2f  %.0f%%\n", g.ID, g.Name, g.TargetAmount, stats.ComputeGoalProgress(g, txs))
		}

	default:
		log.Fatal().Msgf("Unknown goal subcommand: %s", os.Args[2])
	}
}

func runFuel(log zerolog.Logger) {
	fs := flag.NewFlagSet("fuel", flag.ExitOnError)
	spent := fs.Float64("spent", 0, "Amount spent at the pump (BRL)")
	price := fs.Float64("price", 0, "Price per liter (BRL)")
	distance := fs.Float64("km", 0, "Distance covered on that tank (km)")
	date := fs.String("date", time.Now().Format("2006-01-02"), "Day of the fill-up (YYYY-MM-DD)")
	save := fs.Bool("save", false, "Also record the fill-up as a fuel expense")
	fs.Parse(os.Args[2:])

	eff := stats.ComputeFuelEfficiency(*spent, *price, *distance)

	fmt.Println("\n=== Combustível ===")
	fmt.Printf("Litros:       %.2f\n", eff.Liters)
	fmt.Printf("Consumo:      %.2f km/L\n", eff.KMPerL)
	fmt.Printf("Custo por km: R$%.2f\n", eff.CostPerK)

	if !*save {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	controller, _ := bootstrap(ctx, log)
	defer controller.Close()

	if err := controller.AddTransaction(ctx, eff.AsExpense(*date, *spent, *distance)); err != nil {
		log.Fatal().Err(err).Msg("Failed to save fuel expense")
	}
	fmt.Printf("Saved fuel expense of R$%.2f on %s\n", *spent, *date)
}

func runRefresh(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	controller, _ := bootstrap(ctx, log)
	defer controller.Close()

	if err := controller.Refresh(ctx, false); err != nil {
		log.Fatal().Err(err).Msg("Refresh failed")
	}

	state := controller.State()
	fmt.Printf("Mode: %s\n", state.Mode)
	if !state.LastSync.IsZero() {
		fmt.Printf("Last sync: %s\n", state.LastSync.Format(time.RFC3339))
	}
}

func runInsights(log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	controller, cfg := bootstrap(ctx, log)
	defer controller.Close()

	generator := insights.NewGenerator(cfg.GeminiAPIKey)
	text, err := generator.Generate(ctx, controller.Transactions())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate insights")
	}

	fmt.Println(text)
}

func runConfig(log zerolog.Logger) {
	if len(os.Args) < 3 {
		log.Fatal().Msg("Usage: motodash config <set|show> [options]")
	}

	switch os.Args[2] {
	case "set":
		fs := flag.NewFlagSet("config set", flag.ExitOnError)
		url := fs.String("supabase-url", "", "Supabase project URL")
		key := fs.String("supabase-key", "", "Supabase anon key")
		fs.Parse(os.Args[3:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		if err := config.SaveOverrides(cfg.DataDir, *url, *key); err != nil {
			log.Fatal().Err(err).Msg("Failed to save credentials")
		}
		fmt.Println("Credentials saved. The next run will use the new remote store.")

	case "show":
		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		fmt.Printf("Data dir:      %s\n", cfg.DataDir)
		fmt.Printf("Supabase URL:  %s\n", cfg.SupabaseURL)
		fmt.Printf("Remote store:  %v\n", cfg.RemoteConfigured())
		fmt.Printf("Gemini key:    %v\n", cfg.GeminiAPIKey != "")
		fmt.Printf("Poll interval: %s\n", cfg.PollInterval)

	default:
		log.Fatal().Msgf("Unknown config subcommand: %s", os.Args[2])
	}
}

func runWipe(log zerolog.Logger) {
	fs := flag.NewFlagSet("wipe", flag.ExitOnError)
	confirm := fs.Bool("yes", false, "Confirm deletion of all local data")
	fs.Parse(os.Args[2:])

	if !*confirm {
		log.Fatal().Msg("Refusing to wipe without --yes")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := cache.New(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local cache")
	}
	if err := store.Clear(); err != nil {
		log.Fatal().Err(err).Msg("Failed to clear local data")
	}

	fmt.Println("All local data deleted. Remote data, if any, is untouched.")
}
