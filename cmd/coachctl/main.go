// coachctl runs a single batch pass in-process and prints its summary.
//
//	go run ./cmd/coachctl morning
//	go run ./cmd/coachctl trial_expiry
//	go run ./cmd/coachctl hash-secret <secret>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"nutricoach-be/internal/bootstrap"
	"nutricoach-be/internal/coach"
	"nutricoach-be/internal/config"
	"nutricoach-be/internal/dto"
	"nutricoach-be/internal/entity"
	"nutricoach-be/internal/pkg/serverutils"
	"nutricoach-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	if len(os.Args) < 2 || os.Args[1] == "list" {
		printPasses()
		return
	}
	if os.Args[1] == "hash-secret" {
		hashSecret(os.Args[2:])
		return
	}
	pass := os.Args[1]

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	container := bootstrap.NewContainer(db, cfg)
	defer container.Close()

	// Ctrl-C stops new members from being started; in-flight sends finish.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	color.Cyan("Running pass %q...", pass)
	res, err := container.CoachService.RunPass(ctx, pass)
	if err != nil {
		color.Red("Pass failed: %v", err)
		os.Exit(1)
	}
	printResult(res)
}

// hashSecret prints a bcrypt value usable as CRON_SECRET.
func hashSecret(args []string) {
	if len(args) != 1 || args[0] == "" {
		color.Red("usage: coachctl hash-secret <secret>")
		os.Exit(2)
	}
	hash, err := serverutils.HashCronSecret(args[0])
	if err != nil {
		color.Red("Failed to hash secret: %v", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

func printPasses() {
	color.Cyan("Notification categories:")
	for _, c := range entity.NotificationCategories() {
		fmt.Printf("  %s\n", c)
	}
	color.Cyan("Sweeps:")
	fmt.Printf("  %s\n  %s\n", coach.PassTrialExpiry, coach.PassInactivityStatus)
}

func printResult(res *dto.PassResponse) {
	if b, ok := res.Batch.(*coach.BatchStats); ok {
		color.Green("Sent:    %d", b.Sent)
		color.Yellow("Skipped: %d", b.Skipped)
		if b.Failed > 0 {
			color.Red("Failed:  %d", b.Failed)
		} else {
			fmt.Printf("Failed:  0\n")
		}
		fmt.Printf("Total:   %d (%dms)\n", b.Total, b.DurationMs)
		if b.Cancelled {
			color.Red("Pass was cancelled before every member was processed")
		}

		reasons := make([]string, 0, len(b.SkipReasons))
		for r := range b.SkipReasons {
			reasons = append(reasons, string(r))
		}
		sort.Strings(reasons)
		for _, r := range reasons {
			fmt.Printf("  skip %-24s %d\n", r, b.SkipReasons[coach.Reason(r)])
		}
		return
	}

	out, err := json.MarshalIndent(res.Sweep, "", "  ")
	if err != nil {
		color.Red("Failed to encode sweep result: %v", err)
		os.Exit(1)
	}
	color.Green("%s", out)
}
