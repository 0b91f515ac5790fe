// history prints stored episode summaries from the history database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gridlife.ai/internal/persistence/historydb"
)

func main() {
	var (
		dbPath = flag.String("db", "./data/history.db", "path to the history database")
		limit  = flag.Int("limit", 20, "max episodes to print (newest first)")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[history] ", log.LstdFlags)

	store, err := historydb.Open(*dbPath)
	if err != nil {
		logger.Fatalf("open: %v", err)
	}
	defer store.Close()

	rows, err := store.ListSummaries(*limit)
	if err != nil {
		logger.Fatalf("list: %v", err)
	}
	if len(rows) == 0 {
		fmt.Println("no episodes recorded")
		return
	}

	fmt.Printf("%-12s %-4s %-20s %8s %8s %6s %6s %6s %8s\n",
		"RUN", "EP", "RECORDED", "SURVIVE", "HEALTH", "COOP", "THEFT", "STABLE", "FOOD")
	for _, r := range rows {
		s := r.Summary
		fmt.Printf("%-12s %-4d %-20s %7.1f%% %8.1f %6d %6d %6d %8d\n",
			r.RunID, r.Episode, r.RecordedAt,
			s.SurvivalRate*100, s.AvgHealth,
			s.CooperationEvents, s.TheftEvents, s.StableAlliances, s.TotalFoodCollected)
	}
}
