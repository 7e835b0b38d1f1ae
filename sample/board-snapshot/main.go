package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/lead-pipeline/internal/entity"
	"github.com/xavierca1/lead-pipeline/internal/infra/integration/crm"
	"github.com/xavierca1/lead-pipeline/internal/pipeline"
)

// Prints the board of the configured CRM once, optionally narrowed by a
// search term. Handy to check CRM_BASE_URL and CRM_API_TOKEN.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}

	term := flag.String("q", "", "search term")
	status := flag.String("status", "", "server-side status filter")
	assignee := flag.String("assigned-to", "", "server-side assignee filter")
	flag.Parse()

	baseURL := os.Getenv("CRM_BASE_URL")
	if baseURL == "" {
		log.Fatal("CRM_BASE_URL must be set")
	}

	client := crm.NewClient(baseURL, os.Getenv("CRM_API_TOKEN"), 10*time.Second, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	leads, err := client.ListLeads(ctx, entity.ServerFilters{Status: *status, AssignedTo: *assignee})
	if err != nil {
		log.Fatalf("fetch leads: %v", err)
	}

	filtered := pipeline.FilterLeads(leads, *term)
	fmt.Printf("%d leads fetched, %d after search %q\n\n", len(leads), len(filtered), *term)

	grouped := 0
	for _, group := range pipeline.GroupByStatus(filtered) {
		fmt.Printf("%-10s %3d\n", group.Title, group.Count)
		for _, lead := range group.Leads {
			fmt.Printf("    %s  %s <%s>\n", lead.ID, lead.Contact.Name, lead.Contact.Email)
			if last, ok := lead.LastFollowUp(); ok {
				fmt.Printf("        #%d %s: %s\n", last.Sequence, last.Date.Format("2006-01-02"), last.Conclusion)
			}
		}
		grouped += group.Count
	}

	if off := len(filtered) - grouped; off > 0 {
		fmt.Printf("\n%d lead(s) with a status outside the pipeline are not on the board\n", off)
	}
}
