// Command purgectl previews or runs a project purge from an operator shell.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/work-platform-backend/internal/app"
	"github.com/yungbote/work-platform-backend/internal/modules/purge"
	"github.com/yungbote/work-platform-backend/internal/platform/dbctx"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred cleanup always executes.
func run(args []string) int {
	fs := flag.NewFlagSet("purgectl", flag.ContinueOnError)
	var (
		projectRaw string
		mode       string
		confirm    string
		dryRun     bool
	)
	fs.StringVar(&projectRaw, "project", "", "project id to purge (required)")
	fs.StringVar(&mode, "mode", string(purge.ModeArchiveAll), "archive_all or redact_dumps")
	fs.StringVar(&confirm, "confirm", "", "project name, typed exactly")
	fs.BoolVar(&dryRun, "dry-run", true, "print the preview without mutating anything")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	projectID, err := uuid.Parse(strings.TrimSpace(projectRaw))
	if err != nil {
		fmt.Printf("invalid -project: %v\n", err)
		return 2
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx := context.Background()
	p, err := application.Repos.Projects.GetByID(dbctx.Context{Ctx: ctx}, projectID)
	if err != nil {
		fmt.Printf("load project: %v\n", err)
		return 1
	}
	if p == nil {
		fmt.Println("project not found")
		return 1
	}

	// Runs as the project owner.
	if dryRun {
		preview, err := application.Services.Purge.PreviewPurge(ctx, p.UserID, p.ID)
		if err != nil {
			fmt.Printf("preview: %v\n", err)
			return 1
		}
		printJSON(preview)
		return 0
	}

	res, err := application.Services.Purge.Purge(ctx, purge.PurgeInput{
		UserID:           p.UserID,
		ProjectID:        p.ID,
		Mode:             purge.Mode(mode),
		ConfirmationText: confirm,
	})
	if err != nil {
		fmt.Printf("purge: %v\n", err)
		return 1
	}
	printJSON(res)
	return 0
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
