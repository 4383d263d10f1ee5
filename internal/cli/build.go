package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/continuauth/baseline/internal/profile"
)

func init() {
	cmd := &cobra.Command{
		Use:   "build <user-id>",
		Short: "Build and persist a behavioral baseline profile",
		Long: "Fetches the user's most recent sessions, aggregates them into a baseline\n" +
			"profile (per-feature mean and population std plus a data-quality score),\n" +
			"and appends the profile to the store.",
		Args: cobra.ExactArgs(1),
		Run:  runBuild,
	}

	RootCmd.AddCommand(cmd)
}

func runBuild(cmd *cobra.Command, args []string) {
	userID := args[0]
	if _, err := uuid.Parse(userID); err != nil {
		exitErr("invalid user id", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	rep := newReporter(cfg)
	ctx := cmd.Context()

	s, err := openStore(ctx, cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rep.Log.Info("fetching sessions", "user", userID, "limit", cfg.SessionLimit)
	sessions, err := s.FetchRecent(ctx, userID, cfg.SessionLimit)
	if err != nil {
		exitErr("fetch sessions", err)
	}
	rep.Log.Info("sessions fetched", "count", len(sessions))

	p, err := profile.FromSessions(userID, sessions, rep.Progress)
	if err != nil {
		exitErr("build profile", err)
	}

	if err := s.InsertProfile(ctx, p); err != nil {
		exitErr("persist profile", err)
	}
	rep.Log.Info("profile persisted", "user", userID, "quality", p.DataQualityScore)

	rep.Summary(p, cfg.QualityThreshold)

	b, _ := json.MarshalIndent(p, "", "  ")
	fmt.Println(string(b))
}
