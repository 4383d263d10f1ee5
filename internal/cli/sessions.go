package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sessions <user-id>",
		Short: "Show the sessions a build would consume",
		Args:  cobra.ExactArgs(1),
		Run:   runSessions,
	}

	cmd.Flags().IntP("limit", "l", 0, "Max sessions to fetch (default: configured session_limit)")

	RootCmd.AddCommand(cmd)
}

func runSessions(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.SessionLimit
	}

	ctx := cmd.Context()
	s, err := openStore(ctx, cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	sessions, err := s.FetchRecent(ctx, args[0], limit)
	if err != nil {
		exitErr("fetch sessions", err)
	}

	b, _ := json.MarshalIndent(sessions, "", "  ")
	fmt.Println(string(b))
}
