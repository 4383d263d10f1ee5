package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "profiles [user-id]",
		Short: "List profiles stored in the local database",
		Args:  cobra.MaximumNArgs(1),
		Run:   runProfiles,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runProfiles(cmd *cobra.Command, args []string) {
	cfg, err := loadLocalConfig()
	if err != nil {
		exitErr("config", err)
	}
	limit, _ := cmd.Flags().GetInt("limit")

	userID := ""
	if len(args) == 1 {
		userID = args[0]
	}

	s, err := openLocalStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	profiles, err := s.ListProfiles(cmd.Context(), userID, limit)
	if err != nil {
		exitErr("list profiles", err)
	}

	b, _ := json.MarshalIndent(profiles, "", "  ")
	fmt.Println(string(b))
}
