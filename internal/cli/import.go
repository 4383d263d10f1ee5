package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/continuauth/baseline/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import session records from JSON",
		Long: "Import session records from JSON on stdin into the local SQLite store.\n" +
			"Expects an array of objects with user_id, generated_at, and a features map.",
		Run: runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var records []model.SessionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		exitErr("parse json", err)
	}

	cfg, err := loadLocalConfig()
	if err != nil {
		exitErr("config", err)
	}

	s, err := openLocalStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.InsertSessions(cmd.Context(), records)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
