package commands

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"encar-backend/lib/configutil"
	"encar-backend/lib/restyutil"
	"encar-backend/lib/scrapers/encar"
	"encar-backend/lib/sqliteutil"
	"encar-backend/lib/vehiclestore"

	"github.com/spf13/cobra"
)

type Config struct {
	BaseUrl        string `json:"base_url"`
	UserAgent      string `json:"user_agent"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

var parseHtml *string
var parseDb *string
var parseDumpHttp *bool

func init() {
	parseHtml = parseCmd.Flags().String("html", "", "Parse a saved detail page instead of fetching it.")
	parseDb = parseCmd.Flags().String("db", "", "Also write the parsed records to this database.")
	parseDumpHttp = parseCmd.Flags().Bool("dump-http", false, "Write http transcripts to .dev/resty/encar.")
	rootCmd.AddCommand(parseCmd)
}

func createSource() encar.Source {
	if *parseHtml != "" {
		return encar.FileSource{Path: *parseHtml}
	}

	cfg, err := configutil.ReadConfig[Config]("encar.json5")
	if err != nil && !os.IsNotExist(err) {
		fatal("failed to read config", err)
	}

	if *parseDumpHttp {
		encar.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/encar"))
	}

	return encar.NewClient(encar.ClientOptions{
		BaseUrl:   cfg.BaseUrl,
		UserAgent: cfg.UserAgent,
		Timeout:   time.Second * time.Duration(cfg.TimeoutSeconds),
	})
}

var parseCmd = &cobra.Command{
	Use:   "parse <vehicle id> [vehicle id...] [--html <path>] [--db <path>]",
	Short: "Fetches detail pages and prints normalized vehicle records as JSON.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		src := createSource()

		var store *vehiclestore.Store
		if *parseDb != "" {
			database, err := sqliteutil.OpenDB(vehiclestore.Schema, *parseDb)
			if err != nil {
				fatal("failed to open db", err)
			}
			defer database.Close()
			s := vehiclestore.NewStore(database)
			store = &s
		}

		items := encar.ParseVehicles(cmd.Context(), src, args)

		failed := false
		for _, item := range items {
			if item.Err != nil {
				slog.ErrorContext(cmd.Context(), "failed to parse vehicle", "id", item.VehicleId, "err", item.Err.Error())
				failed = true
				continue
			}

			if store != nil {
				err := store.Push(cmd.Context(), time.Now(), item.Result.Data)
				if err != nil {
					fatal("failed to write record to db", err)
				}
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)

		err := enc.Encode(encar.BatchOutput(items))
		if err != nil {
			fatal("failed to encode output", err)
		}

		if failed {
			os.Exit(1)
		}
	},
}
