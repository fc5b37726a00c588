package commands

import (
	"os"
	"strconv"
	"time"

	"encar-backend/lib/sqliteutil"
	"encar-backend/lib/vehiclestore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var listDb *string

func init() {
	listDb = listCmd.Flags().String("db", "results.db", "The database to list records from.")
	rootCmd.AddCommand(listCmd)
}

func formatInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func formatInt64(value *int64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatInt(*value, 10)
}

var listCmd = &cobra.Command{
	Use:   "list [--db <path>]",
	Short: "Lists the vehicle records stored in a database.",
	Run: func(cmd *cobra.Command, args []string) {
		database, err := sqliteutil.OpenDB(vehiclestore.Schema, *listDb)
		if err != nil {
			fatal("failed to open db", err)
		}
		defer database.Close()

		store := vehiclestore.NewStore(database)
		vehicles, err := store.List(cmd.Context())
		if err != nil {
			fatal("failed to list vehicles", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Id", "Make", "Model", "Year", "Price", "Mileage", "Fetched At"})

		for _, v := range vehicles {
			t.AppendRow(table.Row{
				v.Id,
				v.Record.Make,
				v.Record.Model,
				formatInt(v.Record.Year),
				formatInt64(v.Record.Price),
				formatInt(v.Record.Mileage),
				v.FetchedAt.Format(time.DateTime),
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
