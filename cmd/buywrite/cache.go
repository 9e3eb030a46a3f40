package main

import (
	"fmt"

	"github.com/aristath/buywrite/internal/clientdata"
	"github.com/aristath/buywrite/internal/scheduler"
	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Maintain the market-data cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete expired cache entries and checkpoint the WAL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openCache()
			if err != nil {
				return err
			}
			defer db.Close()

			repo := clientdata.NewRepository(db.Conn())
			results, err := repo.DeleteAllExpired()
			if err != nil {
				return err
			}
			var total int64
			for _, table := range clientdata.AllTables {
				n := results[table]
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d expired\n", table, n)
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d expired\n", "total", total)

			return scheduler.NewWALCheckpointJob(db, a.log).Run()
		},
	})

	return cmd
}
