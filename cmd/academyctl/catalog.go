package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nextgenacademy/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the built-in lesson catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracks, or the lessons of one track",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.Default()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		track, _ := cmd.Flags().GetString("track")
		if track == "" {
			fmt.Fprintln(w, "TRACK\tLESSONS")
			for _, name := range c.Tracks() {
				lessons, _ := c.Track(name)
				fmt.Fprintf(w, "%s\t%d\n", name, len(lessons))
			}
			fmt.Fprintf(w, "\n%d story chapters, championship: %s\n", len(c.Chapters()), c.Challenge().Title)
			return nil
		}

		lessons, err := c.Track(track)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "ID\tTITLE\tDIFFICULTY\tXP\tCOINS")
		for _, l := range lessons {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", l.ID, l.Title, l.Difficulty, l.XPReward, l.CoinReward)
		}
		return nil
	},
}

func init() {
	catalogListCmd.Flags().String("track", "", "Show the lessons of this track")
	catalogCmd.AddCommand(catalogListCmd)
}
