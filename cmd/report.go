package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/util"
	"github.com/spf13/cobra"
)

func init() {
	reportCmd.Flags().Int("max", 0, "stop after this many midi files (0 = all)")
	reportCmd.Flags().Int("offset", 0, "offset applied to every replayed note")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:     "report [midi files or dirs...]",
	Short:   "Creates a report",
	Long:    `Replays midi files and summarises the emitted spans per track.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		maxNum, _ := cmd.Flags().GetInt("max")
		offset, _ := cmd.Flags().GetInt("offset")

		notes, err := gatherNotes(args, maxNum)
		if err != nil {
			return err
		}
		spans, err := replay(notes, offset)
		if err != nil {
			return err
		}
		printReport(buildReport(notes, spans))
		return nil
	},
}

type trackReport struct {
	notes     int
	spans     int
	bars      []int
	ratings   []float64
	spanNotes int
}

func buildReport(notes []model.Note, spans []model.Span) map[int]*trackReport {
	reports := make(map[int]*trackReport)
	get := func(track int) *trackReport {
		r, ok := reports[track]
		if !ok {
			r = &trackReport{}
			reports[track] = r
		}
		return r
	}
	for _, n := range notes {
		get(n.Track).notes++
	}
	for _, s := range spans {
		r := get(s.Track)
		r.spans++
		r.bars = append(r.bars, len(s.Bars))
		r.ratings = append(r.ratings, s.Rating)
		r.spanNotes += s.Notes
	}
	return reports
}

func printReport(reports map[int]*trackReport) {
	header := color.New(color.Bold, color.FgCyan)
	dim := color.New(color.Faint)

	for _, track := range util.SortedKeys(reports) {
		r := reports[track]
		_, _ = header.Printf("track %d\n", track)
		fmt.Printf("  notes: %v\n", r.notes)
		fmt.Printf("  spans: %v\n", r.spans)
		if r.spans == 0 {
			_, _ = dim.Println("  no spans emitted")
			continue
		}
		minBars, maxBars, _ := util.MinMax(r.bars)
		lo, hi, _ := util.MinMax(r.ratings)
		fmt.Printf("  bars per span: min %v, max %v, mean %.2f\n", minBars, maxBars, util.Mean(r.bars))
		fmt.Printf("  rating: min %.3f, max %.3f, mean %.3f\n", lo, hi, util.Mean(r.ratings))
		fmt.Printf("  notes covered by spans: %v (%.1f%%)\n", r.spanNotes, 100*float64(r.spanNotes)/float64(r.notes))
	}
}
