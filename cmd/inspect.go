package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/jsphweid/barspan/bucket"
	"github.com/jsphweid/barspan/midi"
	"github.com/jsphweid/barspan/note"
	"github.com/jsphweid/barspan/span"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:     "inspect [midi file]",
	Short:   "Inspects the notes of a midi file",
	Long:    `Prints every note-on in a midi file with the track, bar and score the assembler would see.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	notes, err := midi.ReadNotes(path, 0)
	if err != nil {
		return err
	}
	barLength, ok := cfg.BarLengthSource().BarLength()
	if !ok {
		return span.ErrConfiguration.New("no bar length configured")
	}

	header := color.New(color.Bold)
	_, _ = header.Printf("%s: %d notes on tracks %v, bar length %dms\n", path, len(notes), note.Tracks(notes), barLength)
	for _, n := range notes {
		fmt.Printf("track: %v\tbar: %v\ttime: %.1f\tkey: %v\tscore: %.3f\n",
			n.Track, bucket.BarTimestamp(n.Time, 0, barLength), n.Time, n.Key, n.Score)
	}
	return nil
}
