package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jsphweid/barspan/export"
	"github.com/jsphweid/barspan/file"
	"github.com/jsphweid/barspan/midi"
	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/note"
	"github.com/jsphweid/barspan/sample"
	"github.com/jsphweid/barspan/span"
	"github.com/jsphweid/barspan/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gitlab.com/gomidi/midi/v2/smf"
)

func init() {
	replayCmd.Flags().Int("max", 0, "stop after this many midi files (0 = all)")
	replayCmd.Flags().Int("offset", 0, "offset applied to every replayed note")
	replayCmd.Flags().StringP("output", "o", "", "text, json, csv or parquet")
	replayCmd.Flags().String("output-file", "", "write spans here instead of stdout")
	replayCmd.Flags().String("excerpts", "", "write each span as a midi excerpt into this dir")
	_ = viper.BindPFlag("output", replayCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output-file", replayCmd.Flags().Lookup("output-file"))
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:     "replay [midi files or dirs...]",
	Short:   "Replays midi files through the span assembler",
	Long:    `Reads note-ons from midi files, feeds them in time order through the span assembler and writes the emitted spans.`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetup,
	RunE: func(cmd *cobra.Command, args []string) error {
		maxNum, _ := cmd.Flags().GetInt("max")
		offset, _ := cmd.Flags().GetInt("offset")
		excerptDir, _ := cmd.Flags().GetString("excerpts")

		paths, err := file.GatherMidiPaths(args, maxNum)
		if err != nil {
			return err
		}
		fileNumMap := file.CreateFileNumMap(paths)
		notes, err := readNotes(fileNumMap)
		if err != nil {
			return err
		}
		spans, err := replay(notes, offset)
		if err != nil {
			return err
		}
		if excerptDir != "" {
			if err := writeExcerpts(excerptDir, fileNumMap, spans); err != nil {
				return err
			}
		}
		return writeSpans(spans)
	},
}

func gatherNotes(args []string, maxNum int) ([]model.Note, error) {
	paths, err := file.GatherMidiPaths(args, maxNum)
	if err != nil {
		return nil, err
	}
	return readNotes(file.CreateFileNumMap(paths))
}

func readNotes(fileNumMap map[int]string) ([]model.Note, error) {
	if len(fileNumMap) == 0 {
		return nil, errors.New("no midi files found")
	}

	var notes []model.Note
	for _, fileNum := range util.SortedKeys(fileNumMap) {
		path := fileNumMap[fileNum]
		fileNotes, err := midi.ReadNotes(path, fileNum)
		if err != nil {
			logger.Warn("skipping unreadable midi file", "path", path, "error", err)
			continue
		}
		logger.Debug("read midi file", "path", path, "notes", len(fileNotes))
		notes = append(notes, fileNotes...)
	}
	note.Sort(notes)
	return notes, nil
}

// replay feeds notes through a fresh assembler and returns every span it emits.
func replay(notes []model.Note, offset int) ([]model.Span, error) {
	rec := span.NewRecorder()
	a := span.New(span.Options{
		BarLength: cfg.BarLengthSource(),
		Sink:      rec,
		Logger:    logger,
	})
	a.SetPalette(cfg.Palette)
	if err := a.SetOffset(offset); err != nil {
		return nil, err
	}

	var failed int
	for _, n := range notes {
		if err := a.SetTrack(n.Track); err != nil {
			return nil, err
		}
		if err := a.Ingest(n.Time, n.Score); err != nil {
			if span.ErrConfiguration.Is(err) {
				return nil, err
			}
			failed++
		}
	}
	a.Flush()

	logger.Info("replay finished",
		"notes", len(notes),
		"dropped", failed,
		"spans", len(rec.Summaries),
		"rejected", rec.Rejections)
	return rec.Summaries, nil
}

func writeSpans(spans []model.Span) error {
	if cfg.OutputFile != "" {
		if err := export.WriteFile(cfg.OutputFile, cfg.Output, spans); err != nil {
			return err
		}
		logger.Info("wrote spans", "path", cfg.OutputFile, "format", cfg.Output, "count", len(spans))
		return nil
	}
	return export.Write(os.Stdout, cfg.Output, spans)
}

// writeExcerpts saves the stretch of source file each span covers.
func writeExcerpts(dir string, fileNumMap map[int]string, spans []model.Span) error {
	barLength, ok := cfg.BarLengthSource().BarLength()
	if !ok {
		return span.ErrConfiguration.New("no bar length configured")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating excerpt dir: %w", err)
	}

	sources := make(map[int]*smf.SMF)
	for _, s := range spans {
		if len(s.Bars) == 0 {
			continue
		}
		fileNum, channel := note.SplitTrack(s.Track)
		mf, ok := sources[fileNum]
		if !ok {
			var err error
			if mf, err = midi.ReadMidiFile(fileNumMap[fileNum]); err != nil {
				return err
			}
			sources[fileNum] = mf
		}

		start := float64(s.Offset + s.Bars[0])
		end := float64(s.Offset + s.Bars[len(s.Bars)-1] + barLength)
		excerpt, err := sample.Excerpt(mf, channel, start, end)
		if err != nil {
			logger.Warn("skipping excerpt", "span", s.ID, "error", err)
			continue
		}
		path := filepath.Join(dir, s.ID+".mid")
		if err := excerpt.WriteFile(path); err != nil {
			return fmt.Errorf("writing excerpt: %w", err)
		}
		logger.Debug("wrote excerpt", "span", s.ID, "path", path)
	}
	return nil
}
