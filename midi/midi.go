package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/note"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("parsing midi file %s panicked: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("parsing midi file: %w", err)
	}
	return res, nil
}

// ReadNotes reads a MIDI file and extracts its notes as the fileNum-th input.
func ReadNotes(filepath string, fileNum int) ([]model.Note, error) {
	s, err := ReadMidiFile(filepath)
	if err != nil {
		return nil, err
	}
	return note.FromSMF(s, fileNum), nil
}

// Listen calls onNote for every note start arriving on the given input port.
// A driver must be registered by the caller. The returned func stops listening.
func Listen(port int, onNote func(model.Note)) (func(), error) {
	in, err := gomidi.InPort(port)
	if err != nil {
		return nil, fmt.Errorf("opening midi in port %d: %w", port, err)
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var ch, key, vel uint8
		if !msg.GetNoteStart(&ch, &key, &vel) {
			return
		}
		onNote(model.Note{
			Track:    int(ch),
			Time:     float64(timestampms),
			Score:    note.Score(vel),
			Channel:  ch,
			Key:      key,
			Velocity: vel,
		})
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("listening on midi in port %d", port), err)
	}
	return func() {
		stop()
		gomidi.CloseDriver()
	}, nil
}
