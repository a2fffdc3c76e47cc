package demo

import (
	"errors"
	"io"

	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/settings"
	"github.com/vmihailenco/msgpack/v5"
)

// Version is the demo format version. Bump it whenever Header or Frame change shape.
const Version = 1

// Header starts every demo.
type Header struct {
	Version  int               `msgpack:"version"`
	Settings settings.Movement `msgpack:"settings"`
	// Map is the name of the map the demo was recorded on. It is informational only.
	Map string `msgpack:"map"`
	// Initial is the state before the first frame, encoded with movement.EncodeState.
	Initial []byte `msgpack:"initial"`
}

// Frame is a single recorded tick.
type Frame struct {
	Command movement.Command `msgpack:"cmd"`
	// Checksum is movement.Checksum of the state after the command ran.
	Checksum uint64 `msgpack:"checksum"`
	// Events are the effects raised during the tick, encoded with event.Encode.
	Events [][]byte `msgpack:"events,omitempty"`
}

// Recorder writes a demo as it is simulated. It is an event.Dispatcher, so it should be set as
// (or be part of) the simulator's effects for the events to end up in the demo.
type Recorder struct {
	enc    *msgpack.Encoder
	events [][]byte
	err    error
	frames int
}

// NewRecorder writes the header for a demo starting from initial.
func NewRecorder(w io.Writer, s settings.Movement, mapName string, initial movement.State) (*Recorder, error) {
	dat, err := movement.EncodeState(initial)
	if err != nil {
		return nil, err
	}
	r := &Recorder{enc: msgpack.NewEncoder(w)}
	if err := r.enc.Encode(Header{Version: Version, Settings: s, Map: mapName, Initial: dat}); err != nil {
		return nil, oerror.New("error writing demo header: %w", err)
	}
	return r, nil
}

func (r *Recorder) Dispatch(ev event.Event) {
	dat, err := event.Encode(ev)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	r.events = append(r.events, dat)
}

// Frame writes cmd and the state it produced, along with every event dispatched since the
// last frame.
func (r *Recorder) Frame(cmd movement.Command, st movement.State) error {
	if r.err != nil {
		return r.err
	}
	f := Frame{Command: cmd, Checksum: movement.Checksum(st), Events: r.events}
	if err := r.enc.Encode(f); err != nil {
		return oerror.New("error writing demo frame %d: %w", cmd.Number, err)
	}
	r.events = r.events[:0]
	r.frames++
	return nil
}

// Frames returns how many frames have been written.
func (r *Recorder) Frames() int {
	return r.frames
}

// Reader reads a demo written by a Recorder.
type Reader struct {
	Header Header

	dec *msgpack.Decoder
}

// NewReader reads and checks the demo header.
func NewReader(src io.Reader) (*Reader, error) {
	r := &Reader{dec: msgpack.NewDecoder(src)}
	if err := r.dec.Decode(&r.Header); err != nil {
		return nil, oerror.New("error reading demo header: %w", err)
	}
	if r.Header.Version != Version {
		return nil, oerror.New("unsupported demo version %d (expected %d)", r.Header.Version, Version)
	}
	return r, nil
}

// Initial decodes the state the demo starts from.
func (r *Reader) Initial() (movement.State, error) {
	return movement.DecodeState(r.Header.Initial)
}

// Next returns the next frame, or io.EOF once every frame has been read.
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if err := r.dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return f, io.EOF
		}
		return f, oerror.New("error reading demo frame: %w", err)
	}
	return f, nil
}
