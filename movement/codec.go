package movement

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/zeebo/xxh3"
)

// StateVersion is written in front of every encoded state. Bump it whenever State changes shape.
const StateVersion byte = 1

var stateEncMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(oerror.New("unable to create state encoder: %w", err))
	}
	return em
}()

// EncodeState serialises st deterministically: equal states always encode to equal bytes.
func EncodeState(st State) ([]byte, error) {
	body, err := stateEncMode.Marshal(st)
	if err != nil {
		return nil, oerror.New("error encoding state: %w", err)
	}
	return append([]byte{StateVersion}, body...), nil
}

// DecodeState is the inverse of EncodeState.
func DecodeState(dat []byte) (State, error) {
	var st State
	if len(dat) == 0 {
		return st, oerror.New("empty state")
	}
	if dat[0] != StateVersion {
		return st, oerror.New("unsupported state version %d (expected %d)", dat[0], StateVersion)
	}
	if err := cbor.Unmarshal(dat[1:], &st); err != nil {
		return st, oerror.New("error decoding state: %w", err)
	}
	return st, nil
}

// Checksum hashes the encoded form of st. Two simulations that stay in lockstep produce equal
// checksums every tick.
func Checksum(st State) uint64 {
	dat, err := EncodeState(st)
	if err != nil {
		return 0
	}
	return xxh3.Hash(dat)
}
