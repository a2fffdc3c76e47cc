package simulation

import (
	"github.com/oomph-ac/pmove/entity"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/utils"
)

// player is the server side of a connected player. During the parallel phase of a tick only the
// job simulating the player touches it.
type player struct {
	name   string
	handle entity.Handle

	state      movement.State
	queue      *utils.CircularQueue[movement.Command]
	lastQueued uint64

	ack  uint64
	ran  int
	last movement.Result

	effects   event.Recorder
	snapshots *utils.CircularQueue[Snapshot]
}
