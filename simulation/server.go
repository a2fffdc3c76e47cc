package simulation

import (
	"io"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/collision"
	"github.com/oomph-ac/pmove/entity"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/utils"
	"github.com/oomph-ac/pmove/worker"
	"github.com/oomph-ac/pmove/world"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultCommandBacklog is how many unprocessed commands a player may have queued.
	DefaultCommandBacklog = 64
	// DefaultCommandsPerTick limits how many queued commands a player runs in one server tick,
	// so a backlog is worked off gradually instead of all at once.
	DefaultCommandsPerTick = 4
	// snapshotHistory is how many past snapshots are kept per player.
	snapshotHistory = 32
)

// Config holds everything needed to create a Server.
type Config struct {
	World    *world.World
	Settings settings.Movement
	Log      *logrus.Logger
	// Effects receives every player's effects after each tick, in join order. If nil, effects
	// are written to Log at debug level.
	Effects event.Dispatcher
	// Pool runs the per-player simulations. If nil, a pool with one worker per CPU is created
	// and closed along with the server.
	Pool            *worker.Pool
	Debug           *movement.Debugger
	CommandBacklog  int
	CommandsPerTick int
}

// Snapshot is the authoritative state of a player after the command Ack.
type Snapshot struct {
	Tick  uint64
	Ack   uint64
	State movement.State
}

// Server is the authoritative simulation of every player in a world.
type Server struct {
	log      *logrus.Logger
	world    *world.World
	effects  event.Dispatcher
	pool     *worker.Pool
	ownsPool bool
	dbg      *movement.Debugger

	backlog, perTick int

	mu      sync.Mutex
	sim     movement.Simulator
	pending *settings.Movement
	players *orderedmap.OrderedMap[entity.Handle, *player]
	tick    uint64
}

// New creates a server for the world in conf.
func New(conf Config) (*Server, error) {
	if conf.World == nil {
		return nil, oerror.New("simulation: no world")
	}
	if err := conf.Settings.Validate(); err != nil {
		return nil, err
	}
	rules, err := movement.RulesFor(conf.Settings.Rules)
	if err != nil {
		return nil, err
	}
	if conf.Log == nil {
		conf.Log = logrus.New()
		conf.Log.SetOutput(io.Discard)
	}
	if conf.Effects == nil {
		conf.Effects = event.LogDispatcher{Log: conf.Log}
	}
	if conf.CommandBacklog <= 0 {
		conf.CommandBacklog = DefaultCommandBacklog
	}
	if conf.CommandsPerTick <= 0 {
		conf.CommandsPerTick = DefaultCommandsPerTick
	}

	s := &Server{
		log:     conf.Log,
		world:   conf.World,
		effects: conf.Effects,
		pool:    conf.Pool,
		dbg:     conf.Debug,
		backlog: conf.CommandBacklog,
		perTick: conf.CommandsPerTick,
		sim: movement.Simulator{
			World:    conf.World,
			Bodies:   conf.World,
			Surfaces: conf.World,
			Rules:    rules,
			Settings: conf.Settings,
			Debug:    conf.Debug,
		},
		players: orderedmap.NewOrderedMap[entity.Handle, *player](),
	}
	if s.pool == nil {
		s.pool, s.ownsPool = worker.NewPool(0), true
	}
	return s, nil
}

// Close stops the worker pool if the server created it.
func (s *Server) Close() {
	if s.ownsPool {
		s.pool.Close()
	}
}

// Join adds a player at origin and returns its handle. The player is also added to the world
// as an entity, so other sweeps can see it.
func (s *Server) Join(name string, origin mgl32.Vec3, yaw float32) entity.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.sim.Settings
	mins, maxs := cfg.Hull(false)
	h := s.world.Entities.Spawn(world.Entity{
		Name:     name,
		Origin:   origin,
		Mins:     mins,
		Maxs:     maxs,
		Contents: collision.ContentsMonster,
		Group:    collision.GroupPlayer,
	})

	st := movement.NewState(origin, yaw, cfg)
	st.Self = h
	p := &player{
		name:      name,
		handle:    h,
		state:     st,
		queue:     utils.NewCircularQueue[movement.Command](s.backlog),
		snapshots: utils.NewCircularQueue[Snapshot](snapshotHistory),
	}
	s.players.Set(h, p)
	s.log.WithFields(logrus.Fields{"player": name, "handle": h.String()}).Info("player joined")
	return h
}

// Leave removes a player and its world entity.
func (s *Server) Leave(h entity.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players.Get(h)
	if !ok {
		return oerror.New("unknown player %v", h)
	}
	s.players.Delete(h)
	s.world.Entities.Remove(h)
	s.log.WithField("player", p.name).Info("player left")
	return nil
}

// Queue adds a command for a player to run on a later tick. Commands must arrive in order.
func (s *Server) Queue(h entity.Handle, cmd movement.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players.Get(h)
	if !ok {
		return oerror.New("queue command %d for unknown player %v", cmd.Number, h)
	}
	if cmd.Number <= p.lastQueued {
		return oerror.New("command %d from %s is not newer than %d", cmd.Number, p.name, p.lastQueued)
	}
	if p.queue.Full() {
		return oerror.New("command backlog of %s is full", p.name)
	}
	if cmd.FrameTime <= 0 {
		cmd.FrameTime = s.sim.Settings.TickInterval
	}
	_ = p.queue.Append(cmd)
	p.lastQueued = cmd.Number
	return nil
}

// UpdateSettings replaces the movement settings. The change takes effect from the next tick.
func (s *Server) UpdateSettings(conf settings.Movement) error {
	if err := conf.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.pending = &conf
	s.mu.Unlock()
	return nil
}

// Tick advances the world by one server tick. Moving entities are advanced first, then every
// player runs its queued commands in parallel, then player entities and effects are synced
// back in join order.
func (s *Server) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	if s.pending != nil {
		rules, err := movement.RulesFor(s.pending.Rules)
		if err == nil {
			s.sim.Settings, s.sim.Rules = *s.pending, rules
		}
		s.pending = nil
	}
	s.world.Advance(s.sim.Settings.TickInterval)

	// The world is read only from here until every job is done.
	players := make([]*player, 0, s.players.Len())
	jobs := make([]func(), 0, s.players.Len())
	for el := s.players.Front(); el != nil; el = el.Next() {
		p := el.Value
		players = append(players, p)
		jobs = append(jobs, func() { s.simulate(p) })
	}
	s.pool.Run(jobs...)

	for _, p := range players {
		s.sync(p)
	}
}

// simulate runs up to perTick queued commands for p. It only touches p.
func (s *Server) simulate(p *player) {
	sim := s.sim
	p.effects.Reset()
	p.last = movement.Result{}
	sim.Effects = &p.effects

	for i := 0; i < s.perTick; i++ {
		cmd, ok := p.queue.Pop()
		if !ok {
			break
		}
		p.last = sim.Simulate(&p.state, cmd)
		p.ack = cmd.Number
		p.ran++
	}
}

func (s *Server) sync(p *player) {
	if p.ran > 0 {
		e, ok := s.world.Entities.Get(p.handle)
		if ok {
			mins, maxs := p.state.Hull(s.sim.Settings)
			e.Origin, e.Mins, e.Maxs = p.state.Origin, mins, maxs
			s.world.Entities.Set(p.handle, e)
		}
		_ = p.snapshots.Append(Snapshot{Tick: s.tick, Ack: p.ack, State: p.state})
		p.ran = 0
	}
	if p.last.Stuck {
		s.log.WithField("player", p.name).Warnf("player stuck at %v", p.state.Origin)
	}
	for _, ev := range p.effects.Events {
		s.effects.Dispatch(ev)
	}
}

// CurrentTick returns the number of ticks run so far.
func (s *Server) CurrentTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick
}

// Players returns the handles of every player in join order.
func (s *Server) Players() []entity.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.Keys()
}

// Snapshot returns the latest authoritative snapshot of a player.
func (s *Server) Snapshot(h entity.Handle) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players.Get(h)
	if !ok || p.snapshots.Len() == 0 {
		return Snapshot{}, false
	}
	snap, err := p.snapshots.Get(p.snapshots.Len() - 1)
	return snap, err == nil
}

// SnapshotFor returns the snapshot taken right after command ack ran, if it is still kept.
func (s *Server) SnapshotFor(h entity.Handle, ack uint64) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players.Get(h)
	if !ok {
		return Snapshot{}, false
	}
	for _, snap := range p.snapshots.All() {
		if snap.Ack == ack {
			return snap, true
		}
	}
	return Snapshot{}, false
}

// State returns the current authoritative state of a player.
func (s *Server) State(h entity.Handle) (movement.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players.Get(h)
	if !ok {
		return movement.State{}, false
	}
	return p.state, true
}
