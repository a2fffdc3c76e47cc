package main

import (
	"bufio"
	"errors"
	"os"

	"github.com/oomph-ac/pmove/demo"
	"github.com/oomph-ac/pmove/event"
	"github.com/oomph-ac/pmove/game"
	"github.com/oomph-ac/pmove/movement"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/settings"
	"github.com/oomph-ac/pmove/world"
	"github.com/sirupsen/logrus"
)

func debugger(log *logrus.Logger) (*movement.Debugger, error) {
	if len(CLI.Trace) == 0 {
		return nil, nil
	}
	dbg := movement.NewDebugger(log)
	for _, name := range CLI.Trace {
		mode, err := movement.ParseDebugMode(name)
		if err != nil {
			return nil, err
		}
		if !dbg.Enabled(mode) {
			dbg.Toggle(mode)
		}
	}
	return dbg, nil
}

func simulateCommand(log *logrus.Logger) error {
	conf := settings.DefaultSettings()
	if CLI.Simulate.Settings != "" {
		var err error
		if conf, err = settings.Load(CLI.Simulate.Settings); err != nil {
			return err
		}
	}
	rules, err := movement.RulesFor(conf.Rules)
	if err != nil {
		return err
	}
	w, spawn, err := world.LoadFile(CLI.Simulate.Map)
	if err != nil {
		return err
	}
	cmds, err := loadScript(CLI.Simulate.Script, conf.TickInterval)
	if err != nil {
		return err
	}
	dbg, err := debugger(log)
	if err != nil {
		return err
	}

	st := movement.NewState(spawn.Origin, spawn.Yaw, conf)
	effects := event.Multi{event.LogDispatcher{Log: log}}

	var rec *demo.Recorder
	if CLI.Simulate.Record != "" {
		f, err := os.Create(CLI.Simulate.Record)
		if err != nil {
			return oerror.New("error creating demo: %w", err)
		}
		defer f.Close()
		buf := bufio.NewWriter(f)
		defer buf.Flush()

		if rec, err = demo.NewRecorder(buf, conf, CLI.Simulate.Map, st); err != nil {
			return err
		}
		effects = append(effects, rec)
	}

	sim := &movement.Simulator{
		World:    w,
		Bodies:   w,
		Surfaces: w,
		Effects:  effects,
		Rules:    rules,
		Settings: conf,
		Debug:    dbg,
	}

	var stuck int
	for _, cmd := range cmds {
		w.Advance(cmd.FrameTime)
		res := sim.Simulate(&st, cmd)
		if res.Stuck {
			stuck++
		}
		if rec != nil {
			if err := rec.Frame(cmd, st); err != nil {
				return err
			}
		}
	}

	log.WithFields(logrus.Fields{
		"ticks":    len(cmds),
		"origin":   game.RoundVec32(st.Origin, 3),
		"velocity": game.RoundVec32(st.Velocity, 3),
		"mode":     st.Mode.String(),
		"ground":   st.Ground.String(),
		"ducked":   st.Ducked,
		"checksum": movement.Checksum(st),
	}).Info("simulation finished")
	if stuck > 0 {
		log.Warnf("player was stuck for %d ticks", stuck)
	}
	if rec != nil {
		log.Infof("recorded %d frames to %s", rec.Frames(), CLI.Simulate.Record)
	}
	return nil
}

func replayCommand(log *logrus.Logger) error {
	w, _, err := world.LoadFile(CLI.Replay.Map)
	if err != nil {
		return err
	}
	f, err := os.Open(CLI.Replay.Demo)
	if err != nil {
		return oerror.New("error opening demo: %w", err)
	}
	defer f.Close()

	dbg, err := debugger(log)
	if err != nil {
		return err
	}
	sim := movement.Simulator{World: w, Bodies: w, Surfaces: w, Effects: event.LogDispatcher{Log: log}, Debug: dbg}
	sum, err := demo.Replay(bufio.NewReader(f), sim, log)
	if err != nil {
		var div *demo.DivergenceError
		if errors.As(err, &div) {
			log.Errorf("replay diverged after %d good frames", div.Frame)
		}
		return err
	}

	log.WithFields(logrus.Fields{
		"frames":   sum.Frames,
		"events":   sum.Events,
		"origin":   game.RoundVec32(sum.Final.Origin, 3),
		"checksum": movement.Checksum(sum.Final),
	}).Info("replay reproduced every frame")
	return nil
}
