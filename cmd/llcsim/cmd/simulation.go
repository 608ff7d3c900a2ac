package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pkg/browser"
	"github.com/sarchlab/shipd/datarecording"
	"github.com/sarchlab/shipd/mem/cache/llc"
	"github.com/sarchlab/shipd/mem/cache/shipd"
	"github.com/sarchlab/shipd/mem/cache/tagging"
	"github.com/sarchlab/shipd/mem/cache/workload"
	"github.com/sarchlab/shipd/mem/trace"
	"github.com/sarchlab/shipd/monitoring"
	"github.com/sarchlab/shipd/sim/hooking"
	"github.com/sarchlab/shipd/sim/stateful"
	"github.com/sirupsen/logrus"
)

const (
	runTable     = "runs"
	progressStep = 4096
)

// runEntry represents one finished run in the database.
type runEntry struct {
	Policy    string
	Workload  string
	NumSets   int
	NumWays   int
	Accesses  uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// A simulation owns the cache, its policy, and everything observing them.
type simulation struct {
	cfg      runConfig
	cache    *llc.Cache
	policy   *shipd.Policy
	events   *hooking.PosCounter
	recorder datarecording.DataRecorder
	monitor  *monitoring.Monitor
}

func newSimulation(cfg runConfig) (*simulation, error) {
	s := &simulation{
		cfg:    cfg,
		events: hooking.NewPosCounter(),
	}

	b := llc.MakeBuilder().
		WithNumSets(cfg.NumSets).
		WithNumWays(cfg.NumWays).
		WithLog2BlockSize(cfg.Log2BlockSize)

	if cfg.Policy == "shipd" {
		s.policy = shipd.MakeBuilder().
			WithNumSets(cfg.NumSets).
			WithNumWays(cfg.NumWays).
			WithLog2BlockSize(cfg.Log2BlockSize).
			Build("LLC.Policy")
		b = b.WithVictimFinder(s.policy)
	}

	s.cache = b.Build("LLC")

	if cfg.Restore != "" {
		if err := s.restore(cfg.Restore); err != nil {
			return nil, err
		}
	}

	if cfg.RecordPath != "" {
		s.recorder = datarecording.New(cfg.RecordPath)
		s.recorder.CreateTable(runTable, runEntry{})
	}

	if s.policy != nil {
		s.attachHooks()
	}

	return s, nil
}

// logWriter hands every line a log.Logger writes to logrus before Write
// returns, so no line is pending when the run ends.
type logWriter struct {
	level logrus.Level
}

func (w logWriter) Write(p []byte) (int, error) {
	logrus.StandardLogger().Log(w.level, strings.TrimSuffix(string(p), "\n"))

	return len(p), nil
}

func (s *simulation) logger(level logrus.Level) *log.Logger {
	return log.New(logWriter{level: level}, "", 0)
}

func (s *simulation) attachHooks() {
	s.policy.AcceptHook(s.events)

	if logrus.IsLevelEnabled(logrus.InfoLevel) {
		s.policy.AcceptHook(trace.NewTracer(s.logger(logrus.InfoLevel)))
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		s.policy.AcceptHook(hooking.NewLogHook(
			s.logger(logrus.DebugLevel), shipd.HookPosPhaseChange))
	}

	if s.recorder != nil {
		s.policy.AcceptHook(trace.NewDBTracer(s.recorder))
	}
}

func (s *simulation) startMonitor() error {
	if s.cfg.MonitorPort < 0 {
		return nil
	}

	s.monitor = monitoring.NewMonitor().WithPortNumber(s.cfg.MonitorPort)
	s.monitor.RegisterSource(s.cache)

	url := s.monitor.StartServer()
	if s.cfg.OpenBrowser {
		return browser.OpenURL(url)
	}

	return nil
}

func (s *simulation) run(gen workload.Generator, total int) error {
	var bar *monitoring.ProgressBar
	if s.monitor != nil {
		bar = s.monitor.CreateProgressBar("Accesses", uint64(total))
		defer s.monitor.CompleteProgressBar(bar)
	}

	n := 0
	start := time.Now()

	err := workload.Drain(gen, func(a tagging.Access) error {
		if _, err := s.cache.Access(a); err != nil {
			return err
		}

		n++
		if bar != nil && n%progressStep == 0 {
			bar.IncrementFinished(progressStep)
		}

		return nil
	})

	logrus.Debugf("%d accesses simulated in %s", n, time.Since(start))

	return err
}

func (s *simulation) restore(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return stateful.Load(f, stateful.JSONCodec{}, s.cache, s.policy)
}

func (s *simulation) checkpoint(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = stateful.Save(f, stateful.JSONCodec{Indent: true}, s.cache, s.policy)
	if err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func (s *simulation) report(out io.Writer) error {
	if s.policy != nil {
		if err := s.policy.Report().WriteReport(out); err != nil {
			return err
		}
	}

	st := s.cache.Stats()
	_, err := fmt.Fprintf(out,
		"==== LLC Stats ====\n"+
			"Policy:        %s\n"+
			"Accesses:      %d\n"+
			"Hits:          %d\n"+
			"Misses:        %d\n"+
			"Evictions:     %d\n"+
			"HitRate:       %.4f%%\n",
		s.cfg.Policy, st.Accesses, st.Hits, st.Misses, st.Evictions,
		st.HitRate())
	if err != nil {
		return err
	}

	if s.recorder != nil {
		s.recorder.InsertData(runTable, runEntry{
			Policy:    s.cfg.Policy,
			Workload:  s.cfg.workloadName(),
			NumSets:   s.cfg.NumSets,
			NumWays:   s.cfg.NumWays,
			Accesses:  st.Accesses,
			Hits:      st.Hits,
			Misses:    st.Misses,
			Evictions: st.Evictions,
			HitRate:   st.HitRate(),
		})
	}

	return nil
}

func (s *simulation) close() error {
	var firstErr error

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		firstErr = s.monitor.StopServer(ctx)
	}

	if s.recorder != nil {
		if err := s.recorder.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
