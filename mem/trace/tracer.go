// Package trace provides tracers that record how a replacement policy adapts
// at epoch boundaries.
package trace

import (
	"log"

	"github.com/sarchlab/shipd/datarecording"
	"github.com/sarchlab/shipd/mem/cache/shipd"
	"github.com/sarchlab/shipd/sim/hooking"
	"github.com/sarchlab/shipd/sim/id"
	"github.com/sarchlab/shipd/sim/naming"
)

// Table names used by the database tracer.
const (
	EpochTable       = "policy_epochs"
	PhaseChangeTable = "policy_phase_changes"
)

// EpochEntry represents a completed epoch in the database.
type EpochEntry struct {
	ID             string
	Policy         string
	Epoch          uint64
	Accesses       uint64
	Hits           uint64
	Misses         uint64
	MissRate       float64
	StreamInserts  uint64
	StreamHits     uint64
	StreamMisses   uint64
	StreamHitRatio float64
	PhaseChange    bool
	OldThreshold   uint8
	NewThreshold   uint8
}

// PhaseChangeEntry represents a detected phase change in the database.
type PhaseChangeEntry struct {
	ID           string
	Policy       string
	Epoch        uint64
	PrevMissRate float64
	MissRate     float64
}

func domainName(ctx hooking.HookCtx) string {
	if named, ok := ctx.Domain.(naming.Named); ok {
		return named.Name()
	}

	return ""
}

// A tracer is a hook that writes policy adaptation events as lines of a log.
type tracer struct {
	logger *log.Logger
}

// NewTracer creates a new Tracer that writes to logger.
func NewTracer(logger *log.Logger) hooking.Hook {
	return &tracer{logger: logger}
}

func (t *tracer) Func(ctx hooking.HookCtx) {
	s, ok := ctx.Item.(shipd.EpochSummary)
	if !ok {
		return
	}

	switch ctx.Pos {
	case shipd.HookPosEpochEnd:
		t.logger.Printf(
			"epoch, %s, %d, %d, %.6f, %d, %d, %d, %.6f, %d, %d\n",
			domainName(ctx),
			s.Epoch,
			s.Accesses,
			s.MissRate,
			s.StreamInserts,
			s.StreamHits,
			s.StreamMisses,
			s.StreamHitRatio,
			s.OldThreshold,
			s.NewThreshold,
		)
	case shipd.HookPosPhaseChange:
		t.logger.Printf("phase, %s, %d, %.6f, %.6f\n",
			domainName(ctx), s.Epoch, s.PrevMissRate, s.MissRate)
	}
}

// A dbTracer is a hook that records policy adaptation events into a database
// using the data recorder.
type dbTracer struct {
	dataRecorder datarecording.DataRecorder
	idGenerator  id.IDGenerator
}

// NewDBTracer creates a new database-based Tracer. It creates its tables in
// dataRecorder.
func NewDBTracer(dataRecorder datarecording.DataRecorder) hooking.Hook {
	t := &dbTracer{
		dataRecorder: dataRecorder,
		idGenerator:  id.NewParallelIDGenerator(),
	}

	t.dataRecorder.CreateTable(EpochTable, EpochEntry{})
	t.dataRecorder.CreateTable(PhaseChangeTable, PhaseChangeEntry{})

	return t
}

func (t *dbTracer) Func(ctx hooking.HookCtx) {
	s, ok := ctx.Item.(shipd.EpochSummary)
	if !ok {
		return
	}

	switch ctx.Pos {
	case shipd.HookPosEpochEnd:
		t.dataRecorder.InsertData(EpochTable, EpochEntry{
			ID:             t.idGenerator.Generate(),
			Policy:         domainName(ctx),
			Epoch:          s.Epoch,
			Accesses:       s.Accesses,
			Hits:           s.Hits,
			Misses:         s.Misses,
			MissRate:       s.MissRate,
			StreamInserts:  s.StreamInserts,
			StreamHits:     s.StreamHits,
			StreamMisses:   s.StreamMisses,
			StreamHitRatio: s.StreamHitRatio,
			PhaseChange:    s.PhaseChange,
			OldThreshold:   s.OldThreshold,
			NewThreshold:   s.NewThreshold,
		})
	case shipd.HookPosPhaseChange:
		t.dataRecorder.InsertData(PhaseChangeTable, PhaseChangeEntry{
			ID:           t.idGenerator.Generate(),
			Policy:       domainName(ctx),
			Epoch:        s.Epoch,
			PrevMissRate: s.PrevMissRate,
			MissRate:     s.MissRate,
		})
	}
}
