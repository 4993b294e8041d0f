// Package pipeline implements the two extraction pipelines and the
// orchestration between them: song metadata feeds the songs and artists
// dimensions, activity logs feed users and time, and the fact builder joins
// logs against the materialized songs table to produce songplays.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/streamhouse/songlake/internal/model"
	"github.com/streamhouse/songlake/internal/objstore"
	"github.com/streamhouse/songlake/internal/reader"
	"github.com/streamhouse/songlake/internal/runlog"
	"github.com/streamhouse/songlake/internal/warehouse"
)

// Output table names under the warehouse root.
const (
	TableSongs     = "songs"
	TableArtists   = "artists"
	TableUsers     = "users"
	TableTime      = "time"
	TableSongplays = "songplays"
)

// Input glob patterns under the input root.
const (
	SongPattern = "song_data/**/*.json"
	LogPattern  = "log_data/**/*.json"
)

// Options configures transformation policy. Zero values fall back to the
// defaults set by normalize.
type Options struct {
	Workers           int
	PageFilter        string // events eligible for fact building; "" admits all
	JoinKey           JoinKey
	JoinType          JoinType
	UserDedup         UserDedup
	LenientTimestamps bool
}

func (o *Options) normalize() {
	if o.Workers < 1 {
		o.Workers = 4
	}
	if o.JoinKey == "" {
		o.JoinKey = JoinKeyTitle
	}
	if o.JoinType == "" {
		o.JoinType = JoinInner
	}
	if o.UserDedup == "" {
		o.UserDedup = UserDedupTuple
	}
}

// Pipeline runs the ETL against an input and an output object store. The run
// log is optional; nil disables history recording.
type Pipeline struct {
	in   objstore.Backend
	out  objstore.Backend
	runs *runlog.Log
	opts Options
}

// New creates a pipeline.
func New(in, out objstore.Backend, runs *runlog.Log, opts Options) *Pipeline {
	opts.normalize()
	return &Pipeline{in: in, out: out, runs: runs, opts: opts}
}

// Run executes the full ETL: the song pipeline first, then the log pipeline.
// The ordering matters: the fact builder reads the songs table the song
// pipeline wrote.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.RunSongs(ctx); err != nil {
		return err
	}
	return p.RunLogs(ctx)
}

// RunSongs extracts the songs and artists dimensions from song metadata and
// writes both. The two tables are independent and are written concurrently.
func (p *Pipeline) RunSongs(ctx context.Context) error {
	log := zap.L().With(zap.String("component", "pipeline.songs"))

	records, err := reader.ReadAll[model.SongRecord](ctx, p.in, SongPattern, p.opts.Workers)
	if err != nil {
		return err
	}
	log.Info("read song metadata", zap.Int("records", len(records)))

	songs := BuildSongs(records)
	artists := BuildArtists(records)
	if len(songs) > 0 {
		log.Info("extracted dimensions",
			zap.Int("songs", len(songs)),
			zap.Int("artists", len(artists)),
			zap.String("sample_song_id", songs[0].SongID),
		)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.writeTable(gctx, TableSongs, int64(len(songs)), func() error {
			return warehouse.Write(gctx, p.out, TableSongs, songs)
		})
	})
	g.Go(func() error {
		return p.writeTable(gctx, TableArtists, int64(len(artists)), func() error {
			return warehouse.Write(gctx, p.out, TableArtists, artists)
		})
	})
	return g.Wait()
}

// RunLogs extracts users and time from activity logs, then builds the
// songplays fact table. It requires the songs table to be materialized
// already; reading it back from the warehouse is the synchronization barrier.
func (p *Pipeline) RunLogs(ctx context.Context) error {
	log := zap.L().With(zap.String("component", "pipeline.logs"))

	events, err := reader.ReadAll[model.LogEvent](ctx, p.in, LogPattern, p.opts.Workers)
	if err != nil {
		return err
	}
	log.Info("read activity logs", zap.Int("events", len(events)))

	timed, err := annotate(events, p.opts.LenientTimestamps)
	if err != nil {
		return err
	}
	if dropped := len(events) - len(timed); dropped > 0 {
		log.Warn("dropped events with invalid timestamps", zap.Int("dropped", dropped))
	}

	users := BuildUsers(timed, p.opts.UserDedup)
	timeRows := BuildTimeTable(timed)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.writeTable(gctx, TableUsers, int64(len(users)), func() error {
			return warehouse.Write(gctx, p.out, TableUsers, users)
		})
	})
	g.Go(func() error {
		return p.writeTable(gctx, TableTime, int64(len(timeRows)), func() error {
			return warehouse.WritePartitioned(gctx, p.out, TableTime, timeRows, func(r model.TimeRow) string {
				return fmt.Sprintf("year=%d/month=%d", r.Year, r.Month)
			})
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// Barrier: the song pipeline's output must be fully durable before the
	// join reads it.
	songs, err := warehouse.Read[model.Song](ctx, p.out, TableSongs)
	if err != nil {
		return err
	}

	var artists []model.Artist
	if p.opts.JoinKey == JoinKeyComposite {
		artists, err = warehouse.Read[model.Artist](ctx, p.out, TableArtists)
		if err != nil {
			return err
		}
	}

	eligible := timed
	if p.opts.PageFilter != "" {
		eligible = make([]TimedEvent, 0, len(timed))
		for _, e := range timed {
			if e.Event.Page == p.opts.PageFilter {
				eligible = append(eligible, e)
			}
		}
		log.Info("filtered fact-eligible events",
			zap.String("page", p.opts.PageFilter),
			zap.Int("eligible", len(eligible)),
		)
	}

	plays := BuildSongplays(eligible, songs, artists, p.opts.JoinKey, p.opts.JoinType)
	return p.writeTable(ctx, TableSongplays, int64(len(plays)), func() error {
		return warehouse.Write(ctx, p.out, TableSongplays, plays)
	})
}

// writeTable runs one table write, recording it in the run log and logging
// the outcome.
func (p *Pipeline) writeTable(ctx context.Context, table string, rows int64, write func() error) error {
	log := zap.L().With(zap.String("table", table))

	var runID string
	if p.runs != nil {
		var err error
		runID, err = p.runs.Start(ctx, table)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	err := write()
	elapsed := time.Since(start)

	if err != nil {
		log.Error("table write failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		if p.runs != nil {
			if logErr := p.runs.Fail(ctx, runID, err.Error()); logErr != nil {
				log.Error("failed to record run failure", zap.Error(logErr))
			}
		}
		return err
	}

	if p.runs != nil {
		if logErr := p.runs.Complete(ctx, runID, rows); logErr != nil {
			log.Error("failed to record run completion", zap.Error(logErr))
		}
	}
	log.Info("table written", zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	return nil
}
