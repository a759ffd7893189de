// Package state defines program state shared by commands.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pager/config"
)

// Output tells how paginate command treats destination.
type Output struct {
	// NoDirs puts results for all chapters into destination directly.
	NoDirs bool
	// Overwrite allows replacing existing results.
	Overwrite bool
	// Notes requests generated note documents.
	Notes bool
	// Preview requests PNG image for every page.
	Preview bool
}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger
	Out Output

	start         time.Time
	restoreStdLog func()
}

type envKey struct{}

// ContextWithEnv returns context carrying fresh environment.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{start: time.Now()})
}

// EnvFromContext panics when context has no environment, it is always set
// up by main before any command runs.
func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("program environment is not found in context")
	}
	return env
}

// Logger returns named logger, it is safe to call before logging is set up.
func (e *LocalEnv) Logger(name string) *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log.Named(name)
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends output of standard library log package to our logger.
func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// RestoreStdLog syncs logger and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
}
