// Package process implements paginate command: chapters found in source are
// laid out and resulting pages dumped as text, optionally with generated
// note documents and page previews.
package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pager/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger("paginate")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Out = state.Output{
		NoDirs:    cmd.Bool("nodirs"),
		Overwrite: cmd.Bool("overwrite"),
		Notes:     cmd.Bool("notes"),
		Preview:   cmd.Bool("preview"),
	}

	// command line overwrites configured viewport
	if cmd.IsSet("width") {
		env.Cfg.Layout.Viewport.Width = int(cmd.Int("width"))
	}
	if cmd.IsSet("height") {
		env.Cfg.Layout.Viewport.Height = int(cmd.Int("height"))
	}
	if env.Cfg.Layout.Viewport.Width < 16 || env.Cfg.Layout.Viewport.Height < 16 {
		return fmt.Errorf("viewport %dx%d is too small", env.Cfg.Layout.Viewport.Width, env.Cfg.Layout.Viewport.Height)
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst),
		zap.Int("width", env.Cfg.Layout.Viewport.Width), zap.Int("height", env.Cfg.Layout.Viewport.Height))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return paginate(ctx, src, dst, env, log)
}
