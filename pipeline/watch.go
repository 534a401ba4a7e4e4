package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchDelay collapses the burst of events an editor save produces into one rebuild.
var WatchDelay = 250 * time.Millisecond

// Watch rebuilds the level whenever its WAD or its config changes, until ctx
// is done. Build errors are logged and passed to done; they do not stop the
// watch. done may be nil.
func (p *Pipeline) Watch(ctx context.Context, name string, done func(*Result, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	targets := map[string]bool{
		filepath.Clean(p.Master.WadPath(name)):       true,
		filepath.Clean(p.Master.MapConfigPath(name)): true,
	}
	// Editors often replace files, so watch the directories.
	for dir := range map[string]bool{p.Master.WadsPath: true, p.Master.ConfigsPath: true} {
		if err := w.Add(dir); err != nil {
			return err
		}
	}
	log := p.log.With(zap.String("level", name))
	log.Info("watching for changes")

	timer := time.NewTimer(WatchDelay)
	timer.Stop()
	var quietUntil time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors:
			log.Warn("watch error", zap.Error(err))
		case ev := <-w.Events:
			if !targets[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Our own config write after a build.
			if time.Now().Before(quietUntil) {
				continue
			}
			log.Debug("change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(WatchDelay)
		case <-timer.C:
			res, err := p.rebuild(ctx, name)
			quietUntil = time.Now().Add(WatchDelay)
			if err != nil {
				log.Error("rebuild failed", zap.Error(err))
			}
			if done != nil {
				done(res, err)
			}
		}
	}
}

// rebuild reloads the level config from disk and builds with it.
func (p *Pipeline) rebuild(ctx context.Context, name string) (*Result, error) {
	cfg, err := p.MapConfig(name)
	if err != nil {
		return nil, err
	}
	return p.BuildNavMesh(ctx, name, cfg)
}
