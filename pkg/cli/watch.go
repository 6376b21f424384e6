package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/platinummonkey/xviz-recipe/pkg/descriptors"
	"github.com/platinummonkey/xviz-recipe/pkg/observability"
)

func (a *app) newWatchCommand() *Command {
	fs, common := a.newFlagSet("watch")

	cmd := &Command{
		Name:        "watch",
		Description: "Regenerate the build descriptors whenever the profile changes",
		Flags:       fs,
	}
	cmd.Run = func(args []string) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		if common.profile == "" {
			return errors.New("--profile is required")
		}
		target, err := filepath.Abs(common.profile)
		if err != nil {
			return err
		}

		s, err := a.newSession(common)
		if err != nil {
			return err
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer watcher.Close()

		// Editors often replace the file, so watch its directory.
		if err := watcher.Add(filepath.Dir(target)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", target, err)
		}

		cache, err := descriptors.NewCache(descriptors.DefaultCacheSize)
		if err != nil {
			return err
		}

		regenerate := func() {
			// The profile is re-read on every change.
			s, err := a.newSession(common)
			if err == nil {
				s.cache = cache
				err = a.runLifecycle(s, s.producer(), s.request())
			}
			if err != nil {
				fmt.Fprintf(a.stderr, "Error: %v\n", err)
			}
		}

		regenerate()
		s.logger.WithField("profile", target).Info("watching profile")
		return watchLoop(a, watcher.Events, watcher.Errors, target, regenerate, s.logger)
	}
	return cmd
}

// watchLoop calls onChange for every write or create of target until the
// context is done or the watcher closes
func watchLoop(a *app, events <-chan fsnotify.Event, errs <-chan error, target string, onChange func(), logger *observability.Logger) error {
	for {
		select {
		case <-a.ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.WithField("op", event.Op.String()).Info("profile changed")
				onChange()
			}
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("watcher error")
		}
	}
}
