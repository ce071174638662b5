package agcli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"oss.terrastruct.com/util-go/xmain"

	"github.com/Josexato/almagag/agrenderers/agsvg"
	"github.com/Josexato/almagag/lib/textmeasure"
)

type watcherOpts struct {
	ruler      *textmeasure.Ruler
	renderOpts agsvg.RenderOpts
	inputPath  string
	outputPath string
}

// watcher re-renders the output file on each change to the input. There
// is no server; viewers that auto-reload on file change (most editors
// and browsers) pick the refresh up from disk.
type watcher struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	ms *xmain.State
	watcherOpts

	compileCh chan struct{}

	fw *fsnotify.Watcher

	errMu   sync.Mutex
	err     error
	closing bool
}

func newWatcher(ctx context.Context, ms *xmain.State, opts watcherOpts) (*watcher, error) {
	ctx, cancel := context.WithCancel(ctx)

	w := &watcher{
		ctx:    ctx,
		cancel: cancel,

		ms:          ms,
		watcherOpts: opts,

		compileCh: make(chan struct{}, 1),
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return nil, err
	}
	w.fw = fw
	return w, nil
}

func (w *watcher) run() error {
	defer w.close()

	w.goFunc(w.watchLoop)
	w.goFunc(w.compileLoop)

	w.wg.Wait()
	w.close()
	return w.err
}

func (w *watcher) close() {
	w.errMu.Lock()
	if w.closing {
		w.errMu.Unlock()
		return
	}
	w.closing = true
	w.errMu.Unlock()

	w.cancel()
	if w.fw != nil {
		err := w.fw.Close()
		w.setErr(err)
	}
}

func (w *watcher) setErr(err error) {
	w.errMu.Lock()
	if w.err == nil {
		w.err = err
	}
	w.errMu.Unlock()
}

func (w *watcher) goFunc(fn func(context.Context) error) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.cancel()

		err := fn(w.ctx)
		w.setErr(err)
	}()
}

/*
 * fsnotify and file system watching APIs in general are notoriously hard
 * to use correctly. This loop was written against:
 *
 *   https://github.com/fsnotify/fsnotify/issues/372
 *   https://github.com/fsnotify/fsnotify/issues/15
 */
func (w *watcher) watchLoop(ctx context.Context) error {
	lastModified := make(map[string]time.Time)

	mt, err := w.ensureAddWatch(ctx, w.inputPath)
	if err != nil {
		return err
	}
	lastModified[w.inputPath] = mt
	w.ms.Log.Info.Printf("compiling %v...", w.ms.HumanPath(w.inputPath))
	w.requestCompile()

	eatBurstTimer := time.NewTimer(0)
	<-eatBurstTimer.C
	pollTicker := time.NewTicker(time.Second * 10)
	defer pollTicker.Stop()

	changed := make(map[string]struct{})

	for {
		select {
		case <-pollTicker.C:
			// In case we missed an event indicating the path is unwatchable
			// and we won't be getting any more events. File notification APIs
			// are notoriously unreliable, so stat on a timer as well.
			missedChanges := false
			for _, watched := range w.fw.WatchList() {
				mt, err := w.ensureAddWatch(ctx, watched)
				if err != nil {
					return err
				}
				if mt2, ok := lastModified[watched]; !ok || !mt.Equal(mt2) {
					missedChanges = true
					lastModified[watched] = mt
				}
			}
			if missedChanges {
				w.requestCompile()
			}
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Debug.Printf("received file system event %v", ev)
			mt, err := w.ensureAddWatch(ctx, ev.Name)
			if err != nil {
				return err
			}
			if ev.Op == fsnotify.Chmod {
				if mt.Equal(lastModified[ev.Name]) {
					// Benign Chmod.
					// See https://github.com/fsnotify/fsnotify/issues/15
					continue
				}
				// We missed changes.
				lastModified[ev.Name] = mt
			}
			changed[ev.Name] = struct{}{}
			// Wait at least 16 milliseconds after a sequence of events so
			// that a burst of writes from one logical edit batches into a
			// single compile instead of compiling a half-written file.
			eatBurstTimer.Reset(time.Millisecond * 16)
		case <-eatBurstTimer.C:
			var changedList []string
			for k := range changed {
				changedList = append(changedList, k)
				delete(changed, k)
			}
			sort.Strings(changedList)
			changedStr := w.ms.HumanPath(changedList[0])
			for i := 1; i < len(changedList); i++ {
				changedStr += fmt.Sprintf(", %s", w.ms.HumanPath(changedList[i]))
			}
			w.ms.Log.Info.Printf("detected change in %s: recompiling...", changedStr)
			w.requestCompile()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("fsnotify watcher closed")
			}
			w.ms.Log.Error.Printf("fsnotify error: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *watcher) requestCompile() {
	select {
	case w.compileCh <- struct{}{}:
	default:
	}
}

func (w *watcher) ensureAddWatch(ctx context.Context, path string) (time.Time, error) {
	interval := time.Millisecond * 16
	tc := time.NewTimer(0)
	<-tc.C
	for {
		mt, err := w.addWatch(path)
		if err == nil {
			return mt, nil
		}
		if interval >= time.Second {
			w.ms.Log.Error.Printf("failed to watch %q: %v (retrying in %v)", w.ms.HumanPath(path), err, interval)
		}

		tc.Reset(interval)
		select {
		case <-tc.C:
			if interval < time.Second {
				interval = time.Second
			}
			if interval < time.Second*16 {
				interval *= 2
			}
		case <-ctx.Done():
			return time.Time{}, ctx.Err()
		}
	}
}

func (w *watcher) addWatch(path string) (time.Time, error) {
	err := w.fw.Add(path)
	if err != nil {
		return time.Time{}, err
	}
	d, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return d.ModTime(), nil
}

func (w *watcher) compileLoop(ctx context.Context) error {
	firstCompile := true
	for {
		select {
		case <-w.compileCh:
		case <-ctx.Done():
			return ctx.Err()
		}

		recompiledPrefix := ""
		if !firstCompile {
			recompiledPrefix = "re"
		}

		_, err := compile(ctx, w.ms, w.ruler, w.renderOpts, w.inputPath, w.outputPath)
		if err != nil {
			w.ms.Log.Error.Printf("failed to %scompile: %v", recompiledPrefix, err)
		} else {
			w.ms.Log.Success.Printf("successfully %scompiled %v to %v", recompiledPrefix, w.ms.HumanPath(w.inputPath), w.ms.HumanPath(w.outputPath))
		}

		if firstCompile {
			firstCompile = false
		}
	}
}
