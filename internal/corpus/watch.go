package corpus

import (
	"log"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/sfuzz-go/mutation/internal/mutation"
)

// DirectoryWatcher hot-reloads a corpus directory: new or modified
// files are read and added to the bound Corpus as they appear on disk,
// letting a long-running fuzz session absorb seeds a parallel worker
// (or an operator) drops in without restarting.
type DirectoryWatcher struct {
	dir     string
	corpus  *Corpus
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching dir for new or changed files, adding each as a
// new FuzzItem to corpus. Call Close to stop.
func Watch(dir string, c *Corpus) (*DirectoryWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	dw := &DirectoryWatcher{dir: dir, corpus: c, watcher: w, done: make(chan struct{})}

	go dw.loop()

	return dw, nil
}

func (dw *DirectoryWatcher) loop() {
	for {
		select {
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			dw.ingest(event.Name)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}

			log.Printf("corpus watcher: %v", err)

		case <-dw.done:
			return
		}
	}
}

func (dw *DirectoryWatcher) ingest(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("corpus watcher: reading %s: %v", path, err)
		return
	}

	dw.corpus.Add(mutation.NewFuzzItem(data))
}

// Close stops the watcher goroutine.
func (dw *DirectoryWatcher) Close() error {
	close(dw.done)

	return dw.watcher.Close()
}
