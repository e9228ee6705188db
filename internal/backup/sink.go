// Package backup delivers export and backup snapshots to one or more
// destinations.
package backup

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/rfpmonitor/internal/filex"
	"golang.org/x/sync/errgroup"
)

// Sink stores a named blob.
type Sink interface {
	Name() string
	Put(ctx context.Context, name string, body []byte) error
}

// DirSink writes files into a local directory, creating it on first use.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

func (d *DirSink) Name() string { return "dir:" + d.Dir }

func (d *DirSink) Put(ctx context.Context, name string, body []byte) error {
	dir, err := filex.EnsureDir(d.Dir)
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(filepath.Join(dir, filepath.Base(name)), body)
}

// Multi fans a Put out to every sink concurrently. It succeeds only if all
// sinks do; the first failure is returned after every sink has finished.
type Multi []Sink

func (m Multi) Name() string { return "multi" }

func (m Multi) Put(ctx context.Context, name string, body []byte) error {
	var g errgroup.Group
	for _, s := range m {
		g.Go(func() error {
			if err := s.Put(ctx, name, body); err != nil {
				return fmt.Errorf("%s: %w", s.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
