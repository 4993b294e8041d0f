// Package reader turns raw JSON objects in an object store into typed record
// slices. Input files hold concatenated JSON objects (one per line or one per
// file); there is no enclosing array.
package reader

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/streamhouse/songlake/internal/objstore"
)

// Decode streams records from a reader of concatenated JSON objects, sending
// each to a channel. Both channels are closed when decoding completes.
func Decode[T any](ctx context.Context, r io.Reader) (<-chan T, <-chan error) {
	outCh := make(chan T, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)
		for decoder.More() {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "reader: context cancelled")
				return
			}

			var item T
			if err := decoder.Decode(&item); err != nil {
				errCh <- eris.Wrap(err, "reader: decode record")
				return
			}

			select {
			case outCh <- item:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "reader: context cancelled")
				return
			}
		}
	}()

	return outCh, errCh
}

// Select returns the keys under the backend that match a doublestar pattern
// like "song_data/**/*.json", in lexical order.
func Select(ctx context.Context, be objstore.Backend, pattern string) ([]string, error) {
	keys, err := be.List(ctx, staticPrefix(pattern))
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, key := range keys {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			return nil, eris.Wrapf(err, "reader: bad pattern %q", pattern)
		}
		if ok {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

// ReadAll decodes every record from every key matching the pattern. Files are
// fetched and decoded in parallel, bounded by workers, but the result keeps
// the deterministic order (sorted key order, record order within each file)
// so repeated runs over the same inputs produce identical tables.
func ReadAll[T any](ctx context.Context, be objstore.Backend, pattern string, workers int) ([]T, error) {
	keys, err := Select(ctx, be, pattern)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, eris.Errorf("reader: no input matches %q", pattern)
	}

	if workers < 1 {
		workers = 1
	}

	perFile := make([][]T, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, key := range keys {
		g.Go(func() error {
			data, err := be.Get(gctx, key)
			if err != nil {
				return err
			}

			ch, errCh := Decode[T](gctx, bytes.NewReader(data))
			var records []T
			for rec := range ch {
				records = append(records, rec)
			}
			for err := range errCh {
				if err != nil {
					return eris.Wrapf(err, "reader: %s", key)
				}
			}
			perFile[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []T
	for _, records := range perFile {
		out = append(out, records...)
	}
	return out, nil
}

// staticPrefix returns the literal leading portion of a glob pattern, up to
// the last separator before the first metacharacter, to narrow the listing.
func staticPrefix(pattern string) string {
	meta := strings.IndexAny(pattern, "*?[{")
	if meta < 0 {
		return pattern
	}
	slash := strings.LastIndex(pattern[:meta], "/")
	if slash < 0 {
		return ""
	}
	return pattern[:slash+1]
}
