// Package warehouse reads and writes the star-schema tables as Parquet file
// sets on an object store. Every write replaces the whole table prefix; there
// is no append or merge.
package warehouse

import (
	"bytes"
	"context"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"

	"github.com/streamhouse/songlake/internal/objstore"
)

const partName = "part-00000.parquet"

// Write overwrites a table with a single Parquet part.
func Write[T any](ctx context.Context, be objstore.Backend, table string, rows []T) error {
	if err := be.RemoveAll(ctx, table); err != nil {
		return err
	}

	data, err := encode(rows)
	if err != nil {
		return eris.Wrapf(err, "warehouse: encode %s", table)
	}
	return be.Put(ctx, table+"/"+partName, data)
}

// WritePartitioned overwrites a table with one Parquet part per partition,
// laid out Hive-style (table/year=2018/month=11/part-00000.parquet). The
// partition function maps a row to its subdirectory. Partition columns stay
// inside the files too, so readers never parse paths.
func WritePartitioned[T any](ctx context.Context, be objstore.Backend, table string, rows []T, partition func(T) string) error {
	if err := be.RemoveAll(ctx, table); err != nil {
		return err
	}

	groups := make(map[string][]T)
	var order []string
	for _, row := range rows {
		p := partition(row)
		if _, ok := groups[p]; !ok {
			order = append(order, p)
		}
		groups[p] = append(groups[p], row)
	}

	for _, p := range order {
		data, err := encode(groups[p])
		if err != nil {
			return eris.Wrapf(err, "warehouse: encode %s/%s", table, p)
		}
		if err := be.Put(ctx, table+"/"+p+"/"+partName, data); err != nil {
			return err
		}
	}
	return nil
}

// Read loads every Parquet part under a table prefix, in lexical part order.
// This is the read side of the song-pipeline barrier: it observes only fully
// written tables because writes replace the prefix before any part appears.
func Read[T any](ctx context.Context, be objstore.Backend, table string) ([]T, error) {
	keys, err := be.List(ctx, table)
	if err != nil {
		return nil, err
	}

	var rows []T
	var parts int
	for _, key := range keys {
		if !strings.HasSuffix(key, ".parquet") {
			continue
		}
		parts++

		data, err := be.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		partRows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, eris.Wrapf(err, "warehouse: read %s", key)
		}
		rows = append(rows, partRows...)
	}
	if parts == 0 {
		return nil, eris.Errorf("warehouse: table %s not materialized", table)
	}
	return rows, nil
}

func encode[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[T](&buf)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
