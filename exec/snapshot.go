package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"

	"github.com/skmbw/stark/blobstore"
	"github.com/skmbw/stark/codec"
	"github.com/skmbw/stark/geom"
	"github.com/skmbw/stark/model"
)

// Compression selects how snapshot partition blobs are compressed.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

const snapshotVersion = 1

// manifest describes a snapshot so it can be loaded without out-of-band
// knowledge. Always JSON, independent of the payload codec.
type manifest struct {
	Version       int    `json:"version"`
	Codec         string `json:"codec"`
	Compression   string `json:"compression"`
	NumPartitions int    `json:"num_partitions"`
}

type wireGeometry struct {
	Kind string        `json:"kind"`
	Env  geom.Envelope `json:"env"`
}

type wireRecord[V any] struct {
	Geom     wireGeometry   `json:"geom"`
	Interval *geom.Interval `json:"interval,omitempty"`
	Value    V              `json:"value"`
}

type snapshotOptions struct {
	codec       codec.Codec
	compression Compression
}

// SnapshotOption configures SaveSnapshot.
type SnapshotOption func(*snapshotOptions)

// WithSnapshotCodec selects the payload codec. Nil falls back to
// codec.Default.
func WithSnapshotCodec(c codec.Codec) SnapshotOption {
	return func(o *snapshotOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithSnapshotCompression selects partition blob compression.
func WithSnapshotCompression(c Compression) SnapshotOption {
	return func(o *snapshotOptions) { o.compression = c }
}

func manifestName(name string) string { return name + "/manifest.json" }

func partName(name string, pid int) string {
	return fmt.Sprintf("%s/part-%05d", name, pid)
}

// SaveSnapshot persists the collection to store under name: one blob per
// partition plus a manifest. Partition blobs are written in parallel. The
// value type must be serializable by the chosen codec; geometries must be
// the built-in Point or Rect.
func SaveSnapshot[V any](ctx context.Context, store blobstore.BlobStore, name string, c *Collection[V], optFns ...SnapshotOption) error {
	o := snapshotOptions{codec: codec.Default, compression: CompressionZstd}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for pid := 0; pid < c.NumPartitions(); pid++ {
		pid := pid
		g.Go(func() error {
			recs := c.Partition(pid)
			wire := make([]wireRecord[V], 0, len(recs))
			for _, rec := range recs {
				wr, err := toWire(rec)
				if err != nil {
					return fmt.Errorf("partition %d: %w", pid, err)
				}
				wire = append(wire, wr)
			}

			data, err := o.codec.Marshal(wire)
			if err != nil {
				return fmt.Errorf("partition %d: encode: %w", pid, err)
			}
			data, err = compress(data, o.compression)
			if err != nil {
				return fmt.Errorf("partition %d: compress: %w", pid, err)
			}
			return store.Put(gctx, partName(name, pid), data)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("exec: snapshot save: %w", err)
	}

	m := manifest{
		Version:       snapshotVersion,
		Codec:         o.codec.Name(),
		Compression:   string(o.compression),
		NumPartitions: c.NumPartitions(),
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("exec: snapshot manifest: %w", err)
	}
	// The manifest goes last so a complete manifest implies complete parts.
	return store.Put(ctx, manifestName(name), data)
}

// LoadSnapshot loads a collection previously written by SaveSnapshot. The
// partitioner association is not persisted; re-attach one with PartitionBy
// if needed.
func LoadSnapshot[V any](ctx context.Context, store blobstore.BlobStore, name string) (*Collection[V], error) {
	raw, err := store.Get(ctx, manifestName(name))
	if err != nil {
		return nil, fmt.Errorf("exec: snapshot manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("exec: snapshot manifest: %w", err)
	}
	if m.Version != snapshotVersion {
		return nil, fmt.Errorf("exec: unsupported snapshot version %d", m.Version)
	}
	cdc, ok := codec.ByName(m.Codec)
	if !ok {
		return nil, fmt.Errorf("exec: unknown snapshot codec %q", m.Codec)
	}

	parts := make([][]model.Record[V], m.NumPartitions)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for pid := 0; pid < m.NumPartitions; pid++ {
		pid := pid
		g.Go(func() error {
			data, err := store.Get(gctx, partName(name, pid))
			if err != nil {
				return fmt.Errorf("partition %d: %w", pid, err)
			}
			data, err = decompress(data, Compression(m.Compression))
			if err != nil {
				return fmt.Errorf("partition %d: decompress: %w", pid, err)
			}

			var wire []wireRecord[V]
			if err := cdc.Unmarshal(data, &wire); err != nil {
				return fmt.Errorf("partition %d: decode: %w", pid, err)
			}
			recs := make([]model.Record[V], 0, len(wire))
			for _, wr := range wire {
				rec, err := fromWire(wr)
				if err != nil {
					return fmt.Errorf("partition %d: %w", pid, err)
				}
				recs = append(recs, rec)
			}
			parts[pid] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("exec: snapshot load: %w", err)
	}

	return &Collection[V]{parts: parts}, nil
}

func toWire[V any](rec model.Record[V]) (wireRecord[V], error) {
	var wg wireGeometry
	switch g := rec.Key.Geometry().(type) {
	case geom.Point:
		wg = wireGeometry{Kind: "point", Env: g.Envelope()}
	case geom.Rect:
		wg = wireGeometry{Kind: "rect", Env: g.Env}
	default:
		return wireRecord[V]{}, fmt.Errorf("unsupported geometry %T", g)
	}

	wr := wireRecord[V]{Geom: wg, Value: rec.Value}
	if iv, ok := rec.Key.Interval(); ok {
		wr.Interval = &iv
	}
	return wr, nil
}

func fromWire[V any](wr wireRecord[V]) (model.Record[V], error) {
	var g geom.Geometry
	switch wr.Geom.Kind {
	case "point":
		g = geom.NewPoint(wr.Geom.Env.MinX, wr.Geom.Env.MinY)
	case "rect":
		g = geom.Rect{Env: wr.Geom.Env}
	default:
		return model.Record[V]{}, fmt.Errorf("unknown geometry kind %q", wr.Geom.Kind)
	}

	key := geom.NewSpatial(g)
	if wr.Interval != nil {
		key = geom.NewSpatioTemporal(g, *wr.Interval)
	}
	return model.Record[V]{Key: key, Value: wr.Value}, nil
}

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone, "":
		return data, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		out := enc.EncodeAll(data, nil)
		enc.Close()
		return out, nil
	case CompressionLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

func decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone, "":
		return data, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}
