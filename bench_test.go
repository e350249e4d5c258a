// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package divans

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/dropbox/divans-sub000/codec"
)

// zstdCompress compresses p with the zstd default level.
func zstdCompress(p []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err = enc.Write(p); err != nil {
		enc.Close()
		return nil, err
	}
	if err = enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func BenchmarkCompress(b *testing.B) {
	data := testData()
	coders := []codec.CoderKind{codec.CoderNibble, codec.CoderBit}
	for _, coder := range coders {
		cfg := WriterConfig{Codec: codec.Config{Coder: coder}}
		b.Run(coder.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			var z []byte
			var err error
			for i := 0; i < b.N; i++ {
				if z, err = Compress(data, cfg); err != nil {
					b.Fatalf("Compress error %s", err)
				}
			}
			b.ReportMetric(float64(len(z))/float64(len(data)), "ratio")
		})
	}
	b.Run("zstd", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		var z []byte
		var err error
		for i := 0; i < b.N; i++ {
			if z, err = zstdCompress(data); err != nil {
				b.Fatalf("zstd error %s", err)
			}
		}
		b.ReportMetric(float64(len(z))/float64(len(data)), "ratio")
	})
}

func BenchmarkDecompress(b *testing.B) {
	data := testData()
	z, err := Compress(data, WriterConfig{})
	if err != nil {
		b.Fatalf("Compress error %s", err)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err = Decompress(z, ReaderConfig{}); err != nil {
			b.Fatalf("Decompress error %s", err)
		}
	}
}

// TestLiteralModelsAgainstZstd checks that the context models stay close
// to zstd on text without long matches.
func TestLiteralModelsAgainstZstd(t *testing.T) {
	data := testData()[:50000]
	z, err := Compress(data, WriterConfig{})
	if err != nil {
		t.Fatalf("Compress error %s", err)
	}
	zz, err := zstdCompress(data)
	if err != nil {
		t.Fatalf("zstd error %s", err)
	}
	t.Logf("divans %d bytes; zstd %d bytes", len(z), len(zz))
	if len(z) > len(zz)*3/2 {
		t.Errorf("divans output %d bytes; zstd %d bytes", len(z), len(zz))
	}
}
