package store

import (
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"m3u-lineup/logger"
	"m3u-lineup/utils"
)

var (
	encoderPool sync.Pool
	decoderPool sync.Pool
)

func init() {
	encoderPool = sync.Pool{
		New: func() any {
			encoder, err := zstd.NewWriter(nil)
			if err != nil {
				logger.Default.Debugf("Error creating zstd encoder: %v", err)
				return nil
			}
			return encoder
		},
	}

	decoderPool = sync.Pool{
		New: func() any {
			decoder, err := zstd.NewReader(nil)
			if err != nil {
				logger.Default.Debugf("Error creating zstd decoder: %v", err)
				return nil
			}
			return decoder
		},
	}
}

// encoded is a marshalled snapshot with the checksum of its plain JSON form.
type encoded struct {
	Checksum string
	Plain    []byte
}

func encode(v any) (encoded, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return encoded{}, fmt.Errorf("error encoding snapshot: %w", err)
	}
	return encoded{Checksum: utils.CalculateChecksum(data), Plain: data}, nil
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("error decoding snapshot: %w", err)
	}
	return nil
}

func compress(plain []byte) ([]byte, error) {
	encoder, ok := encoderPool.Get().(*zstd.Encoder)
	if !ok || encoder == nil {
		return nil, fmt.Errorf("error compressing snapshot: no zstd encoder")
	}
	defer encoderPool.Put(encoder)

	return encoder.EncodeAll(plain, make([]byte, 0, len(plain)/2)), nil
}

func decompress(data []byte) ([]byte, error) {
	decoder, ok := decoderPool.Get().(*zstd.Decoder)
	if !ok || decoder == nil {
		return nil, fmt.Errorf("error decompressing snapshot: no zstd decoder")
	}
	defer decoderPool.Put(decoder)

	plain, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("error decompressing snapshot: %w", err)
	}
	return plain, nil
}
