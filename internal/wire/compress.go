package wire

import (
	"github.com/klauspost/compress/zstd"
)

// Encoding is the content coding negotiated for frame payloads. A
// client opts in by listing it in Accept-Encoding; the choice then
// applies to every frame of that connection.
const Encoding = "zstd"

// Shared stateless codec instances. EncodeAll/DecodeAll on these are
// safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("wire: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("wire: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress returns the zstd-compressed form of payload.
func Compress(payload []byte) []byte {
	return zstdEncoder.EncodeAll(payload, nil)
}

// Decompress reverses Compress.
func Decompress(payload []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(payload, nil)
}
