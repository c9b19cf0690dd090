package schema

import (
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/linkedin/goavro/v2"

	"github.com/informasjonsforvaltning/fdk-kafka-event-publisher/internal/runtime/errors"
)

const (
	magicByte    = 0
	headerLength = 5
)

type codecEntry struct {
	id    int
	codec *goavro.Codec
}

// Encoder serializes native Avro values in the Confluent wire format:
// magic byte 0, the 4-byte big-endian schema id, then the Avro binary body.
// Codecs are cached per subject; a miss loads the subject's latest version.
type Encoder struct {
	client Client
	cache  *ttlcache.Cache[string, codecEntry]
}

// NewEncoder returns an Encoder looking schemas up through client. Cached
// codecs expire after ttl.
func NewEncoder(client Client, ttl time.Duration) *Encoder {
	return &Encoder{
		client: client,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, codecEntry](ttl),
			ttlcache.WithDisableTouchOnHit[string, codecEntry](),
		),
	}
}

// Prime caches a schema returned by registration so the first event does not
// hit the registry.
func (e *Encoder) Prime(s *RegisteredSchema) error {
	codec, err := goavro.NewCodec(s.Schema)
	if err != nil {
		return fmt.Errorf("%w: compiling %s: %v", errors.ErrEncoding, s.Subject, err)
	}
	e.cache.Set(s.Subject, codecEntry{id: s.ID, codec: codec}, ttlcache.DefaultTTL)
	return nil
}

// Codec returns the codec and schema id used for subject.
func (e *Encoder) Codec(subject string) (*goavro.Codec, int, error) {
	var loadErr error
	loader := ttlcache.LoaderFunc[string, codecEntry](
		func(cache *ttlcache.Cache[string, codecEntry], key string) *ttlcache.Item[string, codecEntry] {
			s, err := e.client.Latest(key)
			if err != nil {
				loadErr = err
				return nil
			}
			codec, err := goavro.NewCodec(s.Schema)
			if err != nil {
				loadErr = err
				return nil
			}
			return cache.Set(key, codecEntry{id: s.ID, codec: codec}, ttlcache.DefaultTTL)
		},
	)

	item := e.cache.Get(subject, ttlcache.WithLoader[string, codecEntry](loader))
	if item == nil {
		if loadErr == nil {
			loadErr = stderrors.New("schema not available")
		}
		return nil, 0, fmt.Errorf("%w: schema %s: %v", errors.ErrEncoding, subject, loadErr)
	}
	return item.Value().codec, item.Value().id, nil
}

// Encode serializes native against the schema registered for subject and
// returns the payload with the id it was encoded with.
func (e *Encoder) Encode(subject string, native map[string]any) ([]byte, int, error) {
	codec, id, err := e.Codec(subject)
	if err != nil {
		return nil, 0, err
	}

	header := make([]byte, headerLength, headerLength+64)
	header[0] = magicByte
	binary.BigEndian.PutUint32(header[1:], uint32(id))

	payload, err := codec.BinaryFromNative(header, native)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", errors.ErrEncoding, subject, err)
	}
	return payload, id, nil
}

// Decode reads a wire format payload back into its schema id and native value.
func Decode(codec *goavro.Codec, payload []byte) (int, map[string]any, error) {
	if len(payload) < headerLength || payload[0] != magicByte {
		return 0, nil, fmt.Errorf("%w: not a schema registry payload", errors.ErrEncoding)
	}
	id := int(binary.BigEndian.Uint32(payload[1:headerLength]))

	native, rest, err := codec.NativeFromBinary(payload[headerLength:])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", errors.ErrEncoding, err)
	}
	if len(rest) != 0 {
		return 0, nil, fmt.Errorf("%w: %d trailing bytes", errors.ErrEncoding, len(rest))
	}
	record, ok := native.(map[string]any)
	if !ok {
		return 0, nil, fmt.Errorf("%w: payload is %T, not a record", errors.ErrEncoding, native)
	}
	return id, record, nil
}
