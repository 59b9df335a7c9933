package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Payload is a decoded image ready to be stored.
type Payload struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Decoder turns the client supplied image field into bytes.
type Decoder struct {
	client   *http.Client
	maxBytes int64
}

// NewDecoder builds a Decoder. A nil client means NewFetchClient with the default timeout.
func NewDecoder(client *http.Client, maxBytes int64) *Decoder {
	if client == nil {
		client = NewFetchClient(defaultFetchTimeout)
	}
	return &Decoder{client: client, maxBytes: maxBytes}
}

func (d *Decoder) Decode(ctx context.Context, image string) (*Payload, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPayload)
	}

	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(image, "data:"):
		data, err = decodeDataURI(image)
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		data, err = d.fetch(ctx, image)
	default:
		data, err = decodeBase64(image)
	}
	if err != nil {
		return nil, err
	}

	if d.maxBytes > 0 && int64(len(data)) > d.maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidPayload, d.maxBytes)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: content type %s", ErrInvalidPayload, mt.String())
	}

	return &Payload{Data: data, ContentType: mt.String(), Extension: mt.Extension()}, nil
}

func decodeDataURI(image string) ([]byte, error) {
	header, body, ok := strings.Cut(strings.TrimPrefix(image, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: data uri must be base64 encoded", ErrInvalidPayload)
	}
	return decodeBase64(body)
}

func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// unpadded input
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	}
	if err != nil || len(data) == 0 {
		return nil, fmt.Errorf("%w: not base64", ErrInvalidPayload)
	}
	return data, nil
}

func (d *Decoder) fetch(ctx context.Context, raw string) ([]byte, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: bad url", ErrInvalidPayload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch: %w", ErrInvalidPayload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch returned %d", ErrInvalidPayload, resp.StatusCode)
	}

	r := io.Reader(resp.Body)
	if d.maxBytes > 0 {
		r = io.LimitReader(resp.Body, d.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrInvalidPayload, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}
	return data, nil
}
