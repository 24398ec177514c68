package processor

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// maxSourceSize caps how much of a remote or local source is read.
const maxSourceSize = 64 << 20

// LoadSource reads a dataset from an http(s) URL or a local file.
func LoadSource(client *http.Client, source string) ([]byte, error) {
	var reader io.Reader

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		log.Debug().Str("url", source).Msg("Downloading dataset")

		resp, err := client.Get(source)
		if err != nil {
			return nil, err
		}
		// Explicitly ignore close error as it's a read-only operation
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download failed: status %d", resp.StatusCode)
		}

		reader = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()

		reader = f
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxSourceSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSourceSize {
		return nil, fmt.Errorf("source exceeds %d bytes", maxSourceSize)
	}

	return data, nil
}
