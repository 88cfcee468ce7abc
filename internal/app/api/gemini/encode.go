package gemini

import (
	"context"
	"fmt"
	"io"

	"gemini-transcriber/internal/app/model"
)

type payload struct {
	data []byte
	err  error
}

// encodePayload reads the whole file in the background and delivers exactly
// one result. The bytes travel base64-encoded in the request body.
func encodePayload(ctx context.Context, file *model.UploadedFile) ([]byte, error) {
	result := make(chan payload, 1)

	go func() {
		rc, err := file.Open()
		if err != nil {
			result <- payload{err: fmt.Errorf("open: %w", err)}
			return
		}
		defer rc.Close()

		// Read one byte past the ceiling so a lying Size is still caught.
		data, err := io.ReadAll(io.LimitReader(rc, model.MaxFileSize+1))
		if err != nil {
			result <- payload{err: fmt.Errorf("read: %w", err)}
			return
		}
		result <- payload{data: data}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case p := <-result:
		return p.data, p.err
	}
}
