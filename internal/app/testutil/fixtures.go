package testutil

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"gemini-transcriber/internal/app/model"
)

// SampleTranscript is a speaker-labeled transcript in the expected output shape
const SampleTranscript = "話者A: こんにちは、今日はよろしくお願いします。\n話者B: よろしくお願いします。"

// SampleVideo returns a small in-memory MP4 upload
func SampleVideo() *model.UploadedFile {
	return model.NewUploadedFile("interview.mp4", "video/mp4", []byte("fake mp4 payload"))
}

// SampleAudio returns a small in-memory MP3 upload
func SampleAudio() *model.UploadedFile {
	return model.NewUploadedFile("podcast.mp3", "audio/mpeg", []byte("fake mp3 payload"))
}

// OversizedVideo returns a metadata-only upload one byte over the ceiling
func OversizedVideo() *model.UploadedFile {
	return model.NewUploadedFileFromSource("movie.mov", "video/quicktime", model.MaxFileSize+1, nil)
}

// MultipartFile builds a multipart body with one file part. An empty
// contentType omits the part's Content-Type header.
func MultipartFile(t testing.TB, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create multipart part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write multipart part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

// MultipartFields builds a multipart body with plain fields only
func MultipartFields(t testing.TB, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}
