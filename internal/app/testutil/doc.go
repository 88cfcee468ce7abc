// Package testutil provides shared test helpers for the transcriber.
//
// It contains:
//
//   - MockTranscriber: a testify mock of api.Transcriber. Setting Gate holds
//     every call until the channel is closed, so tests can observe a session
//     while it is transcribing.
//   - Fixtures: sample uploads (SampleVideo, SampleAudio, OversizedVideo) and
//     a speaker-labeled SampleTranscript.
//   - Multipart builders: MultipartFile and MultipartFields create request
//     bodies for upload handlers.
//
// # Usage
//
//	transcriber := testutil.NewMockTranscriber(t)
//	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return(testutil.SampleTranscript, nil)
//
//	body, contentType := testutil.MultipartFile(t, "file", "clip.mp4", "video/mp4", data)
//	req := httptest.NewRequest(http.MethodPost, "/file", body)
//	req.Header.Set("Content-Type", contentType)
package testutil
