package gemini

import "google.golang.org/genai"

// DefaultModel is the multimodal model used for every request
const DefaultModel = "gemini-2.5-flash"

// TranscriptionPrompt asks for a full Japanese transcript with numbered
// speakers ("話者1", "話者2", ...) and a line break at every speaker change.
const TranscriptionPrompt = "このファイルの音声をすべて日本語で文字起こししてください。話者を「話者1」「話者2」のように数字で区別し、話者が変わるたびに改行して、誰が話しているかを示してください。"

// buildContents returns a single user turn. The API requires the text part to
// come before the media part.
func buildContents(mimeType string, data []byte) []*genai.Content {
	return []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{
				{Text: TranscriptionPrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			},
		},
	}
}
