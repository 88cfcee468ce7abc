// @title Gemini Transcriber API
// @version 1.0
// @description Speaker-labeled Japanese transcripts of video and audio files using Gemini.
// @license.name MIT
// @host localhost:8080
// @BasePath /api/v1
package main

import "gemini-transcriber/cmd/transcriber/cmd"

func main() {
	cmd.Execute()
}
