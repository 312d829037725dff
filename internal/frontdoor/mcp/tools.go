package mcp

import (
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolTTSGenerate       = "tts_generate"
	ToolWhisperTranscribe = "whisper_transcribe"
	ToolImageGenerate     = "image_generate"
	ToolImageEdit         = "image_edit"
	ToolImageVariation    = "image_variation"
	ToolVideoGenerate     = "video_generate"
	ToolVideoStatus       = "video_status"
	ToolAIConfigQuery     = "ai_config_query"
)

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func num(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func integer(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc, "minimum": 1}
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var providerProperty = str("Configured provider name. Defaults to the default provider.")

// catalog describes every tool the server exposes. Handlers are bound in NewServer.
var catalog = []*mcpsdk.Tool{
	{
		Name:        ToolTTSGenerate,
		Description: "Synthesize speech from text and save it as an audio file.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Text to speech"},
		InputSchema: object(map[string]any{
			"text":      str("Text to speak."),
			"voiceId":   str("Voice id or a name from the configured voice table."),
			"speed":     num("Speaking speed, 0.5 to 2."),
			"vol":       num("Volume, 0.1 to 10."),
			"pitch":     num("Pitch shift in semitones, -12 to 12."),
			"outputDir": str("Directory for the audio file."),
		}, "text"),
	},
	{
		Name:        ToolWhisperTranscribe,
		Description: "Transcribe an audio file to text.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Transcribe audio", ReadOnlyHint: true},
		InputSchema: object(map[string]any{
			"audioFile": str("Path to the audio file."),
			"model":     str("Transcription model."),
			"language":  str("ISO-639-1 language code, or auto to detect."),
			"prompt":    str("Text to guide the transcription style."),
			"responseFormat": map[string]any{
				"type": "string",
				"enum": []string{"json", "text", "srt", "verbose_json", "vtt"},
			},
			"timestampGranularities": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string", "enum": []string{"word", "segment"}},
				"description": "Requesting timestamps forces verbose_json.",
			},
			"provider": providerProperty,
		}, "audioFile"),
	},
	{
		Name:        ToolImageGenerate,
		Description: "Generate images from a prompt. Failed generations are retried once on the fallback model.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Generate image"},
		InputSchema: object(map[string]any{
			"prompt":   str("Description of the image."),
			"model":    str("Image model."),
			"size":     str("Image size, for example 1024x1024."),
			"quality":  str("Image quality."),
			"style":    str("Image style."),
			"n":        integer("Number of images."),
			"provider": providerProperty,
			"transparentBackground": map[string]any{
				"type":        "boolean",
				"description": "Render on green and key the background out to transparency.",
			},
		}, "prompt"),
	},
	{
		Name:        ToolImageEdit,
		Description: "Edit an image guided by a prompt and an optional mask.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Edit image"},
		InputSchema: object(map[string]any{
			"image":    str("Path to the source PNG."),
			"prompt":   str("Description of the edit."),
			"mask":     str("Path to a PNG mask; transparent areas are edited."),
			"model":    str("Image model."),
			"size":     str("Output size."),
			"n":        integer("Number of images."),
			"provider": providerProperty,
		}, "image", "prompt"),
	},
	{
		Name:        ToolImageVariation,
		Description: "Create variations of an image.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Image variation"},
		InputSchema: object(map[string]any{
			"image":    str("Path to the source PNG."),
			"model":    str("Image model."),
			"size":     str("Output size."),
			"n":        integer("Number of images."),
			"provider": providerProperty,
		}, "image"),
	},
	{
		Name:        ToolVideoGenerate,
		Description: "Submit a video generation task. Failures are reported in the result status.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Generate video"},
		InputSchema: object(map[string]any{
			"prompt":         str("Description of the video."),
			"model":          str("Video model."),
			"referenceImage": str("Path to a reference image."),
			"duration":       integer("Duration in seconds."),
			"fps":            integer("Frames per second."),
			"size":           str("Video size or aspect ratio."),
			"provider":       providerProperty,
		}, "prompt"),
	},
	{
		Name:        ToolVideoStatus,
		Description: "Query the status of a video generation task.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Video status", ReadOnlyHint: true},
		InputSchema: object(map[string]any{
			"taskId":   str("Task id returned by video_generate."),
			"provider": providerProperty,
		}, "taskId"),
	},
	{
		Name:        ToolAIConfigQuery,
		Description: "Report configured providers, their models and the capability defaults. Credentials are never included.",
		Annotations: &mcpsdk.ToolAnnotations{Title: "Query configuration", ReadOnlyHint: true},
		InputSchema: object(map[string]any{}),
	},
}

// requiredFields returns the required argument names declared by schema.
func requiredFields(tool *mcpsdk.Tool) []string {
	schema, ok := tool.InputSchema.(map[string]any)
	if !ok {
		return nil
	}
	required, _ := schema["required"].([]string)
	return required
}
