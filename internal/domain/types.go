package domain

// Capability is one of the media operations a provider can serve.
type Capability string

const (
	CapabilitySpeech        Capability = "speech"
	CapabilityTranscription Capability = "transcription"
	CapabilityImage         Capability = "image"
	CapabilityVideo         Capability = "video"
)

// Provider is a configured upstream vendor endpoint.
type Provider struct {
	Name    string
	BaseURL string
	APIKey  string
	Models  ProviderModels
}

// ProviderModels lists supported model ids per capability.
type ProviderModels struct {
	Text          []string `json:"text"`
	Transcription []string `json:"whisper"`
	Image         []string `json:"image"`
	Video         []string `json:"video"`
}

// SpeechRequest is the input to speech synthesis. Nil numeric fields take defaults.
type SpeechRequest struct {
	Text      string   `json:"text"`
	VoiceID   string   `json:"voiceId,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Vol       *float64 `json:"vol,omitempty"`
	Pitch     *float64 `json:"pitch,omitempty"`
	OutputDir string   `json:"outputDir,omitempty"`
}

type SpeechResult struct {
	AudioFile string  `json:"audioFile"`
	Duration  float64 `json:"duration"`
	VoiceID   string  `json:"voiceId"`
}

type TranscriptionRequest struct {
	AudioFile              string   `json:"audioFile"`
	Model                  string   `json:"model,omitempty"`
	Language               string   `json:"language,omitempty"`
	Prompt                 string   `json:"prompt,omitempty"`
	ResponseFormat         string   `json:"responseFormat,omitempty"`
	TimestampGranularities []string `json:"timestampGranularities,omitempty"`
	Provider               string   `json:"provider,omitempty"`
}

type TranscriptionResult struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language,omitempty"`
	Duration float64                `json:"duration,omitempty"`
	Words    []TranscriptionWord    `json:"words,omitempty"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

type TranscriptionWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type TranscriptionSegment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type ImageGenerateRequest struct {
	Prompt                string `json:"prompt"`
	Model                 string `json:"model,omitempty"`
	Size                  string `json:"size,omitempty"`
	Quality               string `json:"quality,omitempty"`
	Style                 string `json:"style,omitempty"`
	N                     int    `json:"n,omitempty"`
	Provider              string `json:"provider,omitempty"`
	TransparentBackground bool   `json:"transparentBackground,omitempty"`
}

type ImageEditRequest struct {
	Image    string `json:"image"`
	Prompt   string `json:"prompt"`
	Mask     string `json:"mask,omitempty"`
	Model    string `json:"model,omitempty"`
	Size     string `json:"size,omitempty"`
	N        int    `json:"n,omitempty"`
	Provider string `json:"provider,omitempty"`
}

type ImageVariationRequest struct {
	Image    string `json:"image"`
	Model    string `json:"model,omitempty"`
	Size     string `json:"size,omitempty"`
	N        int    `json:"n,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// ImageResult is one generated image. At least one of URL or FilePath is set.
type ImageResult struct {
	URL           string `json:"url,omitempty"`
	FilePath      string `json:"filePath,omitempty"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
}

type VideoGenerateRequest struct {
	Prompt         string `json:"prompt"`
	Model          string `json:"model,omitempty"`
	ReferenceImage string `json:"referenceImage,omitempty"`
	Duration       int    `json:"duration,omitempty"`
	FPS            int    `json:"fps,omitempty"`
	Size           string `json:"size,omitempty"`
	Provider       string `json:"provider,omitempty"`
}

type VideoStatusRequest struct {
	TaskID   string `json:"taskId"`
	Provider string `json:"provider,omitempty"`
}

// VideoResult is the total outcome of a video generation call. Failures are
// carried in Status and Error rather than returned.
type VideoResult struct {
	URL    string      `json:"url,omitempty"`
	TaskID string      `json:"taskId,omitempty"`
	Status VideoStatus `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// VideoStatusResult is the total outcome of a video status query.
type VideoStatusResult struct {
	ID             string      `json:"id"`
	Status         VideoStatus `json:"status"`
	URL            string      `json:"url,omitempty"`
	EnhancedPrompt string      `json:"enhancedPrompt,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// FailedVideo builds the failure variant of a video generation result.
func FailedVideo(err error) VideoResult {
	return VideoResult{Status: VideoStatusFailed, Error: errorMessage(err)}
}

// FailedVideoStatus builds the failure variant of a video status result.
func FailedVideoStatus(id string, err error) VideoStatusResult {
	return VideoStatusResult{ID: id, Status: VideoStatusFailed, Error: errorMessage(err)}
}

func errorMessage(err error) string {
	if err == nil || err.Error() == "" {
		return "unknown error"
	}
	return err.Error()
}
