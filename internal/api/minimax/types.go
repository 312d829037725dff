// Package minimax provides the wire types and HTTP client for the MiniMax
// text-to-speech API.
package minimax

// T2ARequest is the body of a t2a_v2 synthesis request.
type T2ARequest struct {
	Model        string       `json:"model"`
	Text         string       `json:"text"`
	Stream       bool         `json:"stream"`
	VoiceSetting VoiceSetting `json:"voice_setting"`
	AudioSetting AudioSetting `json:"audio_setting"`
}

type VoiceSetting struct {
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Vol     float64 `json:"vol"`
	Pitch   float64 `json:"pitch"`
}

type AudioSetting struct {
	SampleRate int    `json:"sample_rate"`
	Bitrate    int    `json:"bitrate"`
	Format     string `json:"format"`
}

// T2AResponse is the synthesis response. Audio is hex encoded.
type T2AResponse struct {
	Data      *AudioData `json:"data,omitempty"`
	ExtraInfo *ExtraInfo `json:"extra_info,omitempty"`
	TraceID   string     `json:"trace_id,omitempty"`
	BaseResp  *BaseResp  `json:"base_resp,omitempty"`
}

type AudioData struct {
	Audio  string `json:"audio"`
	Status int    `json:"status,omitempty"`
}

type ExtraInfo struct {
	// AudioLength is the audio duration in milliseconds.
	AudioLength     int64  `json:"audio_length"`
	AudioSize       int64  `json:"audio_size,omitempty"`
	AudioFormat     string `json:"audio_format,omitempty"`
	UsageCharacters int    `json:"usage_characters,omitempty"`
}

// BaseResp carries the vendor status. StatusCode 0 means success.
type BaseResp struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
}
