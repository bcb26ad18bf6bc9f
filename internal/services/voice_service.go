package services

import (
	"bytes"
	"context"
	"io"
	"strings"

	"gifty/pkg/llm"
	"gifty/pkg/metrics"
	"gifty/pkg/utils"
)

// MaxAudioBytes is the largest upload the transcription API accepts.
const MaxAudioBytes = 25 << 20

type VoiceServiceInterface interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader, size int64) (string, error)
	Speak(ctx context.Context, text string) ([]byte, error)
}

type VoiceService struct {
	speech   llm.SpeechClient
	language string
	metrics  *metrics.SuggestionMetrics
}

// NewVoiceService accepts a nil client; every call then fails with utils.ErrFeatureDisabled.
func NewVoiceService(speech llm.SpeechClient, language string, m *metrics.SuggestionMetrics) VoiceServiceInterface {
	if language == "" {
		language = "en"
	}
	return &VoiceService{speech: speech, language: language, metrics: m}
}

func (s *VoiceService) Transcribe(ctx context.Context, filename string, audio io.Reader, size int64) (string, error) {
	if s.speech == nil {
		return "", utils.ErrFeatureDisabled
	}
	if audio == nil || size == 0 {
		return "", utils.ErrEmptyAudio
	}
	if size > MaxAudioBytes {
		return "", utils.ErrAudioTooLarge
	}
	if filename == "" {
		filename = "audio.webm"
	}

	text, err := s.speech.Transcribe(ctx, filename, audio, s.language)
	s.metrics.IncExternal("whisper", err)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *VoiceService) Speak(ctx context.Context, text string) ([]byte, error) {
	if s.speech == nil {
		return nil, utils.ErrFeatureDisabled
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil, utils.ErrEmptyText
	}

	rc, err := s.speech.Speak(ctx, text)
	s.metrics.IncExternal("tts", err)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, llm.ErrEmptyResponse
	}
	return buf.Bytes(), nil
}
