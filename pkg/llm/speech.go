package llm

import (
	"context"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

type SpeechClient interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (string, error)
	Speak(ctx context.Context, text string) (io.ReadCloser, error)
}

type OpenAISpeech struct {
	client          *openai.Client
	transcribeModel string
	speechModel     string
	voice           string
}

func NewOpenAISpeech(apiKey, baseURL, transcribeModel, speechModel, voice string) *OpenAISpeech {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAISpeech{
		client:          openai.NewClientWithConfig(cfg),
		transcribeModel: pick(transcribeModel, openai.Whisper1),
		speechModel:     pick(speechModel, string(openai.TTSModel1)),
		voice:           pick(voice, string(openai.VoiceNova)),
	}
}

func (s *OpenAISpeech) Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (string, error) {
	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.transcribeModel,
		FilePath: filename,
		Reader:   audio,
		Language: language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", unavailable("whisper", err)
	}
	return resp.Text, nil
}

func (s *OpenAISpeech) Speak(ctx context.Context, text string) (io.ReadCloser, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.speechModel),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, unavailable("tts", err)
	}
	return resp, nil
}
