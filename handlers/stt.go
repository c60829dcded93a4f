package handlers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"busbook/config"
	"busbook/middleware"
	"busbook/services/agent"
	"busbook/utils"

	speech "cloud.google.com/go/speech/apiv1"
	"github.com/gin-gonic/gin"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

const (
	MaxDurationSeconds = 60
	MaxFileSize        = 5 * 1024 * 1024
	AllowedExtension   = ".wav"
)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 44 {
		return nil, errors.New("invalid WAV header length")
	}

	var header waveHeader
	buf := bytes.NewReader(data)
	if err := binary.Read(buf, binary.LittleEndian, &header); err != nil {
		return nil, err
	}

	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}
	if header.AudioFormat != 1 || header.BitsPerSample != 16 {
		return nil, errors.New("expected 16-bit PCM audio")
	}
	if header.NumChannels != 1 {
		return nil, errors.New("expected mono audio")
	}
	if header.ByteRate == 0 {
		return nil, errors.New("invalid byte rate")
	}
	if duration := float64(header.DataSize) / float64(header.ByteRate); duration > MaxDurationSeconds {
		return nil, fmt.Errorf("audio exceeds %d seconds", MaxDurationSeconds)
	}
	return &header, nil
}

// VoiceChatHandler transcribes an uploaded WAV clip and runs it through the
// same chat flow as a typed message.
func VoiceChatHandler(agentSvc agent.AgentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		language := c.DefaultPostForm("language", config.AppConfig.SpeechLang)
		sessionID := c.PostForm("session_id")

		file, header, err := c.Request.FormFile("audio")
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
			return
		}
		defer file.Close()

		if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != AllowedExtension {
			utils.JSONError(c, http.StatusBadRequest, "invalid file type",
				fmt.Sprintf("expected %s, got %s", AllowedExtension, ext))
			return
		}

		audioData, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file", err.Error())
			return
		}
		if len(audioData) > MaxFileSize {
			utils.JSONError(c, http.StatusBadRequest, "audio file too large",
				fmt.Sprintf("maximum size is %d bytes", MaxFileSize))
			return
		}

		wav, err := parseWaveHeader(audioData)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid audio", err.Error())
			return
		}

		ctx := c.Request.Context()
		client, err := speech.NewClient(ctx)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to initialize speech client", err.Error())
			return
		}
		defer client.Close()

		resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
			Config: &speechpb.RecognitionConfig{
				Encoding:          speechpb.RecognitionConfig_LINEAR16,
				SampleRateHertz:   int32(wav.SampleRate),
				LanguageCode:      language,
				AudioChannelCount: int32(wav.NumChannels),
			},
			Audio: &speechpb.RecognitionAudio{
				AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
			},
		})
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "speech recognition failed", err.Error())
			return
		}

		var transcript strings.Builder
		for _, result := range resp.Results {
			if len(result.Alternatives) > 0 {
				transcript.WriteString(result.Alternatives[0].Transcript)
			}
		}
		text := strings.TrimSpace(transcript.String())
		if text == "" {
			utils.JSONError(c, http.StatusBadRequest, "could not understand the audio", "")
			return
		}

		result, err := agentSvc.Chat(ctx, middleware.UserID(c), sessionID, text)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"transcript": text,
			"session_id": result.SessionID,
			"reply":      result.Reply,
		})
	}
}
