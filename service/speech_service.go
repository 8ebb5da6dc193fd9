package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ResponseAudioFile is the fixed name the synthesized reply is written to.
// The frontend fetches it from the static /audio route.
const ResponseAudioFile = "output.wav"

var ErrVoiceModelMissing = errors.New("voice model files not found")

// piperVoices maps language codes to Piper voice model names. Languages the
// model may emit but we have no voice for fall back to English.
var piperVoices = map[string]string{
	"en": "en_GB-alan-medium",
	"hi": "hi_IN-pratham-medium",
}

// SpeechService converts response text to a wav file using the Piper CLI
type SpeechService struct {
	piperBin  string
	voicesDir string
	outputDir string
}

// NewSpeechService creates a speech service from environment variables
func NewSpeechService() *SpeechService {
	piperBin := os.Getenv("PIPER_BIN")
	if piperBin == "" {
		piperBin = "piper"
	}
	voicesDir := os.Getenv("PIPER_VOICES_DIR")
	if voicesDir == "" {
		voicesDir = "./piper"
	}
	outputDir := os.Getenv("AUDIO_OUTPUT_DIR")
	if outputDir == "" {
		outputDir = "./audio"
	}
	return &SpeechService{
		piperBin:  piperBin,
		voicesDir: voicesDir,
		outputDir: outputDir,
	}
}

// VoiceForLang resolves a language code to a voice model name. The second
// return reports whether the language was supported directly.
func VoiceForLang(lang string) (string, bool) {
	if voice, ok := piperVoices[lang]; ok {
		return voice, true
	}
	return piperVoices["en"], false
}

// PiperArgs builds the piper invocation for a voice model and output path
func PiperArgs(modelPath, configPath, outputPath string) []string {
	return []string{"-m", modelPath, "-c", configPath, "-f", outputPath}
}

// Synthesize writes the spoken form of text to the fixed output file and
// returns its path. Text is passed on stdin, as piper expects.
func (s *SpeechService) Synthesize(ctx context.Context, text, lang string) (string, error) {
	voice, supported := VoiceForLang(lang)
	if !supported {
		log.Printf("Warning: no voice for language %q, falling back to English", lang)
	}

	modelPath := filepath.Join(s.voicesDir, voice+".onnx")
	configPath := filepath.Join(s.voicesDir, voice+".onnx.json")
	if _, err := os.Stat(modelPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrVoiceModelMissing, modelPath)
	}
	if _, err := os.Stat(configPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrVoiceModelMissing, configPath)
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to prepare output directory: %w", err)
	}
	outputPath := filepath.Join(s.outputDir, ResponseAudioFile)

	cmd := exec.CommandContext(ctx, s.piperBin, PiperArgs(modelPath, configPath, outputPath)...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("piper failed: %w: %s", err, stderr.String())
	}

	return outputPath, nil
}

// OutputPath returns where the synthesized reply lives, for static serving
func (s *SpeechService) OutputPath() string {
	return filepath.Join(s.outputDir, ResponseAudioFile)
}
