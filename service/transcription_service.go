package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// TranscriptionService turns an uploaded audio blob into text by shelling
// out to ffmpeg (format conversion) and the whisper.cpp CLI (recognition).
// Both tools write through the work directory's subfolders, keyed by the
// request id, so concurrent requests never collide on file names.
type TranscriptionService struct {
	ffmpegBin    string
	whisperBin   string
	whisperModel string
	workDir      string
}

// NewTranscriptionService creates a transcription service from environment
// variables
func NewTranscriptionService() *TranscriptionService {
	ffmpegBin := os.Getenv("FFMPEG_BIN")
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	whisperBin := os.Getenv("WHISPER_CLI")
	if whisperBin == "" {
		whisperBin = "whisper-cli"
	}
	whisperModel := os.Getenv("WHISPER_MODEL")
	if whisperModel == "" {
		whisperModel = "./whisper.cpp/models/ggml-medium.bin"
	}
	workDir := os.Getenv("AUDIO_WORK_DIR")
	if workDir == "" {
		workDir = "./audio-work"
	}
	return &TranscriptionService{
		ffmpegBin:    ffmpegBin,
		whisperBin:   whisperBin,
		whisperModel: whisperModel,
		workDir:      workDir,
	}
}

// UploadPath returns where the raw upload for a request id is stored
func (s *TranscriptionService) UploadPath(id string) string {
	return filepath.Join(s.workDir, "uploads", id+".webm")
}

// EnsureWorkDirs creates the upload/converted/transcription directories
func (s *TranscriptionService) EnsureWorkDirs() error {
	for _, sub := range []string{"uploads", "converted", "transcriptions"} {
		if err := os.MkdirAll(filepath.Join(s.workDir, sub), 0755); err != nil {
			return fmt.Errorf("failed to prepare work directory: %w", err)
		}
	}
	return nil
}

// FfmpegArgs builds the conversion invocation: 16 kHz mono signed 16-bit
// PCM wav, which is what whisper.cpp expects
func FfmpegArgs(inputPath, wavPath string) []string {
	return []string{
		"-y", "-i", inputPath,
		"-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le",
		wavPath,
	}
}

// WhisperArgs builds the whisper.cpp invocation. -otxt writes the
// transcript to <outputBase>.txt; -l auto lets the model detect language.
func WhisperArgs(modelPath, wavPath, outputBase string) []string {
	return []string{
		"-m", modelPath,
		"-f", wavPath,
		"-otxt",
		"-of", outputBase,
		"-l", "auto",
	}
}

// Transcribe converts the audio file at inputPath and returns the
// recognized text, trimmed. An empty string is a valid result (silence).
func (s *TranscriptionService) Transcribe(ctx context.Context, id, inputPath string) (string, error) {
	if err := s.EnsureWorkDirs(); err != nil {
		return "", err
	}

	wavPath := filepath.Join(s.workDir, "converted", id+".wav")
	if err := s.runCommand(ctx, s.ffmpegBin, FfmpegArgs(inputPath, wavPath)); err != nil {
		return "", fmt.Errorf("ffmpeg failed to convert audio: %w", err)
	}

	outputBase := filepath.Join(s.workDir, "transcriptions", id)
	if err := s.runCommand(ctx, s.whisperBin, WhisperArgs(s.whisperModel, wavPath, outputBase)); err != nil {
		return "", fmt.Errorf("whisper failed to transcribe audio: %w", err)
	}

	transcript, err := os.ReadFile(outputBase + ".txt")
	if err != nil {
		return "", fmt.Errorf("transcription file not created by whisper: %w", err)
	}

	return strings.TrimSpace(string(transcript)), nil
}

func (s *TranscriptionService) runCommand(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", bin, err, stderr.String())
	}
	return nil
}
