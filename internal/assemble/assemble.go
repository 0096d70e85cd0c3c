// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble joins synthesized audio fragments into the final MP3
// file. MP3 fragments are concatenated directly; WAV fragments are
// merged into one stream and encoded through an external encoder.
package assemble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/pdiddy/pdfspeech/internal/tool"
	"github.com/pdiddy/pdfspeech/pkg/types"
)

// Assembler writes the output file for a conversion. The MP3 encoder is
// detected lazily: cloud conversions never need one.
type Assembler struct {
	detectEncoder func() (tool.Tool, error)
}

func NewAssembler() *Assembler {
	return &Assembler{detectEncoder: tool.DetectEncoder}
}

// Assemble joins frags in index order and writes outPath. The file
// appears atomically: content goes to a temporary file in the target
// directory first and is renamed into place only when complete. Returns
// the number of bytes in the final file.
func (a *Assembler) Assemble(ctx context.Context, frags []types.Fragment, outPath string) (int64, error) {
	if err := validateFragments(frags); err != nil {
		return 0, fail(err)
	}
	switch frags[0].Format {
	case types.FormatMP3:
		return a.concatMP3(frags, outPath)
	case types.FormatWAV:
		return a.encodeWAV(ctx, frags, outPath)
	default:
		return 0, fail(fmt.Errorf("unsupported fragment format %q", frags[0].Format))
	}
}

func validateFragments(frags []types.Fragment) error {
	if len(frags) == 0 {
		return errors.New("no audio fragments to assemble")
	}
	for i, frag := range frags {
		if frag.Index != i {
			return fmt.Errorf("fragment order broken: position %d holds index %d", i, frag.Index)
		}
		if frag.Format != frags[0].Format {
			return fmt.Errorf("mixed fragment formats %q and %q", frags[0].Format, frag.Format)
		}
		if len(frag.Data) == 0 {
			return fmt.Errorf("fragment %d is empty", i)
		}
	}
	return nil
}

// concatMP3 byte-concatenates the fragments. MPEG audio frames are
// self-delimiting, so the joined stream plays as one track.
func (a *Assembler) concatMP3(frags []types.Fragment, outPath string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".pdfspeech-*.tmp")
	if err != nil {
		return 0, fail(fmt.Errorf("creating temporary file: %w", err))
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	var written int64
	for _, frag := range frags {
		n, err := tmp.Write(frag.Data)
		written += int64(n)
		if err != nil {
			tmp.Close()
			return 0, fail(fmt.Errorf("writing %s: %w", tmpPath, err))
		}
	}
	if err := tmp.Close(); err != nil {
		return 0, fail(fmt.Errorf("closing %s: %w", tmpPath, err))
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return 0, fail(fmt.Errorf("moving output into place: %w", err))
	}
	return written, nil
}

// encodeWAV merges the WAV fragments into one stream, writes it to a
// temporary file and runs the detected encoder over it.
func (a *Assembler) encodeWAV(ctx context.Context, frags []types.Fragment, outPath string) (int64, error) {
	enc, err := a.detectEncoder()
	if err != nil {
		return 0, fail(err)
	}

	merged, err := mergeWAV(frags)
	if err != nil {
		return 0, fail(err)
	}

	dir := filepath.Dir(outPath)
	wavPath, err := writeWAV(dir, merged)
	if err != nil {
		return 0, fail(err)
	}
	defer os.Remove(wavPath)

	// The encoder temp file keeps the .mp3 suffix: ffmpeg picks the
	// output format from it.
	mp3Tmp, err := os.CreateTemp(dir, ".pdfspeech-*.mp3")
	if err != nil {
		return 0, fail(fmt.Errorf("creating temporary file: %w", err))
	}
	mp3Path := mp3Tmp.Name()
	mp3Tmp.Close()
	defer os.Remove(mp3Path)

	if err := runEncoder(ctx, enc, wavPath, mp3Path); err != nil {
		return 0, fail(err)
	}

	info, err := os.Stat(mp3Path)
	if err != nil {
		return 0, fail(fmt.Errorf("inspecting encoder output: %w", err))
	}
	if info.Size() == 0 {
		return 0, fail(fmt.Errorf("%s produced an empty file", enc.Name()))
	}
	if err := os.Rename(mp3Path, outPath); err != nil {
		return 0, fail(fmt.Errorf("moving output into place: %w", err))
	}
	return info.Size(), nil
}

// mergeWAV decodes each fragment and appends the PCM samples into one
// buffer. All fragments must agree on sample rate and channel count.
func mergeWAV(frags []types.Fragment) (*audio.IntBuffer, error) {
	var merged *audio.IntBuffer
	for _, frag := range frags {
		d := wav.NewDecoder(bytes.NewReader(frag.Data))
		buf, err := d.FullPCMBuffer()
		if err != nil {
			return nil, fmt.Errorf("decoding fragment %d: %w", frag.Index, err)
		}
		if merged == nil {
			merged = buf
			continue
		}
		if buf.Format.SampleRate != merged.Format.SampleRate || buf.Format.NumChannels != merged.Format.NumChannels {
			return nil, fmt.Errorf("fragment %d: format %dHz/%dch does not match %dHz/%dch",
				frag.Index, buf.Format.SampleRate, buf.Format.NumChannels,
				merged.Format.SampleRate, merged.Format.NumChannels)
		}
		merged.Data = append(merged.Data, buf.Data...)
	}
	return merged, nil
}

// writeWAV writes buf to a temporary file in dir and returns its path.
func writeWAV(dir string, buf *audio.IntBuffer) (string, error) {
	f, err := os.CreateTemp(dir, ".pdfspeech-*.wav")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	path := f.Name()

	enc := wav.NewEncoder(f, buf.Format.SampleRate, 16, buf.Format.NumChannels, 1)
	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("finalizing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// runEncoder invokes enc to turn wavPath into mp3Path. The argument
// shape depends on which encoder was detected.
func runEncoder(ctx context.Context, enc tool.Tool, wavPath, mp3Path string) error {
	var args []string
	if enc.Name() == "ffmpeg" {
		args = []string{
			"-hide_banner", "-loglevel", "error", "-y",
			"-i", wavPath,
			"-codec:a", "libmp3lame", "-qscale:a", "4",
			mp3Path,
		}
	} else {
		args = []string{"--quiet", wavPath, mp3Path}
	}
	return enc.Run(ctx, args, nil, nil)
}

// fail classifies err as an assembly failure. Everything that goes
// wrong here, encoder detection included, maps to the encoding kind.
func fail(err error) error {
	return types.NewStageError(types.EncodingError, "assemble", err)
}
