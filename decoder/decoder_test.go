// SPDX-License-Identifier: EPL-2.0

package decoder

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats/wav"
	"github.com/ik5/audstream/internal/audiotest"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testRegistry(c audiotest.Codec) *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("test", c, "tst")
	return reg
}

func writeFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.tst")
	if err := audiotest.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func openTest(t *testing.T, c audiotest.Codec) *Decoder {
	t.Helper()

	d, err := Open(writeFixture(t), testRegistry(c), quiet)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.bin")
	if err := os.WriteFile(garbage, []byte("nothing to see here"), 0o600); err != nil {
		t.Fatal(err)
	}
	fixture := filepath.Join(dir, "fixture.tst")
	if err := audiotest.WriteFile(fixture); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		path  string
		codec audiotest.Codec
		want  error
	}{
		{"missing", filepath.Join(dir, "missing.wav"), audiotest.Codec{}, ErrNotFound},
		{"unknown format", garbage, audiotest.Codec{}, ErrProbeFailed},
		{"directory", dir, audiotest.Codec{}, ErrProbeFailed},
		{"decode failure", fixture, audiotest.Codec{DecodeErr: errors.New("bad header")}, ErrProbeFailed},
		{"unsupported", fixture, audiotest.Codec{DecodeErr: audio.ErrUnsupportedCodec}, ErrUnsupportedCodec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Open(tt.path, testRegistry(tt.codec), quiet)
			if !errors.Is(err, tt.want) {
				t.Errorf("Open() error = %v, want %v", err, tt.want)
			}
			if d != nil {
				t.Error("Open() returned a decoder alongside an error")
			}
		})
	}
}

func TestOpen_UnsupportedMatchesAudioError(t *testing.T) {
	t.Parallel()

	_, err := Open(writeFixture(t), testRegistry(audiotest.Codec{DecodeErr: audio.ErrUnsupportedCodec}), quiet)
	if !errors.Is(err, audio.ErrUnsupportedCodec) {
		t.Errorf("Open() error = %v, want audio.ErrUnsupportedCodec in chain", err)
	}
}

func TestDecoder_SignalSpec(t *testing.T) {
	t.Parallel()

	d := openTest(t, audiotest.Codec{SampleRate: 22050, Channels: 1, Frames: 44100, PacketFrames: 512})

	if got := d.SignalSpec(); got != (SignalSpec{SampleRate: 22050, Channels: 1}) {
		t.Errorf("SignalSpec() = %+v", got)
	}
	if d.Format() != "test" {
		t.Errorf("Format() = %q, want test", d.Format())
	}
	if d.MaxPacketSamples() != 512 {
		t.Errorf("MaxPacketSamples() = %d, want 512", d.MaxPacketSamples())
	}

	dur, ok := d.Duration()
	if !ok || dur != 2*time.Second {
		t.Errorf("Duration() = %v, %v, want 2s, true", dur, ok)
	}
}

func TestDecoder_ReadPacket(t *testing.T) {
	t.Parallel()

	d := openTest(t, audiotest.Codec{SampleRate: 1000, Channels: 2, Frames: 250, PacketFrames: 100})
	buf := make([]float32, d.MaxPacketSamples())

	wantTS := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}
	wantN := []int{200, 200, 100}

	for i := range wantTS {
		n, ts, ok := d.ReadPacket(buf)
		if !ok {
			t.Fatalf("packet %d: ReadPacket() ok = false", i)
		}
		if n != wantN[i] || ts != wantTS[i] {
			t.Errorf("packet %d: got n=%d ts=%v, want n=%d ts=%v", i, n, ts, wantN[i], wantTS[i])
		}
	}

	if _, _, ok := d.ReadPacket(buf); ok {
		t.Error("ReadPacket() after end ok = true")
	}
}

func TestDecoder_ReadPacket_SkipsCorrupt(t *testing.T) {
	t.Parallel()

	d := openTest(t, audiotest.Codec{SampleRate: 1000, Channels: 1, Frames: 400, PacketFrames: 100, Corrupt: []int{1, 2}})
	buf := make([]float32, d.MaxPacketSamples())

	total := 0
	for {
		n, _, ok := d.ReadPacket(buf)
		if !ok {
			break
		}
		total += n
	}

	if total != 200 {
		t.Errorf("decoded %d samples, want 200 (two packets skipped)", total)
	}
}

func TestDecoder_ReadPacket_ConsecutiveErrorCap(t *testing.T) {
	t.Parallel()

	corrupt := make([]int, MaxConsecutiveErrors)
	for i := range corrupt {
		corrupt[i] = i
	}
	d := openTest(t, audiotest.Codec{SampleRate: 1000, Channels: 1, Frames: 100_000, PacketFrames: 10, Corrupt: corrupt})

	if _, _, ok := d.ReadPacket(make([]float32, 10)); ok {
		t.Error("ReadPacket() ok = true after hitting the corrupt packet cap")
	}
}

func TestDecoder_ReadPacket_FatalEndsStream(t *testing.T) {
	t.Parallel()

	d := openTest(t, audiotest.Codec{SampleRate: 1000, Channels: 1, Frames: 1000, PacketFrames: 100,
		Fatal: errors.New("container truncated"), FatalAt: 1})
	buf := make([]float32, 100)

	if _, _, ok := d.ReadPacket(buf); !ok {
		t.Fatal("first ReadPacket() ok = false")
	}
	if _, _, ok := d.ReadPacket(buf); ok {
		t.Error("ReadPacket() after format reader failure ok = true")
	}
}

func TestDecoder_Seek(t *testing.T) {
	t.Parallel()

	d := openTest(t, audiotest.Codec{SampleRate: 1000, Channels: 1, Frames: 10_000, PacketFrames: 100})
	buf := make([]float32, 100)

	got, err := d.Seek(5 * time.Second)
	if err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	if got != 5*time.Second {
		t.Errorf("Seek() = %v, want 5s", got)
	}

	_, ts, ok := d.ReadPacket(buf)
	if !ok || ts != 5*time.Second {
		t.Errorf("ReadPacket() after seek ts = %v ok = %v, want 5s", ts, ok)
	}

	// Lands on the enclosing packet.
	if got, _ := d.Seek(1250 * time.Millisecond); got != 1200*time.Millisecond {
		t.Errorf("Seek(1.25s) = %v, want 1.2s", got)
	}
}

func TestDecoder_SeekFailed(t *testing.T) {
	t.Parallel()

	d := openTest(t, audiotest.Codec{SampleRate: 1000, Channels: 1, Frames: 1000, PacketFrames: 100, NoSeek: true})
	buf := make([]float32, 100)
	d.ReadPacket(buf)

	got, err := d.Seek(500 * time.Millisecond)
	if !errors.Is(err, ErrSeekFailed) {
		t.Fatalf("Seek() error = %v, want ErrSeekFailed", err)
	}
	if got != 100*time.Millisecond {
		t.Errorf("Seek() position after failure = %v, want 100ms", got)
	}

	if _, ts, ok := d.ReadPacket(buf); !ok || ts != 100*time.Millisecond {
		t.Errorf("ReadPacket() after failed seek ts = %v, want 100ms", ts)
	}
}

func TestDecoder_DefaultRegistryWAV(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 8000)
	var buf bytes.Buffer
	if err := wav.WriteWAV16(&buf, 8000, 1, samples); err != nil {
		t.Fatal(err)
	}

	// A misleading extension still probes by content.
	path := filepath.Join(t.TempDir(), "tone.mp3")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	d, err := Open(path, nil, quiet)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer d.Close()

	if d.Format() != "wav" {
		t.Errorf("Format() = %q, want wav", d.Format())
	}
	if dur, _ := d.Duration(); dur != time.Second {
		t.Errorf("Duration() = %v, want 1s", dur)
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	got := DefaultRegistry().Formats()
	want := []string{"wav", "aiff", "flac", "vorbis", "mp3"}

	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDecoder_Close(t *testing.T) {
	t.Parallel()

	path := writeFixture(t)
	d, err := Open(path, testRegistry(audiotest.Codec{}), quiet)
	if err != nil {
		t.Fatal(err)
	}

	stream := d.stream.(*audiotest.Stream)
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !stream.Closed.Load() {
		t.Error("Close() did not close the stream")
	}
}
