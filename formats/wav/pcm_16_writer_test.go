// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
		samples  int
	}{
		{"empty mono", 8000, 1, 0},
		{"single sample", 16000, 1, 1},
		{"cd mono", 44100, 1, 441},
		{"stereo", 48000, 2, 960},
		{"5.1", 48000, 6, 60},
		{"hi-res", 96000, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := new(bytes.Buffer)
			if err := WriteWAV16(buf, tt.rate, tt.channels, make([]int16, tt.samples)); err != nil {
				t.Fatalf("WriteWAV16() error = %v", err)
			}

			data := buf.Bytes()
			dataSize := uint32(tt.samples * 2)
			if len(data) != 44+int(dataSize) {
				t.Fatalf("file is %d bytes, want %d", len(data), 44+dataSize)
			}

			le := binary.LittleEndian
			checks := []struct {
				field string
				got   uint32
				want  uint32
			}{
				{"riff size", le.Uint32(data[4:8]), 36 + dataSize},
				{"fmt size", le.Uint32(data[16:20]), 16},
				{"format", uint32(le.Uint16(data[20:22])), 1},
				{"channels", uint32(le.Uint16(data[22:24])), uint32(tt.channels)},
				{"sample rate", le.Uint32(data[24:28]), uint32(tt.rate)},
				{"byte rate", le.Uint32(data[28:32]), uint32(tt.rate * tt.channels * 2)},
				{"block align", uint32(le.Uint16(data[32:34])), uint32(tt.channels * 2)},
				{"bits", uint32(le.Uint16(data[34:36])), 16},
				{"data size", le.Uint32(data[40:44]), dataSize},
			}
			for _, c := range checks {
				if c.got != c.want {
					t.Errorf("%s = %d, want %d", c.field, c.got, c.want)
				}
			}

			for off, tag := range map[int]string{0: "RIFF", 8: "WAVE", 12: "fmt ", 36: "data"} {
				if got := string(data[off : off+4]); got != tag {
					t.Errorf("chunk at %d = %q, want %q", off, got, tag)
				}
			}
		})
	}
}

func TestWriteWAV16_SampleBytes(t *testing.T) {
	t.Parallel()

	samples := []int16{0x0102, -2, 32767, -32768}
	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 8000, 2, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	want := []byte{0x02, 0x01, 0xfe, 0xff, 0xff, 0x7f, 0x00, 0x80}
	if got := buf.Bytes()[44:]; !bytes.Equal(got, want) {
		t.Errorf("data = % x, want % x", got, want)
	}
}

func TestWriteWAV16_RoundTrip(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 100, -100, 32767, -32768, 12345, -6789, 1}
	buf := new(bytes.Buffer)
	if err := WriteWAV16(buf, 22050, 2, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	stream, err := Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if stream.SampleRate() != 22050 || stream.Channels() != 2 || stream.Frames() != 4 {
		t.Errorf("Decode() = %d Hz, %d ch, %d frames", stream.SampleRate(), stream.Channels(), stream.Frames())
	}

	dst := make([]float32, len(samples))
	n, err := stream.ReadPacket(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		t.Fatalf("ReadPacket() error = %v", err)
	}
	if n != len(samples) {
		t.Fatalf("ReadPacket() n = %d, want %d", n, len(samples))
	}

	for i, s := range samples {
		if want := float32(s) / 32768; dst[i] != want {
			t.Errorf("sample %d = %v, want %v", i, dst[i], want)
		}
	}
}

func TestWriteWAV16_InvalidChannels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		samples  []int16
	}{
		{"zero channels", 0, []int16{1}},
		{"negative channels", -2, nil},
		{"partial frame", 2, []int16{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := new(bytes.Buffer)
			err := WriteWAV16(buf, 8000, tt.channels, tt.samples)
			if !errors.Is(err, ErrInvalidChannels) {
				t.Errorf("WriteWAV16() error = %v, want ErrInvalidChannels", err)
			}
			if buf.Len() != 0 {
				t.Errorf("wrote %d bytes on error", buf.Len())
			}
		})
	}
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, io.ErrClosedPipe
	}
	w.after--
	return len(p), nil
}

func TestWriteWAV16_WriteError(t *testing.T) {
	t.Parallel()

	for after := range 2 {
		err := WriteWAV16(&failingWriter{after: after}, 8000, 1, []int16{1, 2})
		if !errors.Is(err, io.ErrClosedPipe) {
			t.Errorf("failing after %d writes: error = %v, want %v", after, err, io.ErrClosedPipe)
		}
	}
}

func BenchmarkWriteWAV16(b *testing.B) {
	samples := make([]int16, 48000*2)
	for i := range samples {
		samples[i] = int16(i)
	}

	for b.Loop() {
		_ = WriteWAV16(io.Discard, 48000, 2, samples)
	}
}
