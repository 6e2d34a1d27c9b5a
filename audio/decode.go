package audio

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/braheezy/qoa"
	"github.com/go-audio/wav"
	"github.com/quasilyte/xm"
	"github.com/quasilyte/xm/xmfile"

	"github.com/wasm96/core/errors"
)

// xmRenderCapFrames bounds how much of a module gets rendered up front, so a
// pattern loop that never ends cannot allocate without limit. Ten minutes at
// 48kHz.
const xmRenderCapFrames = 48000 * 600

// decodeWAV decodes WAV bytes to stereo interleaved int16. Mono input is
// duplicated to both sides; more than two channels is unsupported.
func decodeWAV(data []byte) ([]int16, uint32, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, 0, errors.InvalidInput(errors.PhaseAudio, "not a wav file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, errors.Wrap(errors.PhaseAudio, errors.KindInvalidData, err, "decode wav")
	}
	if buf.Format == nil || len(buf.Data) == 0 {
		return nil, 0, errors.InvalidInput(errors.PhaseAudio, "wav has no samples")
	}

	shift := bitDepthShift(buf.SourceBitDepth)
	if shift < 0 {
		return nil, 0, errors.Unsupported(errors.PhaseAudio, "wav bit depth")
	}

	rate := uint32(buf.Format.SampleRate)
	switch buf.Format.NumChannels {
	case 1:
		pcm := make([]int16, 0, len(buf.Data)*2)
		for _, v := range buf.Data {
			s := scaleSample(v, shift)
			pcm = append(pcm, s, s)
		}
		return pcm, rate, nil
	case 2:
		pcm := make([]int16, 0, len(buf.Data))
		for _, v := range buf.Data {
			pcm = append(pcm, scaleSample(v, shift))
		}
		return pcm[:len(pcm)/2*2], rate, nil
	default:
		return nil, 0, errors.Unsupported(errors.PhaseAudio, "wav channel count")
	}
}

// bitDepthShift maps a source bit depth to the shift that lands samples in
// int16 range, or -1 when unsupported.
func bitDepthShift(depth int) int {
	switch depth {
	case 0, 16:
		return 0
	case 8:
		return -1 // handled in scaleSample: unsigned, widen
	case 24:
		return 8
	case 32:
		return 16
	}
	return -2
}

func scaleSample(v, shift int) int16 {
	switch shift {
	case -1:
		return int16((v - 128) << 8)
	case 0:
		return int16(v)
	default:
		return int16(v >> shift)
	}
}

// decodeQOA decodes QOA bytes to stereo interleaved int16.
func decodeQOA(data []byte) ([]int16, uint32, error) {
	q, samples, err := qoa.Decode(data)
	if err != nil {
		return nil, 0, errors.Wrap(errors.PhaseAudio, errors.KindInvalidData, err, "decode qoa")
	}
	if len(samples) == 0 {
		return nil, 0, errors.InvalidInput(errors.PhaseAudio, "qoa has no samples")
	}

	switch q.Channels {
	case 1:
		pcm := make([]int16, 0, len(samples)*2)
		for _, s := range samples {
			pcm = append(pcm, s, s)
		}
		return pcm, q.SampleRate, nil
	case 2:
		return samples[:len(samples)/2*2], q.SampleRate, nil
	default:
		return nil, 0, errors.Unsupported(errors.PhaseAudio, "qoa channel count")
	}
}

// decodeXM renders a tracker module once at the given output rate. The
// resulting buffer is played looped, so the render itself stops at the end of
// the song.
func decodeXM(data []byte, sampleRate uint32) ([]int16, error) {
	stream := xm.NewStream()
	module, err := xmfile.NewParser(xmfile.ParserConfig{}).ParseFromBytes(data)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseAudio, errors.KindInvalidData, err, "load xm module")
	}
	if err := stream.LoadModule(module, xm.LoadModuleConfig{
		SampleRate: uint(sampleRate),
	}); err != nil {
		return nil, errors.Wrap(errors.PhaseAudio, errors.KindInvalidData, err, "load xm module")
	}

	var rendered bytes.Buffer
	chunk := make([]byte, 16*1024)
	capBytes := xmRenderCapFrames * 4
	for rendered.Len() < capBytes {
		n, err := stream.Read(chunk)
		rendered.Write(chunk[:n])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.PhaseAudio, errors.KindInvalidData, err, "render xm module")
		}
		if n == 0 {
			break
		}
	}

	raw := rendered.Bytes()
	frames := len(raw) / 4
	if frames == 0 {
		return nil, errors.InvalidInput(errors.PhaseAudio, "xm module rendered no audio")
	}

	pcm := make([]int16, frames*2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return pcm, nil
}
