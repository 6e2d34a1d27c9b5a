// Package audio mixes guest-pushed samples and decoded playback channels
// into a single interleaved int16 stream the frontend drains once per frame.
package audio

import "sync"

const (
	// maxChannels is the playback slot pool size. A play call beyond this
	// reclaims the oldest finished slot, or is dropped when every slot is
	// still producing samples.
	maxChannels = 32

	// UnityVolume is the Q8.8 fixed-point volume meaning "unscaled".
	UnityVolume = 256

	defaultSampleRate = 44100
	defaultChannels   = 2
)

// channel is one live playback slot. pcm is always stereo interleaved; mono
// sources are duplicated at decode time so mixing never branches on layout.
type channel struct {
	active   bool
	loop     bool
	pcm      []int16
	posFrame int
	volume   int32 // Q8.8
	pan      int32 // -128..127, 0 = center
	seq      uint64
}

// Mixer owns the playback slots and the guest push queue. All methods are
// safe for concurrent use, though the frame loop is single-threaded in
// practice.
type Mixer struct {
	mu         sync.Mutex
	sampleRate uint32
	channels   uint32
	queue      []int16
	slots      [maxChannels]channel
	seq        uint64
}

// NewMixer returns a mixer at the default 44.1kHz stereo format.
func NewMixer() *Mixer {
	return &Mixer{sampleRate: defaultSampleRate, channels: defaultChannels}
}

// Configure fixes the output format. Only mono and stereo are supported.
// Returns false without changing state on an invalid format.
func (m *Mixer) Configure(sampleRate, channels uint32) bool {
	if sampleRate == 0 || (channels != 1 && channels != 2) {
		return false
	}
	m.mu.Lock()
	m.sampleRate = sampleRate
	m.channels = channels
	m.mu.Unlock()
	return true
}

// SampleRate is the configured output rate.
func (m *Mixer) SampleRate() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sampleRate
}

// Channels is the configured output channel count.
func (m *Mixer) Channels() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels
}

// PushI16 appends raw interleaved frames in the configured channel layout to
// the pending queue. Returns the number of frames accepted.
func (m *Mixer) PushI16(samples []int16) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := len(samples) / int(m.channels)
	m.queue = append(m.queue, samples[:frames*int(m.channels)]...)
	return uint32(frames)
}

// PlayWAV decodes WAV bytes into a one-shot channel.
func (m *Mixer) PlayWAV(data []byte) bool {
	pcm, _, err := decodeWAV(data)
	if err != nil {
		return false
	}
	return m.play(pcm, false)
}

// PlayQOA decodes QOA bytes into a looping channel.
func (m *Mixer) PlayQOA(data []byte) bool {
	pcm, _, err := decodeQOA(data)
	if err != nil {
		return false
	}
	return m.play(pcm, true)
}

// PlayXM renders an XM module at the output rate into a looping channel.
func (m *Mixer) PlayXM(data []byte) bool {
	pcm, err := decodeXM(data, m.SampleRate())
	if err != nil {
		return false
	}
	return m.play(pcm, true)
}

// play claims a slot for stereo PCM. Free slots are taken first, then the
// oldest finished slot is evicted; when every slot is still active the
// request is dropped.
func (m *Mixer) play(pcmStereo []int16, loop bool) bool {
	if len(pcmStereo) < 2 {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	slot := -1
	var oldest uint64
	for i := range m.slots {
		if !m.slots[i].active {
			if slot == -1 || m.slots[i].seq < oldest {
				slot = i
				oldest = m.slots[i].seq
			}
		}
	}
	if slot == -1 {
		return false
	}

	m.seq++
	m.slots[slot] = channel{
		active: true,
		loop:   loop,
		pcm:    pcmStereo,
		volume: UnityVolume,
		seq:    m.seq,
	}
	return true
}

// ActiveChannels reports how many slots are currently producing samples.
func (m *Mixer) ActiveChannels() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for i := range m.slots {
		if m.slots[i].active {
			n++
		}
	}
	return n
}

// Drain removes up to maxFrames mixed frames and returns them interleaved in
// the configured channel layout. maxFrames of zero means exactly the frames
// currently queued by PushI16: with an empty queue it returns nothing, so a
// repeated Drain(0) yields zero frames. Playback channels are mixed over the
// drained span with volume and pan applied and samples saturated, never
// wrapped. A nonzero maxFrames is capped at the queued backlog plus one
// second at the output rate.
func (m *Mixer) Drain(maxFrames uint32) []int16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	outCh := int(m.channels)
	queuedFrames := len(m.queue) / outCh

	target := int(maxFrames)
	if target == 0 {
		target = queuedFrames
	} else if lim := queuedFrames + int(m.sampleRate); target > lim {
		// A single drain never returns more than the push backlog plus one
		// second of channel mix, bounding the allocation a raw guest integer
		// can demand.
		target = lim
	}
	if target == 0 {
		return nil
	}

	mixed := make([]int16, target*outCh)

	take := queuedFrames
	if take > target {
		take = target
	}
	copy(mixed, m.queue[:take*outCh])
	m.queue = m.queue[take*outCh:]

	for i := range m.slots {
		ch := &m.slots[i]
		if !ch.active {
			continue
		}

		chFrames := len(ch.pcm) / 2
		volL, volR := ch.gains()

		for f := 0; f < target; f++ {
			if ch.posFrame >= chFrames {
				if !ch.loop {
					ch.active = false
					break
				}
				ch.posFrame = 0
			}

			l := clampI16(int32(ch.pcm[ch.posFrame*2]) * volL / (UnityVolume * panScale))
			r := clampI16(int32(ch.pcm[ch.posFrame*2+1]) * volR / (UnityVolume * panScale))
			ch.posFrame++

			if outCh == 2 {
				mixed[f*2] = satAddI16(mixed[f*2], l)
				mixed[f*2+1] = satAddI16(mixed[f*2+1], r)
			} else {
				mixed[f] = satAddI16(mixed[f], int16((int32(l)+int32(r))/2))
			}
		}
	}

	return mixed
}

const panScale = 128

// gains folds Q8.8 volume and linear pan into one Q8.8*panScale multiplier
// per side.
func (c *channel) gains() (left, right int32) {
	left, right = panScale, panScale
	if c.pan > 0 {
		left = panScale - c.pan
	} else if c.pan < 0 {
		right = panScale + c.pan
	}
	return left * c.volume, right * c.volume
}

func satAddI16(a, b int16) int16 {
	return clampI16(int32(a) + int32(b))
}

func clampI16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
