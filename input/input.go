// Package input holds the per-frame device state the frontend captures
// before the guest is driven. The guest only ever observes a snapshot: the
// frontend writes one between frames, and every query during a frame reads
// the same immutable values.
package input

const (
	// MaxPorts is the number of addressable controller slots.
	MaxPorts = 8

	// joypadButtons is the size of the per-port button id space.
	joypadButtons = 16

	// maxKeys bounds the keyboard id space. Ids follow the frontend's
	// keycode set; anything past the bound reads as released.
	maxKeys = 512
)

// Lightgun is pointer state for one port.
type Lightgun struct {
	X       int32
	Y       int32
	Buttons uint32
}

// Snapshot is one frame of input. The zero value reads as everything
// released and all coordinates at origin.
type Snapshot struct {
	joypads  [MaxPorts]uint32
	keys     [maxKeys / 64]uint64
	MouseX   int32
	MouseY   int32
	MouseBtn uint32
	Lightgun [MaxPorts]Lightgun
}

// SetJoypad sets one port's pressed-button bitset, bit i = button id i.
func (s *Snapshot) SetJoypad(port uint32, buttons uint32) {
	if port < MaxPorts {
		s.joypads[port] = buttons
	}
}

// PressJoypad marks a single button pressed on a port.
func (s *Snapshot) PressJoypad(port, button uint32) {
	if port < MaxPorts && button < joypadButtons {
		s.joypads[port] |= 1 << button
	}
}

// JoypadPressed reports whether a button is down. Out-of-range ports and
// button ids read as released.
func (s *Snapshot) JoypadPressed(port, button uint32) bool {
	if port >= MaxPorts || button >= joypadButtons {
		return false
	}
	return s.joypads[port]&(1<<button) != 0
}

// PressKey marks a key id pressed.
func (s *Snapshot) PressKey(key uint32) {
	if key < maxKeys {
		s.keys[key/64] |= 1 << (key % 64)
	}
}

// ReleaseKey marks a key id released.
func (s *Snapshot) ReleaseKey(key uint32) {
	if key < maxKeys {
		s.keys[key/64] &^= 1 << (key % 64)
	}
}

// KeyPressed reports whether a key id is down.
func (s *Snapshot) KeyPressed(key uint32) bool {
	if key >= maxKeys {
		return false
	}
	return s.keys[key/64]&(1<<(key%64)) != 0
}

// LightgunAt returns one port's pointer state. Out-of-range ports read as
// the zero state.
func (s *Snapshot) LightgunAt(port uint32) Lightgun {
	if port >= MaxPorts {
		return Lightgun{}
	}
	return s.Lightgun[port]
}
