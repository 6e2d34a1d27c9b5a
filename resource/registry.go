package resource

import "sync"

// Registry is the keyed store of decoded assets. Each kind has its own key
// space: a key maps to at most one live resource per kind. Registration
// decodes first and replaces the slot only on success, so a failed register
// leaves whatever was previously under the key intact. Lookup misses are the
// caller's problem to ignore; unregister of an absent key is a no-op.
type Registry struct {
	mu      sync.Mutex
	images  map[Key]*Image
	anims   map[Key]*Animation
	vectors map[Key]*Vector
	fonts   map[Key]*Font
	meshes  map[Key]*Mesh
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		images:  make(map[Key]*Image),
		anims:   make(map[Key]*Animation),
		vectors: make(map[Key]*Vector),
		fonts:   make(map[Key]*Font),
		meshes:  make(map[Key]*Mesh),
	}
}

// RegisterImage decodes PNG bytes under key. Returns false on decode failure.
func (r *Registry) RegisterImage(key Key, data []byte) bool {
	img, err := DecodeImage(data)
	if err != nil {
		return false
	}
	r.mu.Lock()
	r.images[key] = img
	r.mu.Unlock()
	return true
}

// Image returns the raster image under key, or nil.
func (r *Registry) Image(key Key) *Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.images[key]
}

// UnregisterImage releases the raster image under key, if any.
func (r *Registry) UnregisterImage(key Key) {
	r.mu.Lock()
	delete(r.images, key)
	r.mu.Unlock()
}

// RegisterAnimation decodes GIF bytes under key.
func (r *Registry) RegisterAnimation(key Key, data []byte) bool {
	anim, err := DecodeAnimation(data)
	if err != nil {
		return false
	}
	r.mu.Lock()
	r.anims[key] = anim
	r.mu.Unlock()
	return true
}

// Animation returns the animated image under key, or nil.
func (r *Registry) Animation(key Key) *Animation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.anims[key]
}

// UnregisterAnimation releases the animation under key, if any.
func (r *Registry) UnregisterAnimation(key Key) {
	r.mu.Lock()
	delete(r.anims, key)
	r.mu.Unlock()
}

// RegisterVector parses SVG bytes under key.
func (r *Registry) RegisterVector(key Key, data []byte) bool {
	v, err := DecodeVector(data)
	if err != nil {
		return false
	}
	r.mu.Lock()
	r.vectors[key] = v
	r.mu.Unlock()
	return true
}

// Vector returns the vector image under key, or nil.
func (r *Registry) Vector(key Key) *Vector {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vectors[key]
}

// UnregisterVector releases the vector image under key, if any.
func (r *Registry) UnregisterVector(key Key) {
	r.mu.Lock()
	delete(r.vectors, key)
	r.mu.Unlock()
}

// RegisterFontTTF decodes outline font bytes under key.
func (r *Registry) RegisterFontTTF(key Key, data []byte) bool {
	f, err := DecodeFont(data)
	if err != nil {
		return false
	}
	r.mu.Lock()
	r.fonts[key] = f
	r.mu.Unlock()
	return true
}

// RegisterFontBuiltin registers the built-in bitmap family at the given
// pixel size under key. Unsupported sizes fail.
func (r *Registry) RegisterFontBuiltin(key Key, size uint32) bool {
	f, err := BuiltinFont(size)
	if err != nil {
		return false
	}
	r.mu.Lock()
	r.fonts[key] = f
	r.mu.Unlock()
	return true
}

// Font returns the font under key, or nil.
func (r *Registry) Font(key Key) *Font {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fonts[key]
}

// UnregisterFont releases the font under key, if any.
func (r *Registry) UnregisterFont(key Key) {
	r.mu.Lock()
	delete(r.fonts, key)
	r.mu.Unlock()
}

// RegisterMesh decodes mesh bytes under key.
func (r *Registry) RegisterMesh(key Key, data []byte) bool {
	m, err := DecodeMesh(data)
	if err != nil {
		return false
	}
	r.mu.Lock()
	r.meshes[key] = m
	r.mu.Unlock()
	return true
}

// Mesh returns the mesh under key, or nil.
func (r *Registry) Mesh(key Key) *Mesh {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meshes[key]
}

// UnregisterMesh releases the mesh under key, if any.
func (r *Registry) UnregisterMesh(key Key) {
	r.mu.Lock()
	delete(r.meshes, key)
	r.mu.Unlock()
}

// Reset drops every resource of every kind. Called on cartridge unload.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images = make(map[Key]*Image)
	r.anims = make(map[Key]*Animation)
	r.vectors = make(map[Key]*Vector)
	r.fonts = make(map[Key]*Font)
	r.meshes = make(map[Key]*Mesh)
}
