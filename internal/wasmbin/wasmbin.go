// Package wasmbin emits minimal wasm binaries for tests: modules exporting
// empty nullary functions, constant-returning allocator-shaped functions, and
// optionally a linear memory. Just enough of the binary format to exercise
// loading, entrypoint resolution, and guest memory access without checked-in
// fixtures.
package wasmbin

// Function type indices emitted by Bytes. Both types are always present when
// any function is.
const (
	typeVoid   = 0 // () -> ()
	typeI32I32 = 1 // (i32) -> (i32)
)

type funcEntry struct {
	name string
	typ  byte
	code []byte // body instructions, without the locals vector and end opcode
}

// Builder accumulates exports and renders a complete module.
type Builder struct {
	funcs    []funcEntry
	memPages uint32
	hasMem   bool
}

// New returns an empty module builder.
func New() *Builder {
	return &Builder{}
}

// ExportFunc adds empty () -> () functions exported under the given names.
func (b *Builder) ExportFunc(names ...string) *Builder {
	for _, name := range names {
		b.funcs = append(b.funcs, funcEntry{name: name, typ: typeVoid})
	}
	return b
}

// ExportI32Func adds an exported (i32) -> (i32) function that ignores its
// argument and returns the given constant. Shaped like a guest allocator.
func (b *Builder) ExportI32Func(name string, ret int32) *Builder {
	b.funcs = append(b.funcs, funcEntry{
		name: name,
		typ:  typeI32I32,
		code: append([]byte{0x41}, sleb(ret)...), // i32.const ret
	})
	return b
}

// ExportMemory adds a linear memory of the given page count, exported as
// "memory".
func (b *Builder) ExportMemory(pages uint32) *Builder {
	b.memPages = pages
	b.hasMem = true
	return b
}

// Bytes renders the module.
func (b *Builder) Bytes() []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	if len(b.funcs) > 0 {
		// Type section: () -> () and (i32) -> (i32).
		out = section(out, 1, concat(uleb(2),
			[]byte{0x60, 0x00, 0x00},
			[]byte{0x60, 0x01, 0x7F, 0x01, 0x7F}))

		body := uleb(uint32(len(b.funcs)))
		for _, f := range b.funcs {
			body = append(body, f.typ)
		}
		out = section(out, 3, body)
	}

	if b.hasMem {
		out = section(out, 5, concat(uleb(1), []byte{0x00}, uleb(b.memPages)))
	}

	exports := uleb(uint32(len(b.funcs)))
	for i, f := range b.funcs {
		exports = concat(exports, uleb(uint32(len(f.name))), []byte(f.name), []byte{0x00}, uleb(uint32(i)))
	}
	if b.hasMem {
		exports = incrementCount(exports)
		exports = concat(exports, uleb(uint32(len("memory"))), []byte("memory"), []byte{0x02}, uleb(0))
	}
	if len(b.funcs) > 0 || b.hasMem {
		out = section(out, 7, exports)
	}

	if len(b.funcs) > 0 {
		body := uleb(uint32(len(b.funcs)))
		for _, f := range b.funcs {
			// Each body: zero locals, instructions, end opcode.
			content := concat([]byte{0x00}, f.code, []byte{0x0B})
			body = concat(body, uleb(uint32(len(content))), content)
		}
		out = section(out, 10, body)
	}

	return out
}

func section(out []byte, id byte, body []byte) []byte {
	out = append(out, id)
	out = append(out, uleb(uint32(len(body)))...)
	return append(out, body...)
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// incrementCount bumps the leading vector count of an export body. Counts in
// these fixtures stay below 128, so the count is always a single byte.
func incrementCount(body []byte) []byte {
	body[0]++
	return body
}
