package kernel

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/naga"
)

// EntryPoint is the name of the compute function every module must export.
const EntryPoint = "mandelbrot"

//go:embed shaders/mandelbrot.wgsl
var defaultSource string

var (
	// ErrEmptyModule is returned when a module has no source.
	ErrEmptyModule = errors.New("kernel: empty module")

	// ErrFunctionNotFound is returned when a module does not export the
	// requested compute function.
	ErrFunctionNotFound = errors.New("kernel: function not found")
)

// Module is a WGSL kernel module.
type Module struct {
	// Label identifies the module in logs and GPU debug labels.
	Label string

	// Path is the file the module was loaded from, empty when embedded.
	Path string

	// Source is the WGSL source text.
	Source string
}

// Function describes a compute entry point found in a module.
type Function struct {
	Name string

	// WorkgroupSize is the @workgroup_size declared on the function.
	// Omitted dimensions are 1.
	WorkgroupSize [3]uint32
}

// Width returns the number of invocations per workgroup along x.
func (f Function) Width() uint32 {
	return f.WorkgroupSize[0]
}

// Default returns the embedded Mandelbrot module.
func Default() *Module {
	return &Module{Label: EntryPoint, Source: defaultSource}
}

// Load reads a WGSL module from path.
func Load(path string) (*Module, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator configuration
	if err != nil {
		return nil, fmt.Errorf("kernel: load %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyModule, path)
	}
	label := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Module{Label: label, Path: path, Source: string(data)}, nil
}

var workgroupSizeRE = regexp.MustCompile(`@workgroup_size\(\s*(\w+)\s*(?:,\s*(\w+)\s*)?(?:,\s*(\w+)\s*)?,?\s*\)`)

// Function resolves a compute entry point by name.
// The declaration must carry @compute and a literal @workgroup_size.
func (m *Module) Function(name string) (Function, error) {
	if m == nil || strings.TrimSpace(m.Source) == "" {
		return Function{}, ErrEmptyModule
	}
	decl := regexp.MustCompile(`\bfn\s+` + regexp.QuoteMeta(name) + `\s*\(`)
	loc := decl.FindStringIndex(m.Source)
	if loc == nil {
		return Function{}, fmt.Errorf("%w: %q in module %q", ErrFunctionNotFound, name, m.Label)
	}

	// Attributes sit between the end of the previous item and the fn keyword.
	head := m.Source[:loc[0]]
	if i := strings.LastIndexAny(head, "};"); i >= 0 {
		head = head[i+1:]
	}
	if !strings.Contains(head, "@compute") {
		return Function{}, fmt.Errorf("%w: %q in module %q is not a compute function", ErrFunctionNotFound, name, m.Label)
	}
	match := workgroupSizeRE.FindStringSubmatch(head)
	if match == nil {
		return Function{}, fmt.Errorf("kernel: %q in module %q has no @workgroup_size", name, m.Label)
	}

	fn := Function{Name: name, WorkgroupSize: [3]uint32{1, 1, 1}}
	for i, s := range match[1:] {
		if s == "" {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimSuffix(s, "u"), 10, 32)
		if err != nil || v == 0 {
			return Function{}, fmt.Errorf("kernel: %q in module %q: invalid workgroup size %q", name, m.Label, s)
		}
		fn.WorkgroupSize[i] = uint32(v)
	}
	return fn, nil
}

// SPIRV compiles the module to SPIR-V words.
func (m *Module) SPIRV() ([]uint32, error) {
	if m == nil || strings.TrimSpace(m.Source) == "" {
		return nil, ErrEmptyModule
	}
	spirvBytes, err := naga.Compile(m.Source)
	if err != nil {
		return nil, fmt.Errorf("kernel: compile %q: %w", m.Label, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("kernel: compile %q: SPIR-V size %d is not word aligned", m.Label, len(spirvBytes))
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
