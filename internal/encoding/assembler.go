package encoding

import (
	"strings"

	"github.com/hksynth/hksynth-cli/internal/models"
)

// SampleFunc receives each completed sample record.
type SampleFunc func(models.Record)

// StopFunc is polled after every completed sample; returning true makes all
// further feeding a no-op.
type StopFunc func() bool

// typePrefix marks root-level property names that open a type array.
const typePrefix = "HK"

// frame is one level of the in-progress sample tree. Object frames collect
// named properties, array frames collect ordered values; key is the property
// name the frame merges into when it closes.
type frame struct {
	key   string
	name  string
	isArr bool
	obj   map[string]any
	arr   []any
}

// Assembler is a TokenSink that reconstructs one sample at a time from the
// event stream. Samples live at depth 3 (root object, type array, sample
// object); nested structures below that attach to the in-flight sample, and
// the whole tree is handed off and dropped the moment the depth-3 object
// closes. At most one top-level sample is retained at any time, which is what
// keeps memory bounded over arbitrarily large documents.
type Assembler struct {
	depth    int
	pending  string
	frames   []*frame
	onSample SampleFunc
	stop     StopFunc
	stopped  bool
}

// NewAssembler wires the completion callback and an optional stop predicate.
func NewAssembler(onSample SampleFunc, stop StopFunc) *Assembler {
	return &Assembler{onSample: onSample, stop: stop}
}

// Stopped reports whether the stop predicate has halted assembly; callers
// feeding chunks should stop reading once it returns true.
func (a *Assembler) Stopped() bool {
	return a.stopped
}

func (a *Assembler) OnStartObject() {
	if a.stopped {
		return
	}
	a.depth++
	switch {
	case a.depth == 3 && a.pending != "":
		a.frames = append(a.frames[:0], &frame{obj: make(map[string]any)})
	case len(a.frames) > 0:
		a.frames = append(a.frames, &frame{key: a.currentKey(), obj: make(map[string]any)})
	}
}

func (a *Assembler) OnEndObject() {
	if a.stopped {
		return
	}
	if len(a.frames) > 0 {
		if a.depth == 3 {
			a.finish()
		} else {
			a.mergeTop()
		}
	}
	a.depth--
}

func (a *Assembler) OnStartArray() {
	if a.stopped {
		return
	}
	a.depth++
	if len(a.frames) > 0 && a.depth > 3 {
		a.frames = append(a.frames, &frame{key: a.currentKey(), isArr: true})
	}
}

func (a *Assembler) OnEndArray() {
	if a.stopped {
		return
	}
	if len(a.frames) > 0 && a.depth > 3 {
		a.mergeTop()
	}
	a.depth--
	if a.depth == 1 {
		a.pending = ""
	}
}

func (a *Assembler) OnName(name string) {
	if a.stopped {
		return
	}
	if a.depth == 1 {
		// A root-level name either opens a type array or clears the
		// pending tag, so samples under unrecognized keys never pick
		// up a stale type name.
		if strings.HasPrefix(name, typePrefix) {
			a.pending = name
		} else {
			a.pending = ""
		}
		return
	}
	if len(a.frames) > 0 {
		a.frames[len(a.frames)-1].name = name
	}
}

func (a *Assembler) OnString(value string) { a.putValue(value) }
func (a *Assembler) OnInt(value int64)     { a.putValue(value) }
func (a *Assembler) OnFloat(value float64) { a.putValue(value) }
func (a *Assembler) OnBool(value bool)     { a.putValue(value) }
func (a *Assembler) OnNull()               { a.putValue(nil) }

func (a *Assembler) putValue(v any) {
	if a.stopped || len(a.frames) == 0 {
		return
	}
	top := a.frames[len(a.frames)-1]
	if top.isArr {
		top.arr = append(top.arr, v)
	} else {
		top.obj[top.name] = v
	}
}

// currentKey is the property name a newly pushed frame will merge back into.
// Frames pushed inside an array merge by append instead and carry no key.
func (a *Assembler) currentKey() string {
	top := a.frames[len(a.frames)-1]
	if top.isArr {
		return ""
	}
	return top.name
}

// mergeTop closes the innermost frame into its parent. Keeping every nesting
// level in its own frame until close is what stops a reused property name at
// a deeper level from clobbering the same name further up.
func (a *Assembler) mergeTop() {
	if len(a.frames) < 2 {
		return
	}
	f := a.frames[len(a.frames)-1]
	a.frames = a.frames[:len(a.frames)-1]
	parent := a.frames[len(a.frames)-1]

	var merged any
	if f.isArr {
		merged = f.arr
	} else {
		merged = f.obj
	}
	if parent.isArr {
		parent.arr = append(parent.arr, merged)
	} else {
		parent.obj[f.key] = merged
	}
}

// finish hands off the completed sample and drops the assembly tree, then
// consults the stop predicate.
func (a *Assembler) finish() {
	rec := models.Record{TypeName: a.pending, Props: a.frames[0].obj}
	a.frames = nil
	a.onSample(rec)
	if a.stop != nil && a.stop() {
		a.stopped = true
	}
}
