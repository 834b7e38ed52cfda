package bytecode

import (
	"fmt"
	"sort"
)

// patchSite is one instruction-stream position awaiting a label's offset.
// The cause records why strict operand encoding rejected the token, so an
// unresolved label can report the true root of the failure.
type patchSite struct {
	loc   int
	cause error
}

// labelInfo tracks one label: its resolved instruction offset (once the
// label line is seen) and the patch sites depending on it.
type labelInfo struct {
	sites    []patchSite
	resolved int
	defined  bool
}

// labeler collects and resolves labels for branching within one instruction
// stream. Its scope is a single assembly of a single program or function
// body; label scope does not cross function boundaries.
type labeler struct {
	labels map[string]*labelInfo
}

func newLabeler() *labeler {
	return &labeler{labels: make(map[string]*labelInfo)}
}

func (l *labeler) info(label string) *labelInfo {
	li, ok := l.labels[label]
	if !ok {
		li = &labelInfo{}
		l.labels[label] = li
	}
	return li
}

// setLocation records that label resolves to the given instruction offset.
func (l *labeler) setLocation(label string, loc int) {
	li := l.info(label)
	li.resolved = loc
	li.defined = true
}

// appendDep records that the word at loc must eventually hold the offset of
// label. Forward references queue here until the label line is seen.
func (l *labeler) appendDep(label string, loc int, cause error) {
	li := l.info(label)
	li.sites = append(li.sites, patchSite{loc: loc, cause: cause})
}

// resolve applies every outstanding patch to the instruction stream. A label
// that is referenced but never defined is a hard error, reported with the
// encoding failure that first deferred it.
func (l *labeler) resolve(code []Word) error {
	names := make([]string, 0, len(l.labels))
	for name := range l.labels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		li := l.labels[name]
		if !li.defined {
			if len(li.sites) > 0 && li.sites[0].cause != nil {
				return fmt.Errorf("unknown label %s: %w", name, li.sites[0].cause)
			}
			return fmt.Errorf("unknown label %s", name)
		}
		patched := EncodeOperandValue(uint64(li.resolved), MaskImmediate)
		for _, site := range li.sites {
			code[site.loc] = Word(patched)
		}
	}
	return nil
}
