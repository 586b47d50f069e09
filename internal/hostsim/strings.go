package hostsim

import "unsafe"

// hostString is the record behind String and StringName cells. Records are
// interned and live as long as the engine.
type hostString struct {
	s string
}

func intern(table map[string]*hostString, s string) *hostString {
	if r, ok := table[s]; ok {
		return r
	}
	r := &hostString{s: s}
	table[s] = r
	return r
}

func readString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	return (*hostString)(p).s
}

func writePointer(dst, p unsafe.Pointer) {
	*(*unsafe.Pointer)(dst) = p
}
