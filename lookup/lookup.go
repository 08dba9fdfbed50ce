// Package lookup implements the per-request symbol table mapping field
// names to row slots: Lookup and LookupKey from the core data model.
package lookup

import (
	"github.com/kvsearch/qexec/qerr"
)

// Flag records a LookupKey's provenance and state. Flags combine freely.
type Flag uint32

const (
	FlagDocSrc Flag = 1 << iota
	FlagSchemaSrc
	FlagSVSrc
	FlagQuerySrc
	FlagNameAlloc
	FlagUnresolved
	FlagHidden
	FlagExplicitReturn
	FlagValAvailable
	FlagIsLoaded
	FlagNumeric
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }

// Key is a named slot descriptor. A replaced Key (WRITE-mode override)
// has its name cleared and becomes unreachable by lookup, though its
// slot is reused by the new key.
type Key struct {
	name   string
	path   string
	dstidx int
	svidx  int // -1 if not schema-sortable
	flags  Flag
}

// Name returns the key's field name, or "" if the key has been replaced
// and is no longer reachable.
func (k *Key) Name() string { return k.name }

// Path returns the source-document fetch path (may equal Name).
func (k *Key) Path() string { return k.path }

// DstIdx is the row slot this key occupies.
func (k *Key) DstIdx() int { return k.dstidx }

// SVIdx is the sort-vector slot, or -1 if this key is not schema-sortable.
func (k *Key) SVIdx() int { return k.svidx }

// Flags returns the key's current flag set.
func (k *Key) Flags() Flag { return k.flags }

func (k *Key) setFlag(f Flag)   { k.flags |= f }
func (k *Key) clearFlag(f Flag) { k.flags &^= f }

// SchemaResolver resolves a field name against the request's schema
// cache: whether it exists, whether it is schema-sortable (and at what
// sort-vector index), and whether it is numeric. It is the lookup's
// borrowed collaborator, owned by the caller for the request's lifetime.
type SchemaResolver interface {
	// Resolve reports, for name, whether the field is known to the
	// schema, its canonical source path, whether it has a sort-vector
	// slot (and which), and whether it is numeric.
	Resolve(name string) (known bool, path string, svidx int, numeric bool)
}

// Mode selects a Lookup access discipline.
type Mode uint8

const (
	ModeRead Mode = iota
	ModeWrite
	ModeLoad
)

// Lookup is the ordered sequence of Keys for one request, plus the
// monotone slot-count rowlen and a borrowed schema resolver.
type Lookup struct {
	keys     []*Key
	byName   map[string]*Key
	rowlen   int
	resolver SchemaResolver
}

// New creates an empty Lookup bound to resolver, which may be nil if the
// request has no schema (every field is then created UNRESOLVED).
func New(resolver SchemaResolver) *Lookup {
	return &Lookup{
		byName:   make(map[string]*Key),
		resolver: resolver,
	}
}

// RowLen is the current slot count; every Row built against this Lookup
// must be at least this long.
func (l *Lookup) RowLen() int { return l.rowlen }

// Keys returns the lookup's keys in creation order. Replaced keys (name
// cleared) are still present so callers can account for slot reuse, but
// should generally be skipped by Name() == "".
func (l *Lookup) Keys() []*Key { return l.keys }

func (l *Lookup) alloc() int {
	idx := l.rowlen
	l.rowlen++
	return idx
}

func (l *Lookup) register(k *Key) {
	l.keys = append(l.keys, k)
	if k.name != "" {
		l.byName[k.name] = k
	}
}

// GetReadKey implements READ mode: find an existing key by name; if
// absent and the schema marks the field sortable, create it pre-marked
// VAL_AVAILABLE and SCHEMA_SRC; otherwise, if createIfMissing is set,
// create it UNRESOLVED.
func (l *Lookup) GetReadKey(name string, createIfMissing bool) *Key {
	if k, ok := l.byName[name]; ok {
		return k
	}
	if l.resolver != nil {
		if known, path, svidx, numeric := l.resolver.Resolve(name); known && svidx >= 0 {
			k := &Key{name: name, path: path, dstidx: l.alloc(), svidx: svidx, flags: FlagSchemaSrc | FlagSVSrc | FlagValAvailable}
			if numeric {
				k.setFlag(FlagNumeric)
			}
			l.register(k)
			return k
		}
	}
	if !createIfMissing {
		return nil
	}
	k := &Key{name: name, path: name, dstidx: l.alloc(), svidx: -1, flags: FlagUnresolved}
	l.register(k)
	return k
}

// GetWriteKey implements WRITE mode: find by name; on conflict with an
// existing non-replaced key, fail unless override is set, in which case
// the previous key is marked unreachable (name cleared) and its slot is
// reused by the new key.
func (l *Lookup) GetWriteKey(name string, override bool) (*Key, error) {
	if existing, ok := l.byName[name]; ok {
		if !override {
			return nil, qerr.Newf(qerr.CodeDupField, "field %q already defined", name)
		}
		existing.name = ""
		delete(l.byName, name)
		k := &Key{name: name, path: name, dstidx: existing.dstidx, svidx: -1, flags: FlagQuerySrc}
		l.register(k)
		return k, nil
	}
	k := &Key{name: name, path: name, dstidx: l.alloc(), svidx: -1, flags: FlagQuerySrc}
	l.register(k)
	return k, nil
}

// GetLoadKey implements LOAD mode: find by name; a non-loaded conflict is
// reported as "already present" unless override or force is set. The
// returned key is marked DOC_SRC|IS_LOADED, with its path resolved from
// the schema when known, else from fieldName itself.
func (l *Lookup) GetLoadKey(fieldName string, override, force bool) (k *Key, alreadyPresent bool, err error) {
	if existing, ok := l.byName[fieldName]; ok {
		if existing.flags.Has(FlagIsLoaded) && !force {
			return existing, true, nil
		}
		if !override && !force {
			return existing, true, nil
		}
		existing.setFlag(FlagDocSrc | FlagIsLoaded)
		existing.clearFlag(FlagUnresolved)
		return existing, false, nil
	}
	path := fieldName
	svidx := -1
	numeric := false
	if l.resolver != nil {
		if known, p, sv, num := l.resolver.Resolve(fieldName); known {
			path = p
			svidx = sv
			numeric = num
		}
	}
	k = &Key{name: fieldName, path: path, dstidx: l.alloc(), svidx: svidx, flags: FlagDocSrc | FlagIsLoaded}
	if numeric {
		k.setFlag(FlagNumeric)
	}
	l.register(k)
	return k, false, nil
}

// Access dispatches to the mode-appropriate accessor. It exists so
// pipeline-builder code can treat READ/WRITE/LOAD uniformly when the
// mode is itself a parameter.
func (l *Lookup) Access(mode Mode, name string, createOrOverride bool) (*Key, error) {
	switch mode {
	case ModeRead:
		k := l.GetReadKey(name, createOrOverride)
		if k == nil {
			return nil, qerr.Newf(qerr.CodeNoPropKey, "unknown field %q", name)
		}
		return k, nil
	case ModeWrite:
		return l.GetWriteKey(name, createOrOverride)
	case ModeLoad:
		k, _, err := l.GetLoadKey(name, createOrOverride, false)
		return k, err
	default:
		return nil, qerr.New(qerr.CodeInvalid, "unknown lookup mode")
	}
}
