package flow

import (
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/kvsearch/qexec/lookup"
	"github.com/kvsearch/qexec/sresult"
	"github.com/kvsearch/qexec/store"
	"github.com/kvsearch/qexec/value"
)

// LoadMode selects which of a Lookup's keys the document loader fetches.
type LoadMode uint8

const (
	// LoadModeKeys loads only the explicitly supplied key list.
	LoadModeKeys LoadMode = iota
	// LoadModeSortableOnly loads the explicitly supplied key list, as
	// LoadModeKeys does; the keys are not filtered by sortability.
	LoadModeSortableOnly
	// LoadModeAll loads every field present on the document (wildcard).
	LoadModeAll
)

// DocLoaderStage fetches field values from the live document store for
// keys the pipeline hasn't already resolved from the index or schema.
type DocLoaderStage struct {
	base
	keys        []*lookup.Key
	mode        LoadMode
	force       bool
	forceString bool
	record      store.RecordSource
	structured  store.StructuredSource
	lk          *lookup.Lookup
	sf          singleflight.Group
}

// NewDocLoader builds a DocumentLoader stage. Exactly one of record or
// structured should be non-nil; record is checked first.
func NewDocLoader(upstream Stage, keys []*lookup.Key, mode LoadMode, force, forceString bool, record store.RecordSource, structured store.StructuredSource, lk *lookup.Lookup) *DocLoaderStage {
	return &DocLoaderStage{
		base:        base{upstream: upstream},
		keys:        keys,
		mode:        mode,
		force:       force,
		forceString: forceString,
		record:      record,
		structured:  structured,
		lk:          lk,
	}
}

func (d *DocLoaderStage) Type() Type { return TypeDocLoader }
func (d *DocLoaderStage) Behavior() Behavior { return BehaviorAccessStore }

func (d *DocLoaderStage) Next(res *sresult.SearchResult) Status {
	st := pull(d.upstream, res)
	if st != StatusOK {
		return st
	}
	if res.DMD == nil || res.DMD.Deleted {
		return StatusOK
	}

	targets := d.targetKeys()
	for _, k := range targets {
		if k.Flags().Has(lookup.FlagValAvailable) && !d.force {
			continue
		}
		if err := d.loadOne(res, k); err != nil {
			res.Flags |= sresult.FlagValIsNull
		}
	}
	return StatusOK
}

func (d *DocLoaderStage) targetKeys() []*lookup.Key {
	if d.mode != LoadModeAll {
		return d.keys
	}
	all := d.lk.Keys()
	out := make([]*lookup.Key, 0, len(all))
	for _, k := range all {
		if k.Name() != "" {
			out = append(out, k)
		}
	}
	return out
}

// loadOne fetches a single key's value, deduplicating concurrent loads of
// the same (docId, key) pair via singleflight so a field is ever fetched
// at most once per document within the request.
func (d *DocLoaderStage) loadOne(res *sresult.SearchResult, k *lookup.Key) error {
	sfKey := fmt.Sprintf("%d/%s", res.DocID, k.Path())
	v, err, _ := d.sf.Do(sfKey, func() (any, error) {
		return d.fetch(res.DocID, k)
	})
	if err != nil {
		return err
	}
	val := v.(*value.Value)
	res.Row.EnsureLen(k.DstIdx() + 1)
	res.Row.Set(k.DstIdx(), val)
	return nil
}

func (d *DocLoaderStage) fetch(docID uint64, k *lookup.Key) (*value.Value, error) {
	if d.record != nil {
		fields, ok := d.record.Open(docID)
		if !ok {
			return nil, fmt.Errorf("document %d not found", docID)
		}
		for _, f := range fields {
			if f.Name != k.Path() {
				continue
			}
			if k.Flags().Has(lookup.FlagNumeric) && !d.forceString {
				return coerceNumericValue(f.Value), nil
			}
			return f.Value, nil
		}
		return nil, fmt.Errorf("field %q not on document %d", k.Path(), docID)
	}

	if d.structured != nil {
		root, ok := d.structured.Root(docID)
		if !ok {
			return nil, fmt.Errorf("document %d not found", docID)
		}
		values, ok := store.EvalPath(root, k.Path())
		if !ok {
			return nil, fmt.Errorf("path %q not found on document %d", k.Path(), docID)
		}
		if len(values) == 1 {
			return values[0], nil
		}
		expanded := value.NewArray(values...)
		display := value.NewString(fmt.Sprintf("%v", values), value.OwnershipOwned)
		return value.NewDuo(values[0], display, expanded), nil
	}

	return nil, fmt.Errorf("no document source configured")
}

func coerceNumericValue(v *value.Value) *value.Value {
	if v.Kind() == value.KindNumber {
		return v
	}
	f, err := strconv.ParseFloat(value.StringVal(v), 64)
	if err != nil {
		return v
	}
	return value.NewNumber(f)
}
