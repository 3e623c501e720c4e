package storage

import "strconv"

// Editor buffers writes against a Store. Nothing is persisted until
// Commit, which applies all buffered operations atomically.
type Editor struct {
	target  applier
	puts    map[string]string
	removes map[string]struct{}
}

func newEditor(target applier) *Editor {
	return &Editor{
		target:  target,
		puts:    make(map[string]string),
		removes: make(map[string]struct{}),
	}
}

func (e *Editor) PutString(key, value string) *Editor {
	delete(e.removes, key)
	e.puts[key] = value
	return e
}

func (e *Editor) PutInt(key string, value int) *Editor {
	return e.PutString(key, strconv.Itoa(value))
}

func (e *Editor) PutBool(key string, value bool) *Editor {
	return e.PutString(key, strconv.FormatBool(value))
}

func (e *Editor) Remove(key string) *Editor {
	delete(e.puts, key)
	e.removes[key] = struct{}{}
	return e
}

// Copy buffers all entries of another store into this transaction.
// Used to import preferences from a previous storage backend.
func (e *Editor) Copy(src Store) error {
	keys, err := src.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		v, ok, err := src.Get(key)
		if err != nil {
			return err
		}
		if ok {
			e.PutString(key, v)
		}
	}
	return nil
}

// Commit applies the buffered operations. The editor must not be
// reused afterwards.
func (e *Editor) Commit() error {
	removes := make([]string, 0, len(e.removes))
	for key := range e.removes {
		removes = append(removes, key)
	}
	return e.target.apply(e.puts, removes)
}
