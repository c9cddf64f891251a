// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/dgraph-io/badger/v4"
)

// SnapshotStore saves and loads restart snapshots by time output index
type SnapshotStore interface {
	Save(tidx int, data []byte) (err error)
	Load(tidx int) (data []byte, err error)
	Close() (err error)
}

// NewSnapshotStore returns the store selected by kind: "file", "badger" or "none" (returns nil)
//  Note: the badger store is created in dirout/fnkey.badger
func NewSnapshotStore(kind, dirout, fnkey, enctype string, verbose bool) (SnapshotStore, error) {
	switch kind {
	case "", "file":
		return &FileStore{Dir: dirout, Fnkey: fnkey, Enc: enctype, Verbose: verbose}, nil
	case "badger":
		return OpenBadgerStore(filepath.Join(dirout, fnkey+".badger"), fnkey)
	case "none":
		return nil, nil
	}
	return nil, chk.Err("cannot find snapshot store named %q", kind)
}

// FileStore saves one file per snapshot
type FileStore struct {
	Dir     string // directory
	Fnkey   string // filename key
	Enc     string // encoder type; used as extension
	Verbose bool   // show messages
}

// Save saves a snapshot
func (o *FileStore) Save(tidx int, data []byte) (err error) {
	return save_file(out_res_path(o.Dir, o.Fnkey, o.Enc, tidx), bytes.NewBuffer(data), o.Verbose)
}

// Load loads a snapshot
func (o *FileStore) Load(tidx int) (data []byte, err error) {
	return io.ReadFile(out_res_path(o.Dir, o.Fnkey, o.Enc, tidx))
}

// Close does nothing
func (o *FileStore) Close() (err error) { return }

// BadgerStore saves snapshots in a key-value database
type BadgerStore struct {
	DB    *badger.DB // database
	Fnkey string     // prefix of keys
}

// OpenBadgerStore opens (or creates) a database in dir; an empty dir gives an in-memory database
func OpenBadgerStore(dir, fnkey string) (o *BadgerStore, err error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, chk.Err("cannot open snapshot database:\n%v", err)
	}
	return &BadgerStore{DB: db, Fnkey: fnkey}, nil
}

// Save saves a snapshot
func (o *BadgerStore) Save(tidx int, data []byte) (err error) {
	return o.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(o.key(tidx), data)
	})
}

// Load loads a snapshot
func (o *BadgerStore) Load(tidx int) (data []byte, err error) {
	err = o.DB.View(func(txn *badger.Txn) error {
		item, e := txn.Get(o.key(tidx))
		if e != nil {
			return e
		}
		data, e = item.ValueCopy(nil)
		return e
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, chk.Err("cannot find snapshot %d of %q", tidx, o.Fnkey)
	}
	return
}

// Close closes the database
func (o *BadgerStore) Close() (err error) {
	return o.DB.Close()
}

// key returns the key of a snapshot; e.g. "cube/0000000003"
func (o *BadgerStore) key(tidx int) []byte {
	return []byte(io.Sf("%s/%010d", o.Fnkey, tidx))
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func out_res_path(dir, fnkey, enctype string, tidx int) string {
	return filepath.Join(dir, io.Sf("%s_res_%010d.%s", fnkey, tidx, enctype))
}

func out_sum_path(dir, fnkey, enctype string) string {
	return filepath.Join(dir, io.Sf("%s_sum.%s", fnkey, enctype))
}

func save_file(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
		if err == nil && verbose {
			io.Pfblue2("file <%s> written\n", filename)
		}
	}()
	_, err = fil.Write(buf.Bytes())
	return
}
