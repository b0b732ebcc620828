// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/zeebo/errs"

	"storj.io/console-uitest/pkg/browser"
)

// Save writes the session storage state to path, replacing the file
// atomically.
func Save(path string, session *Session) error {
	data, err := json.MarshalIndent(session.state, "", "  ")
	if err != nil {
		return Error.Wrap(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return Error.Wrap(err)
	}
	return Error.Wrap(atomicWrite(path, 0600, data))
}

// Load reads a session saved by Save. The creation time is the file
// modification time.
func Load(path string) (*Session, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	var state browser.StorageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, Error.New("invalid session file %q: %v", path, err)
	}
	if state.Empty() {
		return nil, Error.New("session file %q holds no state", path)
	}
	return &Session{state: &state, created: info.ModTime()}, nil
}

func atomicWrite(outfile string, mode os.FileMode, data []byte) (err error) {
	fh, err := os.CreateTemp(filepath.Dir(outfile), filepath.Base(outfile))
	if err != nil {
		return errs.Wrap(err)
	}
	defer func() {
		if err != nil {
			err = errs.Combine(err, fh.Close())
			err = errs.Combine(err, os.Remove(fh.Name()))
		}
	}()
	if _, err := fh.Write(data); err != nil {
		return errs.Wrap(err)
	}
	if err := fh.Chmod(mode); err != nil {
		return errs.Wrap(err)
	}
	if err := fh.Sync(); err != nil {
		return errs.Wrap(err)
	}
	if err := fh.Close(); err != nil {
		return errs.Wrap(err)
	}
	if err := os.Rename(fh.Name(), outfile); err != nil {
		return errs.Wrap(err)
	}
	return nil
}
