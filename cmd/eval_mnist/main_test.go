package main

import "bytes"
import "log"
import "path/filepath"
import "testing"

import "github.com/neurlang/hebbian/checkpoint"
import "github.com/neurlang/hebbian/net/feedforward"

func TestLoadNeedsSource(t *testing.T) {
	var logs bytes.Buffer
	net, _ := feedforward.New(4, 3, 2)
	if err := load(net, "", "", "", log.New(&logs, "", 0)); err == nil {
		t.Errorf("loading without a model or database succeeded")
	}
}

func TestLoadLatestRun(t *testing.T) {
	var logs bytes.Buffer
	path := filepath.Join(t.TempDir(), "checkpoints.db")
	db, err := checkpoint.OpenSQLite(path, "")
	if err != nil {
		t.Fatal(err)
	}
	src, _ := feedforward.New(4, 3, 2)
	if err := db.Checkpoint(src, 1, nil); err != nil {
		t.Fatal(err)
	}
	db.Close()

	net, _ := feedforward.New(4, 3, 2)
	if err := load(net, path, "", "", log.New(&logs, "", 0)); err != nil {
		t.Fatal(err)
	}
	if err := load(net, path, "missing", "", log.New(&logs, "", 0)); err == nil {
		t.Errorf("loading a missing run succeeded")
	}
}
