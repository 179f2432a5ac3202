package main

import "bytes"
import "log"
import "os"
import "path/filepath"
import "testing"

func TestProfileStopTwice(t *testing.T) {
	var logs bytes.Buffer
	name := filepath.Join(t.TempDir(), "default.pgo")
	stop := profile(name, log.New(&logs, "", 0))
	stop()
	stop()
	if _, err := os.Stat(name); err != nil {
		t.Errorf("no profile written: %v %s", err, logs.String())
	}
}

func TestTrainFailsWithoutData(t *testing.T) {
	var logs bytes.Buffer
	o := options{
		dataDir: filepath.Join(t.TempDir(), "missing"),
		outDir:  t.TempDir(),
	}
	if err := train(o, log.New(&logs, "", 0)); err == nil {
		t.Errorf("training without mnist files succeeded")
	}
}
