package main

import "log"
import "os"
import "os/signal"
import "runtime/pprof"
import "sync"
import "syscall"

// profile collects a cpu profile into name until stop is called or the
// program is interrupted.
func profile(name string, l *log.Logger) (stop func()) {
	f, err := os.Create(name)
	if err != nil {
		l.Printf("Cannot create profile '%s': %v", name, err)
		return func() {}
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		l.Printf("Cannot start profile: %v", err)
		f.Close()
		return func() {}
	}
	var once sync.Once
	stop = func() {
		once.Do(func() {
			pprof.StopCPUProfile()
			f.Close()
		})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		stop()
		os.Exit(130)
	}()
	return stop
}
